package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"linkbird-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// LeadHandler handles HTTP requests for leads
type LeadHandler struct {
	service service.LeadServiceInterface
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(service service.LeadServiceInterface) *LeadHandler {
	return &LeadHandler{service: service}
}

type leadListFunc func(ctx context.Context, userID string, q *service.LeadListQuery) (*service.ListResponse[service.LeadResponse], error)

// ListLeads handles GET /api/leads and GET /api/leads-demo
// @Summary List leads
// @Description Get a page of the caller's leads, each with its campaign name
// @Tags leads
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Substring of the lead first name"
// @Param status query string false "Lead status" Enums(pending, contacted, responded, converted, rejected)
// @Param campaignId query int false "Only leads of this campaign"
// @Param sortBy query string false "Sort field" Enums(createdAt, firstName, lastName, company) default(createdAt)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success 200 {object} service.ListResponse[service.LeadResponse]
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /leads [get]
func (h *LeadHandler) ListLeads(c *gin.Context) {
	h.list(c, h.service.List)
}

// ListLeadsInfinite handles GET /api/leads-infinite
// @Summary List leads for infinite scrolling
// @Description Lead list for the demo user with the page size capped at 100; pagination.hasMore tells whether another page exists
// @Tags leads
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size, at most 100" default(10)
// @Param search query string false "Substring of the lead first name"
// @Param status query string false "Lead status" Enums(pending, contacted, responded, converted, rejected)
// @Param campaignId query int false "Only leads of this campaign"
// @Param sortBy query string false "Sort field" Enums(createdAt, firstName, lastName, company) default(createdAt)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success 200 {object} service.ListResponse[service.LeadResponse]
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 429 {object} ErrorResponse "Too many requests"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /leads-infinite [get]
func (h *LeadHandler) ListLeadsInfinite(c *gin.Context) {
	h.list(c, h.service.ListInfinite)
}

func (h *LeadHandler) list(c *gin.Context, fetch leadListFunc) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var q service.LeadListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	resp, err := fetch(c, userID, &q)
	if err != nil {
		respondError(c, err, "Failed to fetch leads")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateLead handles POST /api/leads
// @Summary Create a lead
// @Description Create a lead in one of the caller's campaigns; status starts as pending
// @Tags leads
// @Accept json
// @Produce json
// @Param lead body service.CreateLeadRequest true "Lead data"
// @Success 201 {object} service.LeadResponse
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Campaign not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /leads [post]
func (h *LeadHandler) CreateLead(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req service.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request body")
		return
	}

	lead, err := h.service.Create(c, userID, &req)
	if err != nil {
		respondError(c, err, "Failed to create lead")
		return
	}

	c.JSON(http.StatusCreated, lead)
}

// GetLead handles GET /api/leads/:id and GET /api/leads-demo/:id
// @Summary Get lead by ID
// @Description Get one of the caller's leads
// @Tags leads
// @Produce json
// @Param id path int true "Lead ID"
// @Success 200 {object} service.LeadResponse
// @Failure 400 {object} ErrorResponse "Invalid lead ID"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Lead not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /leads/{id} [get]
func (h *LeadHandler) GetLead(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	lead, err := h.service.Get(c, userID, id)
	if err != nil {
		respondError(c, err, "Failed to fetch lead")
		return
	}

	c.JSON(http.StatusOK, lead)
}

// UpdateLead handles PUT /api/leads/:id
// @Summary Update a lead
// @Description Partially update one of the caller's leads, including its status
// @Tags leads
// @Accept json
// @Produce json
// @Param id path int true "Lead ID"
// @Param lead body service.UpdateLeadRequest true "Fields to update"
// @Success 200 {object} service.LeadResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Lead or campaign not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /leads/{id} [put]
func (h *LeadHandler) UpdateLead(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request body")
		return
	}

	lead, err := h.service.Update(c, userID, id, &req)
	if err != nil {
		respondError(c, err, "Failed to update lead")
		return
	}

	c.JSON(http.StatusOK, lead)
}

// DeleteLead handles DELETE /api/leads/:id
// @Summary Delete a lead
// @Description Delete one of the caller's leads
// @Tags leads
// @Produce json
// @Param id path int true "Lead ID"
// @Success 200 {object} map[string]interface{} "Lead deleted"
// @Failure 400 {object} ErrorResponse "Invalid lead ID"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Lead not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /leads/{id} [delete]
func (h *LeadHandler) DeleteLead(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c, userID, id); err != nil {
		respondError(c, err, "Failed to delete lead")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lead deleted successfully"})
}

// ExportLeads handles GET /api/leads/export
// @Summary Export leads as CSV
// @Description Download every lead matching the filters as CSV, ignoring pagination
// @Tags leads
// @Produce text/csv
// @Param search query string false "Substring of the lead first name"
// @Param status query string false "Lead status" Enums(pending, contacted, responded, converted, rejected)
// @Param campaignId query int false "Only leads of this campaign"
// @Param sortBy query string false "Sort field" Enums(createdAt, firstName, lastName, company) default(createdAt)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /leads/export [get]
func (h *LeadHandler) ExportLeads(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var q service.LeadListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	// Buffered so that a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := h.service.Export(c, userID, &q, &buf); err != nil {
		respondError(c, err, "Failed to export leads")
		return
	}

	filename := fmt.Sprintf("leads-%s.csv", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
