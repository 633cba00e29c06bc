package handlers

import (
	"net/http"

	"linkbird-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// CampaignHandler handles HTTP requests for campaigns
type CampaignHandler struct {
	service service.CampaignServiceInterface
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(service service.CampaignServiceInterface) *CampaignHandler {
	return &CampaignHandler{service: service}
}

// ListCampaigns handles GET /api/campaigns and GET /api/campaigns/demo
// @Summary List campaigns
// @Description Get a page of the caller's campaigns with per-campaign lead stats
// @Tags campaigns
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Substring of the campaign name"
// @Param status query string false "Campaign status" Enums(active, inactive, draft)
// @Param sortBy query string false "Sort field" Enums(createdAt, name, startDate) default(createdAt)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success 200 {object} service.ListResponse[service.CampaignResponse]
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /campaigns [get]
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var q service.CampaignListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	resp, err := h.service.List(c, userID, &q)
	if err != nil {
		respondError(c, err, "Failed to fetch campaigns")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateCampaign handles POST /api/campaigns
// @Summary Create a campaign
// @Description Create a campaign owned by the caller; status defaults to draft
// @Tags campaigns
// @Accept json
// @Produce json
// @Param campaign body service.CreateCampaignRequest true "Campaign data"
// @Success 201 {object} service.CampaignResponse
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /campaigns [post]
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req service.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request body")
		return
	}

	campaign, err := h.service.Create(c, userID, &req)
	if err != nil {
		respondError(c, err, "Failed to create campaign")
		return
	}

	c.JSON(http.StatusCreated, campaign)
}

// GetCampaign handles GET /api/campaigns/:id and GET /api/campaigns/demo/:id
// @Summary Get campaign by ID
// @Description Get one of the caller's campaigns with lead counts by status
// @Tags campaigns
// @Produce json
// @Param id path int true "Campaign ID"
// @Success 200 {object} service.CampaignResponse
// @Failure 400 {object} ErrorResponse "Invalid campaign ID"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Campaign not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /campaigns/{id} [get]
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	campaign, err := h.service.Get(c, userID, id)
	if err != nil {
		respondError(c, err, "Failed to fetch campaign")
		return
	}

	c.JSON(http.StatusOK, campaign)
}

// UpdateCampaign handles PUT /api/campaigns/:id
// @Summary Update a campaign
// @Description Partially update name, status or start date of one of the caller's campaigns
// @Tags campaigns
// @Accept json
// @Produce json
// @Param id path int true "Campaign ID"
// @Param campaign body service.UpdateCampaignRequest true "Fields to update"
// @Success 200 {object} service.CampaignResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Campaign not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /campaigns/{id} [put]
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request body")
		return
	}

	campaign, err := h.service.Update(c, userID, id, &req)
	if err != nil {
		respondError(c, err, "Failed to update campaign")
		return
	}

	c.JSON(http.StatusOK, campaign)
}

// DeleteCampaign handles DELETE /api/campaigns/:id
// @Summary Delete a campaign
// @Description Delete one of the caller's campaigns; rejected while it still has leads
// @Tags campaigns
// @Produce json
// @Param id path int true "Campaign ID"
// @Success 200 {object} map[string]interface{} "Campaign deleted"
// @Failure 400 {object} ErrorResponse "Invalid ID or campaign still has leads"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Campaign not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /campaigns/{id} [delete]
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c, userID, id); err != nil {
		respondError(c, err, "Failed to delete campaign")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted successfully"})
}

// ListCampaignLeads handles GET /api/campaigns/:id/leads
// @Summary List the leads of a campaign
// @Description Get a page of leads belonging to one of the caller's campaigns
// @Tags campaigns
// @Produce json
// @Param id path int true "Campaign ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Substring of the lead first name"
// @Param status query string false "Lead status" Enums(pending, contacted, responded, converted, rejected)
// @Param sortBy query string false "Sort field" Enums(createdAt, firstName, lastName, company) default(createdAt)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success 200 {object} service.ListResponse[service.LeadResponse]
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Campaign not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /campaigns/{id}/leads [get]
func (h *CampaignHandler) ListCampaignLeads(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var q service.LeadListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	resp, err := h.service.ListLeads(c, userID, id, &q)
	if err != nil {
		respondError(c, err, "Failed to fetch campaign leads")
		return
	}

	c.JSON(http.StatusOK, resp)
}
