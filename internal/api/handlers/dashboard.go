package handlers

import (
	"net/http"

	"linkbird-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler handles HTTP requests for dashboard stats
type DashboardHandler struct {
	service service.DashboardServiceInterface
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service service.DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetStats handles GET /api/dashboard/stats
// @Summary Dashboard stats
// @Description Campaign counts by status, lead counts by status and the most recently updated leads
// @Tags dashboard
// @Produce json
// @Success 200 {object} service.DashboardSummary
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	summary, err := h.service.Summary(c, userID)
	if err != nil {
		respondError(c, err, "Failed to fetch dashboard stats")
		return
	}

	c.JSON(http.StatusOK, summary)
}
