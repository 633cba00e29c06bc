package handlers

import (
	"net/http"

	"linkbird-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// DiagnosticsHandler serves operational inspection endpoints. They are only
// mounted outside production.
type DiagnosticsHandler struct {
	service service.DiagnosticsServiceInterface
}

// NewDiagnosticsHandler creates a new diagnostics handler
func NewDiagnosticsHandler(service service.DiagnosticsServiceInterface) *DiagnosticsHandler {
	return &DiagnosticsHandler{service: service}
}

// CheckData handles GET /api/check-data and GET /api/check-data-demo
// @Summary Inspect a user's data
// @Description Campaign and lead counts plus a few sample rows of the requesting (or demo) user
// @Tags diagnostics
// @Produce json
// @Success 200 {object} service.CheckDataResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /check-data [get]
func (h *DiagnosticsHandler) CheckData(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	resp, err := h.service.CheckData(c, userID)
	if err != nil {
		respondError(c, err, "Failed to check data")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Debug handles GET /api/debug
// @Summary Debug information
// @Description Table row counts and connection pool state
// @Tags diagnostics
// @Produce json
// @Success 200 {object} service.DebugResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /debug [get]
func (h *DiagnosticsHandler) Debug(c *gin.Context) {
	resp, err := h.service.Debug(c)
	if err != nil {
		respondError(c, err, "Failed to collect debug information")
		return
	}

	c.JSON(http.StatusOK, resp)
}
