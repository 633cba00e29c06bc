package auth

import (
	"net/http"
	"time"

	apperrors "linkbird-backend/internal/errors"

	"github.com/gin-gonic/gin"
)

// SessionResponse describes the session of the caller
type SessionResponse struct {
	UserID    string     `json:"userId" example:"user_2abc"`
	Email     string     `json:"email,omitempty" example:"ann@example.com"`
	Name      string     `json:"name,omitempty" example:"Ann Lee"`
	Demo      bool       `json:"demo"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Handler serves session endpoints
type Handler struct{}

// NewHandler creates a session handler
func NewHandler() *Handler {
	return &Handler{}
}

// Session returns the identity the request is scoped to
// @Summary Current session
// @Description Return the user the request is scoped to, as resolved from the session token
// @Tags authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SessionResponse
// @Failure 401 {object} map[string]interface{} "Authentication required"
// @Router /auth/session [get]
func (h *Handler) Session(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrUnauthenticated.Message})
		return
	}

	resp := SessionResponse{UserID: userID, Demo: IsDemo(c)}
	if email, ok := GetUserEmail(c); ok {
		resp.Email = email
	}
	if claims, ok := GetClaims(c); ok {
		resp.Name = claims.Name
		if claims.ExpiresAt != nil {
			expires := claims.ExpiresAt.Time
			resp.ExpiresAt = &expires
		}
	}
	c.JSON(http.StatusOK, resp)
}
