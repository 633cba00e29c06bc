package handlers

import (
	"net/http"
	"strconv"

	"linkbird-backend/internal/auth"
	apperrors "linkbird-backend/internal/errors"
	"linkbird-backend/internal/logger"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a standard API error response
type ErrorResponse struct {
	Error   string                      `json:"error" example:"campaign not found"`
	Details []apperrors.ValidationError `json:"details,omitempty"`
}

// respondError converts an error to the error envelope. Unexpected errors are
// logged and reported, and the caller only sees message.
func respondError(c *gin.Context, err error, message string) {
	switch {
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: apperrors.ValidationDetails(err)})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case apperrors.IsBusinessRule(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case apperrors.IsAuthentication(err):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: apperrors.ErrUnauthenticated.Message})
	default:
		logger.WithContext(c).WithError(err).WithField("path", c.FullPath()).Error(message)
		if hub := sentry.GetHubFromContext(c.Request.Context()); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message})
	}
}

// respondBindError reports a request that could not be decoded
func respondBindError(c *gin.Context, err error, what string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Invalid " + what,
		Details: []apperrors.ValidationError{{Message: err.Error()}},
	})
}

// parseID reads a positive integer path parameter. It writes a 400 and
// returns false when the parameter is malformed.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, apperrors.ErrInvalidID, "")
		return 0, false
	}
	return uint(id), true
}

// requireUser returns the requesting user. It writes a 401 and returns false
// when no user was resolved by the auth or demo middleware.
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: apperrors.ErrUnauthenticated.Message})
		return "", false
	}
	return userID, true
}
