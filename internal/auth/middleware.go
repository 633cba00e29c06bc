package auth

import (
	"net/http"
	"strings"

	apperrors "linkbird-backend/internal/errors"
	"linkbird-backend/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	emailKey  = "email"
	claimsKey = "auth_claims"
	demoKey   = "demo"
)

// Middleware resolves the requesting user from a bearer token or session cookie
type Middleware struct {
	service    *SessionService
	cookieName string
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(service *SessionService, cookieName string) *Middleware {
	return &Middleware{service: service, cookieName: cookieName}
}

// RequireAuth rejects requests without a valid session before any handler runs
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := m.token(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrUnauthenticated.Message})
			return
		}

		claims, err := m.service.ValidateToken(tokenString)
		if err != nil {
			logger.WithContext(c).WithError(err).Debug("Rejected session token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrUnauthenticated.Message})
			return
		}

		c.Set(logger.UserIDKey, claims.UserID())
		c.Set(emailKey, claims.Email)
		c.Set(claimsKey, claims)

		c.Next()
	}
}

// token returns the bearer token, falling back to the session cookie
func (m *Middleware) token(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if tokenString, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(tokenString)
		}
		return ""
	}
	if m.cookieName != "" {
		if cookie, err := c.Cookie(m.cookieName); err == nil {
			return cookie
		}
	}
	return ""
}

// DemoUser scopes an unauthenticated request to a fixed placeholder user
func DemoUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(logger.UserIDKey, userID)
		c.Set(demoKey, true)
		c.Next()
	}
}

// GetUserID is a helper function to extract user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(logger.UserIDKey)
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	return id, ok && id != ""
}

// GetUserEmail is a helper function to extract user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(emailKey)
	if !exists {
		return "", false
	}

	emailStr, ok := email.(string)
	return emailStr, ok
}

// GetClaims is a helper function to extract full session claims from context
func GetClaims(c *gin.Context) (*Claims, bool) {
	claims, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}

	sessionClaims, ok := claims.(*Claims)
	return sessionClaims, ok
}

// IsDemo reports whether the request runs as the demo user
func IsDemo(c *gin.Context) bool {
	return c.GetBool(demoKey)
}
