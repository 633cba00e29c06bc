package middleware

import (
	"net/http"
	"strconv"

	"linkbird-backend/internal/logger"
	"linkbird-backend/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit rejects clients that exceed the limiter's budget with a 429.
// Requests pass when the counter store is unavailable.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(limiter.Window().Seconds()))

	return func(c *gin.Context) {
		key := c.ClientIP()
		allowed, err := limiter.Allow(c, key)
		if err != nil {
			logger.WithContext(c).WithError(err).Warn("rate limit store unavailable, allowing request")
			c.Next()
			return
		}
		if !allowed {
			logger.WithContext(c).WithFields(map[string]interface{}{
				"client_ip": key,
				"path":      c.Request.URL.Path,
			}).Warn("rate limit hit")
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
