package middleware

import (
	"fmt"
	"net/http"

	"linkbird-backend/internal/logger"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// Recovery attaches a per-request Sentry hub to the request context and turns
// panics into a logged, reported 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetRequest(c.Request)
		c.Request = c.Request.WithContext(sentry.SetHubOnContext(c.Request.Context(), hub))

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			hub.RecoverWithContext(c.Request.Context(), rec)
			logger.WithContext(c).
				WithField("panic", fmt.Sprint(rec)).
				WithField("path", c.Request.URL.Path).
				Error("recovered from panic")

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}()

		c.Next()
	}
}
