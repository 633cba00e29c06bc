package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"linkbird-backend/internal/config"
	"linkbird-backend/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// unreachableDB returns a handle whose queries fail, without connecting on open
func unreachableDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=127.0.0.1 port=1 user=none dbname=none sslmode=disable connect_timeout=1"), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func testConfig(env string) *config.Config {
	return &config.Config{
		Environment:       env,
		JWTSecret:         "test-secret",
		SessionCookieName: "linkbird_session",
		AllowedOrigins:    []string{"http://localhost:3000"},
		DemoUserID:        "demo-user-id",
		DemoRateLimit:     60,
	}
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, err := SetupRoutes(unreachableDB(t), testConfig("development"), Dependencies{})
	require.NoError(t, err)

	t.Run("session routes require auth", func(t *testing.T) {
		for _, path := range []string{"/api/campaigns", "/api/leads", "/api/campaigns/1", "/api/leads/export", "/api/dashboard/stats", "/api/auth/session", "/api/check-data"} {
			w := serve(router, http.MethodGet, path)
			assert.Equal(t, http.StatusUnauthorized, w.Code, path)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String(), path)
		}
	})

	t.Run("liveness", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health/live").Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/nope")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Route not found"}`, w.Body.String())
	})

	t.Run("request id on every response", func(t *testing.T) {
		assert.NotEmpty(t, serve(router, http.MethodGet, "/api/nope").Header().Get("X-Request-ID"))
	})

	t.Run("demo routes skip auth", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/leads-demo/abc")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDiagnosticsHiddenInProduction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig("production")
	cfg.EnableDiagnostics = true
	router, err := SetupRoutes(unreachableDB(t), cfg, Dependencies{})
	require.NoError(t, err)

	for _, path := range []string{"/api/check-data", "/api/check-data-demo", "/api/debug"} {
		assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, path).Code, path)
	}
}

func TestDemoRoutesAreRateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), 2, time.Minute)
	router, err := SetupRoutes(unreachableDB(t), testConfig("development"), Dependencies{Limiter: limiter})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		assert.NotEqual(t, http.StatusTooManyRequests, serve(router, http.MethodGet, "/api/campaigns/demo/abc").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(router, http.MethodGet, "/api/leads-demo/abc").Code)
}

func TestSetupRoutesRequiresSecret(t *testing.T) {
	cfg := testConfig("development")
	cfg.JWTSecret = ""
	_, err := SetupRoutes(unreachableDB(t), cfg, Dependencies{})
	assert.Error(t, err)
}
