package routes

import (
	"net/http"
	"time"

	"linkbird-backend/internal/api/handlers"
	"linkbird-backend/internal/api/middleware"
	"linkbird-backend/internal/auth"
	"linkbird-backend/internal/config"
	"linkbird-backend/internal/events"
	"linkbird-backend/internal/ratelimit"
	"linkbird-backend/internal/repository"
	"linkbird-backend/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Dependencies are the optional backing services wired by the server binary.
// Zero values fall back to in-process implementations.
type Dependencies struct {
	Publisher events.Publisher
	Limiter   *ratelimit.Limiter
	Checks    []handlers.DependencyCheck
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(db *gorm.DB, cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	if deps.Publisher == nil {
		deps.Publisher = events.NoopPublisher{}
	}
	if deps.Limiter == nil {
		deps.Limiter = ratelimit.NewLimiter(ratelimit.NewMemoryStore(), cfg.DemoRateLimit, time.Minute)
	}

	// Create router
	router := gin.New()
	router.ContextWithFallback = true

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg))

	// Initialize validator
	validator := service.NewValidator()

	// Initialize repositories
	campaignRepo := repository.NewCampaignRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	diagnosticsRepo := repository.NewDiagnosticsRepository(db)

	// Initialize services
	campaignService := service.NewCampaignService(campaignRepo, leadRepo, deps.Publisher, validator)
	leadService := service.NewLeadService(leadRepo, campaignRepo, deps.Publisher, validator)
	dashboardService := service.NewDashboardService(campaignRepo, leadRepo)
	diagnosticsService := service.NewDiagnosticsService(diagnosticsRepo, campaignRepo, leadRepo, cfg.Environment)

	sessionService, err := auth.NewSessionService(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		return nil, err
	}
	authMiddleware := auth.NewMiddleware(sessionService, cfg.SessionCookieName)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, deps.Checks...)
	campaignHandler := handlers.NewCampaignHandler(campaignService)
	leadHandler := handlers.NewLeadHandler(leadService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	diagnosticsHandler := handlers.NewDiagnosticsHandler(diagnosticsService)
	sessionHandler := auth.NewHandler()

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	// Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")

	// Demo routes run as the fixed demo user without a session
	demo := api.Group("", auth.DemoUser(cfg.DemoUserID), middleware.RateLimit(deps.Limiter))
	{
		demo.GET("/campaigns/demo", campaignHandler.ListCampaigns)
		demo.GET("/campaigns/demo/:id", campaignHandler.GetCampaign)
		demo.GET("/leads-demo", leadHandler.ListLeads)
		demo.GET("/leads-demo/:id", leadHandler.GetLead)
		demo.GET("/leads-infinite", leadHandler.ListLeadsInfinite)
	}

	// Session routes
	protected := api.Group("", authMiddleware.RequireAuth())
	{
		campaigns := protected.Group("/campaigns")
		{
			campaigns.GET("", campaignHandler.ListCampaigns)
			campaigns.POST("", campaignHandler.CreateCampaign)
			campaigns.GET("/:id", campaignHandler.GetCampaign)
			campaigns.PUT("/:id", campaignHandler.UpdateCampaign)
			campaigns.DELETE("/:id", campaignHandler.DeleteCampaign)
			campaigns.GET("/:id/leads", campaignHandler.ListCampaignLeads)
		}

		leads := protected.Group("/leads")
		{
			leads.GET("", leadHandler.ListLeads)
			leads.POST("", leadHandler.CreateLead)
			leads.GET("/export", leadHandler.ExportLeads)
			leads.GET("/:id", leadHandler.GetLead)
			leads.PUT("/:id", leadHandler.UpdateLead)
			leads.DELETE("/:id", leadHandler.DeleteLead)
		}

		protected.GET("/dashboard/stats", dashboardHandler.GetStats)
		protected.GET("/auth/session", sessionHandler.Session)
	}

	if cfg.DiagnosticsEnabled() {
		api.GET("/check-data", authMiddleware.RequireAuth(), diagnosticsHandler.CheckData)
		api.GET("/check-data-demo", auth.DemoUser(cfg.DemoUserID), diagnosticsHandler.CheckData)
		api.GET("/debug", diagnosticsHandler.Debug)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{Error: "Route not found"})
	})

	return router, nil
}
