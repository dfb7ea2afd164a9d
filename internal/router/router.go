package router

import (
	"net/http"

	"notifyme/internal/config"
	"notifyme/internal/domain/notification"
	"notifyme/internal/domain/template"
	"notifyme/internal/middleware"

	"github.com/gin-gonic/gin"
)

// New creates and configures the Gin router with all middleware and routes.
func New(
	cfg *config.Config,
	templateHandler *template.Handler,
	notificationHandler *notification.Handler,
) *gin.Engine {
	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()

	// Global middleware stack (order matters)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))
	r.Use(gin.Logger())

	// Public routes
	r.GET("/health", healthCheck)

	api := r.Group("/api")
	{
		// Dispatch requires the shared-secret apiKey query parameter
		api.POST("/notify", middleware.APIKeyAuth(cfg.Auth.APIKey), notificationHandler.Send)

		api.GET("/notifications", notificationHandler.List)
		api.GET("/notifications/:id", notificationHandler.Get)
		api.GET("/dashboard/stats", notificationHandler.Stats)

		templateHandler.RegisterRoutes(api.Group("/templates"))
	}

	return r
}

// healthCheck handles GET /health
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "notifyme",
	})
}
