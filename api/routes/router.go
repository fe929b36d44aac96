// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"evently/internal/app"
	"evently/internal/views"
)

// Router holds all route dependencies
type Router struct {
	app     *app.App
	version string
}

// NewRouter creates a new router instance
func NewRouter(a *app.App, version string) *Router {
	return &Router{
		app:     a,
		version: version,
	}
}

// SetupRoutes configures all web shell routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// Prometheus scrape endpoint
	if r.app.Config.MetricsEnabled {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.app.Registry, promhttp.HandlerOpts{})))
	}

	// Swagger UI
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Session and view routes
	viewController := views.NewController(r.app)
	views.SetupViewRoutes(engine.Group(""), r.app.Session, viewController)
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Redis backs the session store and rate limiter when configured
		if r.app.Cache != nil {
			if err := r.app.Cache.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":    "unhealthy",
					"error":     err.Error(),
					"timestamp": time.Now(),
					"service":   "evently-shell",
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "evently-shell",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.version,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "operational",
			"version":       r.version,
			"backend":       r.app.Config.GetAPIBaseURL(),
			"authenticated": r.app.Session.IsAuthenticated(),
			"route":         r.app.History.Current(),
			"timestamp":     time.Now(),
		})
	})
}
