package router

import (
	"github.com/gin-gonic/gin"
	"github.com/reelforge/reelforge/internal/handlers"
	"github.com/reelforge/reelforge/internal/middleware"
)

// Setup configures and returns the application router
func Setup(
	jwtSecret string,
	healthHandler *handlers.HealthHandler,
	productionHandler *handlers.ProductionHandler,
) *gin.Engine {

	// Create a new Gin router
	router := gin.Default()

	// Apply CORS middleware globally
	router.Use(middleware.CORS())

	// API v1 routes
	v1 := router.Group("/api/v1")

	// Health check is registered before the auth middleware so load
	// balancers can probe it without a token
	v1.GET("/health", healthHandler.Check)

	// Apply authentication middleware to the remaining routes
	v1.Use(middleware.Authentication(jwtSecret))

	// Production routes
	productions := v1.Group("/productions")
	{
		productions.POST("", productionHandler.Create)
		productions.GET("", productionHandler.List)
		productions.GET("/:production_id", productionHandler.Get)
		productions.POST("/:production_id/cancel", productionHandler.Cancel)
		productions.POST("/estimate", productionHandler.Estimate)
	}

	return router
}
