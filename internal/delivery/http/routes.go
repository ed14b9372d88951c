package http

import (
	"github.com/gin-gonic/gin"
	"github.com/skinshelf/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		catalog := v1.Group("/catalog")
		{
			catalog.GET("", handler.GetCatalog)
			catalog.POST("/search", handler.SearchCatalog)
			catalog.POST("/search/more", handler.LoadMoreResults)
			catalog.POST("/refresh", handler.RefreshFromBundle)
			catalog.POST("/sample", handler.RefreshSample)
		}

		v1.GET("/products/:barcode", handler.GetProductByBarcode)

		favorites := v1.Group("/favorites")
		{
			favorites.GET("", handler.GetFavorites)
			favorites.POST("/toggle", handler.ToggleFavorite)
		}
	}

	return router
}
