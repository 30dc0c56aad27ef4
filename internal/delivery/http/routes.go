package http

import (
	"github.com/gin-gonic/gin"

	"github.com/Kushagra-Garg-27/SmartComparison-Tool/config"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		compare := v1.Group("/compare")
		{
			compare.POST("", handler.Compare)
			compare.POST("/refresh", handler.RefreshPrices)
		}

		history := v1.Group("/history")
		{
			history.POST("/seed", handler.SeedHistory)
			history.GET("/:productId", handler.GetHistory)
			history.GET("/:productId/nearest", handler.GetNearestPoint)
		}
	}

	return router
}
