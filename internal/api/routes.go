package api

import (
	"github.com/gin-gonic/gin"

	"github.com/exoscout/exoscout/internal/telemetry"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, handler *Handler, tel *telemetry.Provider) {
	// Health and readiness checks
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(tel.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/resolve/:target", handler.Resolve) // GET /api/v1/resolve/:target

		v1.GET("/features/:mission/:target_id", handler.Features) // GET /api/v1/features/:mission/:target_id

		predict := v1.Group("/predict")
		{
			predict.GET("/models/status", handler.ModelsStatus)  // GET /api/v1/predict/models/status
			predict.GET("/:mission/:target_id", handler.Predict) // GET /api/v1/predict/:mission/:target_id
		}

		v1.GET("/sectors/:mission/:target_id", handler.Sectors)       // GET /api/v1/sectors/:mission/:target_id
		v1.GET("/lightcurve/:mission/:target_id", handler.Lightcurve) // GET /api/v1/lightcurve/:mission/:target_id
	}
}
