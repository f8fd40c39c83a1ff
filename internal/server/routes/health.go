package routes

import (
	"github.com/relentron/website/internal/api/handlers"
	"github.com/relentron/website/internal/metrics"

	"github.com/gin-gonic/gin"
)

// SetupHealthRoutes configures health check, build info and metrics endpoints
func SetupHealthRoutes(router *gin.Engine, health *handlers.HealthHandler) {
	router.GET("/health", health.Check)
	router.GET("/version", health.Version)
	router.GET("/metrics", metrics.Handler())
}
