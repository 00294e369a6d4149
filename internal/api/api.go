// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/IrrisMag/HealthTech-sub000/internal/api/handlers"
	"github.com/IrrisMag/HealthTech-sub000/internal/api/middleware"
	"github.com/IrrisMag/HealthTech-sub000/internal/metrics"
	"github.com/IrrisMag/HealthTech-sub000/internal/service"
)

type Services struct {
	OptimizationService *service.OptimizationService
	ForecastService     *service.ForecastService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.ForecastService != nil {
			forecastHandler := handlers.NewForecastHandler(services.ForecastService)
			forecastGroup := apiGroup.Group("/forecast")
			{
				forecastGroup.GET("/models", forecastHandler.Models)
				forecastGroup.POST("/batch", forecastHandler.ForecastBatch)
				forecastGroup.POST("/reload", forecastHandler.Reload)
				forecastGroup.GET("/:blood_type", forecastHandler.Forecast)
			}
		}

		if services.OptimizationService != nil {
			optimizationHandler := handlers.NewOptimizationHandler(services.OptimizationService)
			optimizationGroup := apiGroup.Group("/optimization")
			{
				optimizationGroup.POST("/optimize", optimizationHandler.Optimize)
				optimizationGroup.GET("/reports", optimizationHandler.ListReports)
				optimizationGroup.GET("/reports/:id", optimizationHandler.GetReport)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
