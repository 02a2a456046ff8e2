// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/holoo/stockcast/internal/api/handlers"
	"github.com/holoo/stockcast/internal/api/middleware"
	"github.com/holoo/stockcast/internal/config"
	"github.com/holoo/stockcast/internal/service"
	"github.com/holoo/stockcast/internal/storage"
)

type Services struct {
	Forecast *service.ForecastService
	Alerts   *service.AlertService
	Settings *config.SettingsStore
	Archive  storage.ObjectStorage
	// OnSettingsUpdate is invoked after sync settings change so the caller
	// can rebuild the order-sync client.
	OnSettingsUpdate func(config.SyncSettings)
}

func NewRouter(cfg *config.Config, services *Services) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(cfg.Server.AllowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Settings != nil {
			configHandler := handlers.NewConfigHandler(services.Settings, services.OnSettingsUpdate)
			apiGroup.GET("/config", configHandler.GetConfig)
			apiGroup.POST("/config", configHandler.UpdateConfig)
		}

		if services.Alerts != nil {
			alertHandler := handlers.NewAlertHandler(services.Alerts)
			apiGroup.GET("/alerts", alertHandler.GetAlerts)
		}

		if services.Forecast != nil {
			forecastHandler := handlers.NewForecastHandler(services.Forecast, services.Settings)
			apiGroup.GET("/sync-status", forecastHandler.GetSyncStatus)
			apiGroup.POST("/forecast/run", forecastHandler.RunForecast)

			uploadHandler := handlers.NewUploadHandler(cfg.App, services.Archive)
			apiGroup.POST("/upload-csv", uploadHandler.UploadCSV)
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
