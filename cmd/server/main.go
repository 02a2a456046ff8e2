// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/holoo/stockcast/internal/api"
	"github.com/holoo/stockcast/internal/cache"
	"github.com/holoo/stockcast/internal/config"
	"github.com/holoo/stockcast/internal/engine"
	"github.com/holoo/stockcast/internal/forecast"
	"github.com/holoo/stockcast/internal/repository/postgres"
	"github.com/holoo/stockcast/internal/service"
	"github.com/holoo/stockcast/internal/shopify"
	"github.com/holoo/stockcast/internal/storage"
	"github.com/holoo/stockcast/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database persistence is optional; the CSV tables are the source of
	// truth and the server stays useful without Postgres.
	var repo service.ResultsRepository
	if db, err := postgres.NewDB(&cfg.Database); err != nil {
		logger.Log.Warn().Err(err).Msg("database unavailable, results will only be written to CSV")
	} else {
		defer db.Close()
		resultsRepo := postgres.NewForecastResultsRepository(db)
		if err := resultsRepo.EnsureSchema(ctx); err != nil {
			logger.Log.Warn().Err(err).Msg("could not ensure results schema")
		} else {
			repo = resultsRepo
		}
	}

	alertsCache, err := cache.NewAlertsCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("alert cache unavailable, continuing without caching")
		alertsCache = cache.NewNoopAlertsCache()
	}

	var archive storage.ObjectStorage
	if cfg.Storage.Endpoint != "" {
		client, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("object storage unavailable, uploads will not be archived")
		} else if err := client.EnsureBucket(ctx); err != nil {
			logger.Log.Warn().Err(err).Msg("could not ensure archive bucket")
		} else {
			archive = client
		}
	}

	eng := engine.New(engine.Config{
		Horizon:           cfg.Forecast.HorizonDays,
		MinHistory:        cfg.Forecast.MinHistory,
		Thresholds:        forecast.DefaultThresholds(),
		RestockWindowDays: cfg.Forecast.RestockWindowDays,
		Workers:           cfg.Forecast.Workers,
	})

	forecastService := service.NewForecastService(cfg, eng, repo, alertsCache)
	alertService := service.NewAlertService(cfg.App.ResultsCSV, cfg.Forecast.AlertWindowDays, alertsCache)
	settingsStore := config.NewSettingsStore(cfg.App.SettingsFile)

	// Start the order sync if the saved settings enable it, and restart it
	// whenever the settings change through the API.
	syncMgr := &syncManager{csvPath: cfg.App.InputCSV}
	if settings, err := settingsStore.Load(); err != nil {
		logger.Log.Warn().Err(err).Msg("could not load sync settings")
	} else {
		syncMgr.apply(ctx, settings)
	}

	router := api.NewRouter(cfg, &api.Services{
		Forecast:         forecastService,
		Alerts:           alertService,
		Settings:         settingsStore,
		Archive:          archive,
		OnSettingsUpdate: func(settings config.SyncSettings) { syncMgr.apply(ctx, settings) },
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-ctx.Done()
	logger.Log.Info().Msg("Shutting down server...")
	syncMgr.stop()

	// The server has 5 seconds to finish the requests it is currently
	// handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// syncManager owns the background order-sync goroutine. Applying new
// settings stops any running sync and starts a fresh one when the settings
// allow it.
type syncManager struct {
	mu      sync.Mutex
	cancel  context.CancelFunc
	csvPath string
}

func (m *syncManager) apply(ctx context.Context, settings config.SyncSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	if !settings.Configured() {
		logger.Log.Info().Msg("order sync disabled")
		return
	}

	client, err := shopify.NewClient(ctx, settings.ShopifyShopURL, settings.ShopifyAccessToken)
	if err != nil {
		logger.Log.Error().Err(err).Msg("could not build order sync client")
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	scheduler := shopify.NewScheduler(shopify.SyncOrders(client, m.csvPath))
	go scheduler.Run(runCtx)
	logger.Log.Info().Str("shop", settings.ShopifyShopURL).Msg("order sync started")
}

func (m *syncManager) stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}
