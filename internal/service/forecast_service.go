package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/holoo/stockcast/internal/cache"
	"github.com/holoo/stockcast/internal/config"
	"github.com/holoo/stockcast/internal/domain"
	"github.com/holoo/stockcast/internal/engine"
	"github.com/holoo/stockcast/internal/series"
)

// ResultsRepository persists flattened forecast results. It is optional; a
// nil repository means CSV-only persistence.
type ResultsRepository interface {
	SaveResults(ctx context.Context, mode string, rows []domain.ResultRow) error
}

// RunSummary describes one completed forecast run.
type RunSummary struct {
	Mode        string    `json:"mode"`
	SKUs        int       `json:"skus"`
	Rows        int       `json:"rows"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ForecastService runs the engine against the sales-history table and fans
// the results out to the CSV table, the database and the alert cache.
type ForecastService struct {
	cfg    *config.Config
	engine *engine.Engine
	repo   ResultsRepository
	cache  cache.AlertsCache
}

func NewForecastService(cfg *config.Config, eng *engine.Engine, repo ResultsRepository, cacheImpl cache.AlertsCache) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopAlertsCache()
	}
	return &ForecastService{cfg: cfg, engine: eng, repo: repo, cache: cacheImpl}
}

// RunSnapshot forecasts every SKU from its full history and persists the
// results.
func (s *ForecastService) RunSnapshot(ctx context.Context) (*RunSummary, error) {
	return s.run(ctx, "snapshot")
}

// RunRolling replays every SKU's history cursor by cursor for backtesting.
func (s *ForecastService) RunRolling(ctx context.Context) (*RunSummary, error) {
	return s.run(ctx, "rolling")
}

func (s *ForecastService) run(ctx context.Context, mode string) (*RunSummary, error) {
	store, err := series.LoadCSV(s.cfg.App.InputCSV)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales history: %w", err)
	}

	var rows []domain.ResultRow
	switch mode {
	case "rolling":
		rows, err = s.engine.RunRolling(ctx, store)
	default:
		rows, err = s.engine.RunSnapshot(ctx, store)
	}
	if err != nil {
		return nil, fmt.Errorf("forecast run failed: %w", err)
	}

	if err := engine.SaveCSV(s.cfg.App.ResultsCSV, rows); err != nil {
		return nil, fmt.Errorf("failed to write results table: %w", err)
	}

	if s.repo != nil {
		if err := s.repo.SaveResults(ctx, mode, rows); err != nil {
			log.Warn().Err(err).Msg("failed to persist results to database")
		}
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate alert cache")
	}

	log.Info().Str("mode", mode).Int("skus", store.Len()).Int("rows", len(rows)).
		Msg("forecast run completed")

	return &RunSummary{
		Mode:        mode,
		SKUs:        store.Len(),
		Rows:        len(rows),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// SyncStatus reports the state of the sales-history table.
type SyncStatus struct {
	ShopifyEnabled bool   `json:"shopify_enabled"`
	LastSyncedDate string `json:"last_synced_date"`
	TotalRows      int    `json:"total_rows"`
}

// Status summarizes the sales-history table for the sync-status endpoint.
func (s *ForecastService) Status(settings config.SyncSettings) (*SyncStatus, error) {
	status := &SyncStatus{ShopifyEnabled: settings.ShopifyEnabled}

	store, err := series.LoadCSV(s.cfg.App.InputCSV)
	if err != nil {
		// No table yet is a valid state for a fresh install.
		return status, nil
	}

	status.TotalRows = store.TotalRecords()
	if last := store.LastDate(); !last.IsZero() {
		status.LastSyncedDate = last.Format(domain.DateFormat)
	}
	return status, nil
}
