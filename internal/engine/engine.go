// Package engine is the batch orchestrator: it walks SKUs (and, in rolling
// mode, historical cursor dates) through the forecasting pipeline and
// assembles the output table. Units of work are independent; per-unit
// failures are logged and omitted, never fatal to the run.
package engine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/holoo/stockcast/internal/domain"
	"github.com/holoo/stockcast/internal/forecast"
	"github.com/holoo/stockcast/internal/series"
)

// Config carries the engine's explicit knobs. Horizon and thresholds are
// parameters, not hidden constants.
type Config struct {
	Horizon           int
	MinHistory        int // records required before a unit runs in rolling mode
	Thresholds        forecast.Thresholds
	RestockWindowDays int
	Workers           int
}

// DefaultConfig returns the planner defaults: 30-day horizon, 7-record
// minimum, 3/7/14 tiers, 14-day restock window, 4 workers.
func DefaultConfig() Config {
	return Config{
		Horizon:           forecast.DefaultHorizon,
		MinHistory:        7,
		Thresholds:        forecast.DefaultThresholds(),
		RestockWindowDays: forecast.DefaultRestockWindowDays,
		Workers:           4,
	}
}

// Engine runs the forecasting pipeline over a series store.
type Engine struct {
	cfg        Config
	seasonal   forecast.Forecaster
	regression forecast.Forecaster
}

// New creates an engine with the production forecaster pair.
func New(cfg Config) *Engine {
	return NewWithForecasters(cfg, forecast.NewSeasonalForecaster(), forecast.NewRegressionForecaster())
}

// NewWithForecasters creates an engine with explicit forecaster variants.
// Tests substitute deterministic stubs here.
func NewWithForecasters(cfg Config, seasonal, regression forecast.Forecaster) *Engine {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Horizon < 1 {
		cfg.Horizon = forecast.DefaultHorizon
	}
	return &Engine{cfg: cfg, seasonal: seasonal, regression: regression}
}

// RunSnapshot forecasts each SKU once from its full history: both
// forecasters, their combined demand curve, one ResultRow per SKU.
func (e *Engine) RunSnapshot(ctx context.Context, store *series.Store) ([]domain.ResultRow, error) {
	return e.run(ctx, store, e.snapshotSKU)
}

// RunRolling walks each SKU's history cursor by cursor (non-decreasing date
// order within a SKU), re-forecasting at every cutoff with at least
// MinHistory records and non-zero inventory. Forecasters are reported
// independently; no combined series in this mode.
func (e *Engine) RunRolling(ctx context.Context, store *series.Store) ([]domain.ResultRow, error) {
	return e.run(ctx, store, e.rollingSKU)
}

func (e *Engine) run(ctx context.Context, store *series.Store, unit func(domain.SKUHistory) ([]domain.ResultRow, error)) ([]domain.ResultRow, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)

	var mu sync.Mutex
	var results []domain.ResultRow

	for _, skuID := range store.SKUs() {
		history, ok := store.Get(skuID)
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := unit(history)
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, rows...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Row order is not semantically significant; sort by date for
	// presentation, SKU as tiebreaker.
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CutoffDate.Equal(results[j].CutoffDate) {
			return results[i].CutoffDate.Before(results[j].CutoffDate)
		}
		return results[i].SKUID < results[j].SKUID
	})

	return results, nil
}

// snapshotSKU produces at most one ResultRow from the SKU's full history.
func (e *Engine) snapshotSKU(history domain.SKUHistory) ([]domain.ResultRow, error) {
	row, err := e.forecastUnit(history, true)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return []domain.ResultRow{*row}, nil
}

// rollingSKU produces one ResultRow per eligible cursor date.
func (e *Engine) rollingSKU(history domain.SKUHistory) ([]domain.ResultRow, error) {
	var rows []domain.ResultRow
	for i := range history.Records {
		cursor := domain.SKUHistory{SKUID: history.SKUID, Records: history.Records[:i+1]}
		if cursor.Len() < e.cfg.MinHistory {
			continue
		}
		row, err := e.forecastUnit(cursor, false)
		if err != nil {
			return nil, err
		}
		if row != nil {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

// forecastUnit runs the pipeline for one (SKU, cutoff) unit. It returns
// (nil, nil) for designed skips and recovered per-unit failures; only an
// alignment fault between the two forecasters aborts the run.
func (e *Engine) forecastUnit(history domain.SKUHistory, combined bool) (*domain.ResultRow, error) {
	if history.Len() == 0 {
		return nil, nil
	}

	cutoff := history.CutoffDate()
	inventory, known := history.CurrentInventory()
	if !known {
		log.Debug().Str("sku", history.SKUID).Msg("no known inventory level, skipping unit")
		return nil, nil
	}
	if inventory == 0 {
		// Already out of stock: excluded from active projection by design.
		return nil, nil
	}

	row := domain.ResultRow{SKUID: history.SKUID, CutoffDate: cutoff}

	seasonalSeries := e.runForecaster(e.seasonal, history)
	if seasonalSeries != nil {
		row.Seasonal = e.modelResult(e.seasonal.Name(), seasonalSeries, cutoff, inventory)
	}

	var regressionSeries domain.ForecastSeries
	if history.Len() >= e.cfg.MinHistory {
		regressionSeries = e.runForecaster(e.regression, history)
		if regressionSeries != nil {
			row.Regression = e.modelResult(e.regression.Name(), regressionSeries, cutoff, inventory)
		}
	}

	if combined && seasonalSeries != nil && regressionSeries != nil {
		merged, err := forecast.Combine(seasonalSeries, regressionSeries)
		if err != nil {
			// Horizon disagreement between variants is a programming fault,
			// not a data-quality skip.
			return nil, err
		}
		row.Combined = e.modelResult("combined", merged, cutoff, inventory)
	}

	if row.Seasonal == nil && row.Regression == nil {
		return nil, nil
	}
	return &row, nil
}

// runForecaster trains and predicts one variant, recovering per-unit
// failures. Insufficient history is a designed skip; anything else is a
// training or prediction failure worth a warning.
func (e *Engine) runForecaster(f forecast.Forecaster, history domain.SKUHistory) domain.ForecastSeries {
	if history.Len() < f.MinRecords() {
		return nil
	}
	seriesOut, err := f.Forecast(history, e.cfg.Horizon)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientData) {
			log.Debug().Str("sku", history.SKUID).Str("model", f.Name()).Msg("insufficient history, unit skipped")
		} else {
			log.Warn().Err(err).Str("sku", history.SKUID).Str("model", f.Name()).Msg("forecast failed, unit omitted")
		}
		return nil
	}
	return seriesOut
}

func (e *Engine) modelResult(name string, s domain.ForecastSeries, cutoff time.Time, inventory float64) *domain.ModelResult {
	projection := forecast.Project(s, cutoff, inventory)
	return &domain.ModelResult{
		Model:          name,
		AvgDailyDemand: s.AvgDailyDemand(),
		Projection:     projection,
		Tier:           forecast.Classify(projection.DaysUntilStockout, e.cfg.Thresholds),
		RestockAlert:   forecast.RestockAlert(projection, e.cfg.RestockWindowDays),
	}
}
