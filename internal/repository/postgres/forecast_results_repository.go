package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/holoo/stockcast/internal/domain"
)

// ResultRecord is the flattened row stored per (sku, cutoff, model). Nil
// stockout columns mean no stockout was projected within the horizon.
type ResultRecord struct {
	SKUID             string     `db:"sku_id"`
	CutoffDate        time.Time  `db:"cutoff_date"`
	Model             string     `db:"model"`
	AvgDailyDemand    float64    `db:"avg_daily_demand"`
	CurrentInventory  float64    `db:"current_inventory"`
	StockoutDate      *time.Time `db:"stockout_date"`
	DaysUntilStockout *int       `db:"days_until_stockout"`
	AlertTier         string     `db:"alert_tier"`
	RestockAlert      bool       `db:"restock_alert"`
	RunMode           string     `db:"run_mode"`
}

type forecastResultsRepository struct {
	db *DB
}

func NewForecastResultsRepository(db *DB) *forecastResultsRepository {
	return &forecastResultsRepository{db: db}
}

// EnsureSchema creates the results table when it does not exist yet.
func (r *forecastResultsRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS forecast_results (
			id BIGSERIAL PRIMARY KEY,
			sku_id TEXT NOT NULL,
			cutoff_date DATE NOT NULL,
			model TEXT NOT NULL,
			avg_daily_demand DOUBLE PRECISION NOT NULL,
			current_inventory DOUBLE PRECISION NOT NULL,
			stockout_date DATE,
			days_until_stockout INTEGER,
			alert_tier TEXT NOT NULL,
			restock_alert BOOLEAN NOT NULL DEFAULT FALSE,
			run_mode TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ,
			UNIQUE (sku_id, cutoff_date, model)
		)
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure forecast_results schema: %w", err)
	}
	return nil
}

// SaveResults flattens result rows into per-model records and upserts them.
func (r *forecastResultsRepository) SaveResults(ctx context.Context, mode string, rows []domain.ResultRow) error {
	records := Flatten(mode, rows)
	if len(records) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO forecast_results (
				sku_id, cutoff_date, model, avg_daily_demand, current_inventory,
				stockout_date, days_until_stockout, alert_tier, restock_alert,
				run_mode, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
			ON CONFLICT (sku_id, cutoff_date, model)
			DO UPDATE SET
				avg_daily_demand = EXCLUDED.avg_daily_demand,
				current_inventory = EXCLUDED.current_inventory,
				stockout_date = EXCLUDED.stockout_date,
				days_until_stockout = EXCLUDED.days_until_stockout,
				alert_tier = EXCLUDED.alert_tier,
				restock_alert = EXCLUDED.restock_alert,
				run_mode = EXCLUDED.run_mode,
				updated_at = NOW()
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, rec := range records {
			_, err := stmt.ExecContext(
				ctx,
				rec.SKUID,
				rec.CutoffDate,
				rec.Model,
				rec.AvgDailyDemand,
				rec.CurrentInventory,
				rec.StockoutDate,
				rec.DaysUntilStockout,
				rec.AlertTier,
				rec.RestockAlert,
				rec.RunMode,
			)
			if err != nil {
				return fmt.Errorf("failed to insert forecast result: %w", err)
			}
		}

		return nil
	})
}

// LatestResults returns the most recent record per (sku, model), soonest
// stockouts first.
func (r *forecastResultsRepository) LatestResults(ctx context.Context) ([]*ResultRecord, error) {
	query := `
		SELECT DISTINCT ON (sku_id, model)
			sku_id, cutoff_date, model, avg_daily_demand, current_inventory,
			stockout_date, days_until_stockout, alert_tier, restock_alert, run_mode
		FROM forecast_results
		ORDER BY sku_id, model, cutoff_date DESC
	`

	var records []*ResultRecord
	if err := sqlx.SelectContext(ctx, r.db, &records, query); err != nil {
		return nil, fmt.Errorf("failed to get forecast results: %w", err)
	}

	return records, nil
}

// Flatten expands result rows into one record per populated model section.
func Flatten(mode string, rows []domain.ResultRow) []*ResultRecord {
	var records []*ResultRecord
	for _, row := range rows {
		for _, result := range []*domain.ModelResult{row.Seasonal, row.Regression, row.Combined} {
			if result == nil {
				continue
			}
			records = append(records, &ResultRecord{
				SKUID:             row.SKUID,
				CutoffDate:        row.CutoffDate,
				Model:             result.Model,
				AvgDailyDemand:    result.AvgDailyDemand,
				CurrentInventory:  result.Projection.CurrentInventory,
				StockoutDate:      result.Projection.StockoutDate,
				DaysUntilStockout: result.Projection.DaysUntilStockout,
				AlertTier:         string(result.Tier),
				RestockAlert:      result.RestockAlert,
				RunMode:           mode,
			})
		}
	}
	return records
}
