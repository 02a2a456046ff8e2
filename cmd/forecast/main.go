package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/holoo/stockcast/internal/domain"
	"github.com/holoo/stockcast/internal/engine"
	"github.com/holoo/stockcast/internal/forecast"
	"github.com/holoo/stockcast/internal/repository/postgres"
	"github.com/holoo/stockcast/internal/series"
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Usage:   "Sales-history CSV to forecast from",
			Value:   "./data/sales_history.csv",
			EnvVars: []string{"FORECAST_INPUT"},
		},
		&cli.StringFlag{
			Name:    "output",
			Usage:   "Where to write the results table",
			Value:   "./data/forecast_results.csv",
			EnvVars: []string{"FORECAST_OUTPUT"},
		},
		&cli.IntFlag{
			Name:  "horizon",
			Usage: "Forecast horizon in days",
			Value: forecast.DefaultHorizon,
		},
		&cli.IntFlag{
			Name:  "min-history",
			Usage: "Minimum records before a SKU is forecast",
			Value: 7,
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Concurrent SKU workers",
			Value: 4,
		},
		&cli.IntFlag{
			Name:  "restock-window",
			Usage: "Days ahead within which a stockout raises the restock flag",
			Value: forecast.DefaultRestockWindowDays,
		},
		&cli.StringFlag{
			Name:    "db-url",
			Usage:   "Optional Postgres connection string to persist results",
			EnvVars: []string{"DATABASE_URL"},
		},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "forecast",
		Usage: "Project per-SKU stockouts from a sales-history CSV",
		Commands: []*cli.Command{
			{
				Name:   "snapshot",
				Usage:  "Forecast every SKU once from its full history",
				Flags:  commonFlags(),
				Action: func(c *cli.Context) error { return run(c, "snapshot") },
			},
			{
				Name:   "rolling",
				Usage:  "Replay every SKU's history cursor by cursor for backtesting",
				Flags:  commonFlags(),
				Action: func(c *cli.Context) error { return run(c, "rolling") },
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context, mode string) error {
	store, err := series.LoadCSV(c.String("input"))
	if err != nil {
		return fmt.Errorf("failed to load sales history: %w", err)
	}
	log.Printf("Loaded %d SKUs (%d records) from %s", store.Len(), store.TotalRecords(), c.String("input"))

	cfg := engine.Config{
		Horizon:           c.Int("horizon"),
		MinHistory:        c.Int("min-history"),
		Thresholds:        forecast.DefaultThresholds(),
		RestockWindowDays: c.Int("restock-window"),
		Workers:           c.Int("workers"),
	}
	eng := engine.New(cfg)

	var rows []domain.ResultRow
	if mode == "rolling" {
		rows, err = eng.RunRolling(c.Context, store)
	} else {
		rows, err = eng.RunSnapshot(c.Context, store)
	}
	if err != nil {
		return fmt.Errorf("forecast run failed: %w", err)
	}

	if err := engine.SaveCSV(c.String("output"), rows); err != nil {
		return fmt.Errorf("failed to write results table: %w", err)
	}
	log.Printf("Wrote %d result rows to %s", len(rows), c.String("output"))

	if dbURL := c.String("db-url"); dbURL != "" {
		if err := saveToDatabase(c.Context, dbURL, mode, rows); err != nil {
			return fmt.Errorf("failed to persist results: %w", err)
		}
		log.Println("Persisted results to database")
	}

	return nil
}

func saveToDatabase(ctx context.Context, dbURL, mode string, rows []domain.ResultRow) error {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	schema := `
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
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

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

	for _, rec := range postgres.Flatten(mode, rows) {
		if _, err := stmt.ExecContext(ctx,
			rec.SKUID, rec.CutoffDate, rec.Model, rec.AvgDailyDemand,
			rec.CurrentInventory, rec.StockoutDate, rec.DaysUntilStockout,
			rec.AlertTier, rec.RestockAlert, rec.RunMode,
		); err != nil {
			return fmt.Errorf("failed to insert result for sku %s: %w", rec.SKUID, err)
		}
	}

	return tx.Commit()
}
