package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/holoo/stockcast/internal/domain"
	"github.com/holoo/stockcast/internal/series"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dailyHistory(sku string, start time.Time, units []float64, inventory float64) domain.SKUHistory {
	records := make([]domain.SeriesRecord, len(units))
	for i, u := range units {
		records[i] = domain.SeriesRecord{
			Date:           start.AddDate(0, 0, i),
			UnitsSold:      u,
			InventoryLevel: inventory,
			HasInventory:   true,
		}
	}
	return domain.SKUHistory{SKUID: sku, Records: records}
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// stubForecaster emits a flat series and can be rigged to fail for one SKU
// or to disagree on the horizon.
type stubForecaster struct {
	name            string
	min             int
	demand          float64
	horizonOverride int
	failSKU         string
}

func (s *stubForecaster) Name() string    { return s.name }
func (s *stubForecaster) MinRecords() int { return s.min }

func (s *stubForecaster) Forecast(history domain.SKUHistory, horizon int) (domain.ForecastSeries, error) {
	if history.SKUID == s.failSKU {
		return nil, fmt.Errorf("%s: rigged training failure", s.name)
	}
	if s.horizonOverride > 0 {
		horizon = s.horizonOverride
	}
	out := make(domain.ForecastSeries, horizon)
	for i := range out {
		out[i] = domain.ForecastPoint{
			Date:            history.CutoffDate().AddDate(0, 0, i+1),
			PredictedDemand: s.demand,
		}
	}
	return out, nil
}

func TestSnapshotEndToEndFlatDemand(t *testing.T) {
	store := series.NewStore([]domain.SKUHistory{
		dailyHistory("A1", date(2024, time.March, 1), repeat(5, 10), 12),
	})

	rows, err := New(DefaultConfig()).RunSnapshot(context.Background(), store)
	if err != nil {
		t.Fatalf("RunSnapshot failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.SKUID != "A1" || !row.CutoffDate.Equal(date(2024, time.March, 10)) {
		t.Errorf("row identity = (%s, %s)", row.SKUID, row.CutoffDate.Format(domain.DateFormat))
	}
	if row.Seasonal == nil || row.Regression == nil || row.Combined == nil {
		t.Fatalf("expected all three model sections, got %+v", row)
	}

	combined := row.Combined
	// Flat 5/day against 12 units: cumulative 5, 10, 15 exceeds on day 3.
	if combined.Projection.DaysUntilStockout == nil || *combined.Projection.DaysUntilStockout != 3 {
		t.Fatalf("combined DaysUntilStockout = %v, want 3", combined.Projection.DaysUntilStockout)
	}
	wantDate := date(2024, time.March, 13)
	if combined.Projection.StockoutDate == nil || !combined.Projection.StockoutDate.Equal(wantDate) {
		t.Errorf("combined StockoutDate = %v, want %s", combined.Projection.StockoutDate, wantDate.Format(domain.DateFormat))
	}
	if combined.Tier != domain.TierCritical {
		t.Errorf("combined Tier = %s, want CRITICAL", combined.Tier)
	}
	if !combined.RestockAlert {
		t.Error("combined RestockAlert = false, want true")
	}
	if combined.AvgDailyDemand < 4.5 || combined.AvgDailyDemand > 5.5 {
		t.Errorf("combined AvgDailyDemand = %v, want about 5", combined.AvgDailyDemand)
	}
}

func TestSnapshotNoStockoutWithinHorizon(t *testing.T) {
	store := series.NewStore([]domain.SKUHistory{
		dailyHistory("A1", date(2024, time.March, 1), repeat(5, 10), 1000),
	})

	rows, err := New(DefaultConfig()).RunSnapshot(context.Background(), store)
	if err != nil {
		t.Fatalf("RunSnapshot failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	combined := rows[0].Combined
	if combined == nil {
		t.Fatal("expected a combined section")
	}
	if combined.Projection.StockoutDate != nil {
		t.Errorf("StockoutDate = %v, want none within horizon", combined.Projection.StockoutDate)
	}
	if combined.Tier != domain.TierNone {
		t.Errorf("Tier = %s, want NONE", combined.Tier)
	}
	if combined.RestockAlert {
		t.Error("RestockAlert = true, want false")
	}
}

func TestSnapshotShortHistorySkipsRegressionOnly(t *testing.T) {
	store := series.NewStore([]domain.SKUHistory{
		dailyHistory("A1", date(2024, time.March, 1), repeat(5, 5), 50),
	})

	rows, err := New(DefaultConfig()).RunSnapshot(context.Background(), store)
	if err != nil {
		t.Fatalf("RunSnapshot failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.Seasonal == nil {
		t.Error("seasonal section missing: 5 records is enough for the seasonal variant")
	}
	if row.Regression != nil {
		t.Error("regression section present: 5 records is below the 7-record minimum")
	}
	if row.Combined != nil {
		t.Error("combined section present without both forecasters")
	}
}

func TestSnapshotSkipsZeroInventory(t *testing.T) {
	store := series.NewStore([]domain.SKUHistory{
		dailyHistory("A1", date(2024, time.March, 1), repeat(5, 10), 0),
	})

	rows, err := New(DefaultConfig()).RunSnapshot(context.Background(), store)
	if err != nil {
		t.Fatalf("RunSnapshot failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows for a SKU already out of stock, got %d", len(rows))
	}
}

func TestRollingWalkForward(t *testing.T) {
	store := series.NewStore([]domain.SKUHistory{
		dailyHistory("A1", date(2024, time.March, 1), repeat(5, 10), 100),
	})

	rows, err := New(DefaultConfig()).RunRolling(context.Background(), store)
	if err != nil {
		t.Fatalf("RunRolling failed: %v", err)
	}

	// Cursors with fewer than 7 records are skipped: cutoffs on days 7-10.
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	for i, row := range rows {
		want := date(2024, time.March, 7+i)
		if !row.CutoffDate.Equal(want) {
			t.Errorf("row %d cutoff = %s, want %s", i,
				row.CutoffDate.Format(domain.DateFormat), want.Format(domain.DateFormat))
		}
		if row.Combined != nil {
			t.Errorf("row %d carries a combined section in rolling mode", i)
		}
		if row.Seasonal == nil || row.Regression == nil {
			t.Errorf("row %d missing a per-forecaster section", i)
		}
	}
}

func TestRollingSkipsZeroInventoryCursor(t *testing.T) {
	history := dailyHistory("A1", date(2024, time.March, 1), repeat(5, 10), 100)
	// Inventory hits zero on day 8; that cursor is excluded by design.
	history.Records[7].InventoryLevel = 0
	store := series.NewStore([]domain.SKUHistory{history})

	rows, err := New(DefaultConfig()).RunRolling(context.Background(), store)
	if err != nil {
		t.Fatalf("RunRolling failed: %v", err)
	}

	for _, row := range rows {
		if row.CutoffDate.Equal(date(2024, time.March, 8)) {
			t.Error("cursor with zero inventory at cutoff was not skipped")
		}
	}
	if len(rows) != 3 {
		t.Errorf("expected 3 rows (days 7, 9, 10), got %d", len(rows))
	}
}

func TestPerUnitFailureDoesNotAbortRun(t *testing.T) {
	store := series.NewStore([]domain.SKUHistory{
		dailyHistory("A1", date(2024, time.March, 1), repeat(5, 10), 100),
		dailyHistory("BAD", date(2024, time.March, 1), repeat(5, 10), 100),
	})

	eng := NewWithForecasters(DefaultConfig(),
		&stubForecaster{name: "seasonal", min: 2, demand: 5, failSKU: "BAD"},
		&stubForecaster{name: "regression", min: 7, demand: 5, failSKU: "BAD"},
	)

	rows, err := eng.RunSnapshot(context.Background(), store)
	if err != nil {
		t.Fatalf("RunSnapshot failed: %v", err)
	}
	if len(rows) != 1 || rows[0].SKUID != "A1" {
		t.Errorf("expected only A1 to survive, got %+v", rows)
	}
}

func TestHorizonDisagreementSurfaced(t *testing.T) {
	store := series.NewStore([]domain.SKUHistory{
		dailyHistory("A1", date(2024, time.March, 1), repeat(5, 10), 100),
	})

	eng := NewWithForecasters(DefaultConfig(),
		&stubForecaster{name: "seasonal", min: 2, demand: 5, horizonOverride: 31},
		&stubForecaster{name: "regression", min: 7, demand: 5},
	)

	if _, err := eng.RunSnapshot(context.Background(), store); !errors.Is(err, domain.ErrAlignment) {
		t.Errorf("expected ErrAlignment to surface, got %v", err)
	}
}

func TestRunSortsByCutoffDateThenSKU(t *testing.T) {
	store := series.NewStore([]domain.SKUHistory{
		dailyHistory("B2", date(2024, time.March, 1), repeat(5, 10), 100),
		dailyHistory("A1", date(2024, time.March, 3), repeat(5, 10), 100),
	})

	eng := NewWithForecasters(DefaultConfig(),
		&stubForecaster{name: "seasonal", min: 2, demand: 5},
		&stubForecaster{name: "regression", min: 7, demand: 5},
	)

	rows, err := eng.RunSnapshot(context.Background(), store)
	if err != nil {
		t.Fatalf("RunSnapshot failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// B2's history ends 2024-03-10, A1's ends 2024-03-12.
	if rows[0].SKUID != "B2" || rows[1].SKUID != "A1" {
		t.Errorf("rows not sorted by cutoff date: %s, %s", rows[0].SKUID, rows[1].SKUID)
	}
}
