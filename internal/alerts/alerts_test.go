package alerts

import (
	"strings"
	"testing"
	"time"

	"github.com/holoo/stockcast/internal/domain"
)

func resultWithStockout(model string, stockout time.Time) *domain.ModelResult {
	days := 3
	return &domain.ModelResult{
		Model: model,
		Projection: domain.StockoutProjection{
			StockoutDate:      &stockout,
			DaysUntilStockout: &days,
		},
		Tier: domain.TierCritical,
	}
}

func TestFromResultsWindowBoundaries(t *testing.T) {
	now := time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)
	day := func(offset int) time.Time {
		return time.Date(2024, time.March, 10+offset, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		stockout time.Time
		want     int
	}{
		{"yesterday is stale", day(-1), 0},
		{"today still alerts", day(0), 1},
		{"inside window", day(3), 1},
		{"window boundary inclusive", day(7), 1},
		{"just past window", day(8), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []domain.ResultRow{{
				SKUID:    "A1",
				Seasonal: resultWithStockout("seasonal", tt.stockout),
			}}
			got := FromResults(rows, now, DefaultWindowDays)
			if len(got) != tt.want {
				t.Errorf("got %d notifications, want %d", len(got), tt.want)
			}
		})
	}
}

func TestFromResultsOnePerModel(t *testing.T) {
	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	stockout := time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC)

	rows := []domain.ResultRow{{
		SKUID:      "A1",
		Seasonal:   resultWithStockout("seasonal", stockout),
		Regression: resultWithStockout("regression", stockout),
	}}

	got := FromResults(rows, now, DefaultWindowDays)
	if len(got) != 2 {
		t.Fatalf("got %d notifications, want one per model section", len(got))
	}

	first := got[0]
	if first.Type != "stockout" || first.Title != "Stockout Predicted" {
		t.Errorf("notification header = %q / %q", first.Type, first.Title)
	}
	if !strings.Contains(first.Message, "SKU A1") ||
		!strings.Contains(first.Message, "2024-03-13") ||
		!strings.Contains(first.Message, "in 3 days") {
		t.Errorf("message = %q", first.Message)
	}
	if !strings.HasPrefix(first.Message, "Seasonal") {
		t.Errorf("message does not name the model: %q", first.Message)
	}
	if !first.Timestamp.Equal(now) {
		t.Errorf("timestamp = %v, want %v", first.Timestamp, now)
	}
}

func TestFromResultsSkipsEmptySections(t *testing.T) {
	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

	rows := []domain.ResultRow{
		{SKUID: "A1"},
		{SKUID: "B2", Seasonal: &domain.ModelResult{
			Model:      "seasonal",
			Projection: domain.StockoutProjection{},
			Tier:       domain.TierNone,
		}},
	}

	if got := FromResults(rows, now, DefaultWindowDays); len(got) != 0 {
		t.Errorf("got %d notifications from rows without stockouts, want 0", len(got))
	}
}
