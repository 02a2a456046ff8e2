package forecast

import (
	"errors"
	"testing"
	"time"

	"github.com/holoo/stockcast/internal/domain"
)

func TestBuildFeaturesCalendarAndLags(t *testing.T) {
	// 2024-01-01 is a Monday.
	start := date(2024, time.January, 1)
	history := dailyHistory("A1", start, []float64{10, 20, 30, 40, 50, 60, 70, 80, 90}, 100)

	rows, err := BuildFeatures(history)
	if err != nil {
		t.Fatalf("BuildFeatures failed: %v", err)
	}
	if len(rows) != 9 {
		t.Fatalf("expected 9 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.DayOfWeek != int(time.Monday) || first.Month != 1 || first.DayOfMonth != 1 {
		t.Errorf("calendar features = (%d, %d, %d), want (1, 1, 1)",
			first.DayOfWeek, first.Month, first.DayOfMonth)
	}
	if first.Lag1 != 0 || first.Lag7 != 0 {
		t.Errorf("first row lags = (%v, %v), want zero-filled", first.Lag1, first.Lag7)
	}

	if rows[1].Lag1 != 10 {
		t.Errorf("row 1 lag1 = %v, want 10", rows[1].Lag1)
	}
	if rows[6].Lag7 != 0 {
		t.Errorf("row 6 lag7 = %v, want 0 (only 6 prior records)", rows[6].Lag7)
	}
	if rows[7].Lag7 != 10 {
		t.Errorf("row 7 lag7 = %v, want 10", rows[7].Lag7)
	}
	if rows[8].Lag7 != 20 || rows[8].Lag1 != 80 {
		t.Errorf("row 8 lags = (%v, %v), want (80, 20)", rows[8].Lag1, rows[8].Lag7)
	}
}

func TestBuildFeaturesEmptyHistory(t *testing.T) {
	_, err := BuildFeatures(domain.SKUHistory{SKUID: "A1"})
	if !errors.Is(err, domain.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData for empty history, got %v", err)
	}
}
