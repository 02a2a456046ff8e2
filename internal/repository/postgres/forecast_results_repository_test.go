package postgres

import (
	"testing"
	"time"

	"github.com/holoo/stockcast/internal/domain"
)

func TestFlattenExpandsModelSections(t *testing.T) {
	cutoff := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	stockout := cutoff.AddDate(0, 0, 3)
	days := 3

	rows := []domain.ResultRow{
		{
			SKUID:      "A1",
			CutoffDate: cutoff,
			Seasonal: &domain.ModelResult{
				Model:          "seasonal",
				AvgDailyDemand: 5,
				Projection: domain.StockoutProjection{
					CutoffDate:        cutoff,
					CurrentInventory:  12,
					StockoutDate:      &stockout,
					DaysUntilStockout: &days,
				},
				Tier:         domain.TierCritical,
				RestockAlert: true,
			},
			Combined: &domain.ModelResult{
				Model: "combined",
				Projection: domain.StockoutProjection{
					CutoffDate:       cutoff,
					CurrentInventory: 1000,
				},
				Tier: domain.TierNone,
			},
		},
		{SKUID: "B2", CutoffDate: cutoff},
	}

	records := Flatten("snapshot", rows)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (nil sections and empty rows skipped)", len(records))
	}

	first := records[0]
	if first.SKUID != "A1" || first.Model != "seasonal" || first.RunMode != "snapshot" {
		t.Errorf("first record identity = %+v", first)
	}
	if first.StockoutDate == nil || !first.StockoutDate.Equal(stockout) {
		t.Errorf("first record StockoutDate = %v, want %v", first.StockoutDate, stockout)
	}
	if first.DaysUntilStockout == nil || *first.DaysUntilStockout != 3 {
		t.Errorf("first record DaysUntilStockout = %v, want 3", first.DaysUntilStockout)
	}
	if first.AlertTier != "CRITICAL" || !first.RestockAlert {
		t.Errorf("first record alert columns = %s / %v", first.AlertTier, first.RestockAlert)
	}

	second := records[1]
	if second.Model != "combined" {
		t.Errorf("second record model = %s, want combined", second.Model)
	}
	if second.StockoutDate != nil || second.DaysUntilStockout != nil {
		t.Errorf("no-stockout record carries stockout columns: %+v", second)
	}
}
