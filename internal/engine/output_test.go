package engine

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/holoo/stockcast/internal/domain"
)

func TestWriteCSVLayout(t *testing.T) {
	stockout := date(2024, time.March, 13)
	days := 3
	rows := []domain.ResultRow{
		{
			SKUID:      "A1",
			CutoffDate: date(2024, time.March, 10),
			Seasonal: &domain.ModelResult{
				Model:          "seasonal",
				AvgDailyDemand: 5,
				Projection: domain.StockoutProjection{
					CutoffDate:        date(2024, time.March, 10),
					CurrentInventory:  12,
					StockoutDate:      &stockout,
					DaysUntilStockout: &days,
				},
				Tier:         domain.TierCritical,
				RestockAlert: true,
			},
			Combined: &domain.ModelResult{
				Model:          "combined",
				AvgDailyDemand: 5,
				Projection: domain.StockoutProjection{
					CutoffDate:       date(2024, time.March, 10),
					CurrentInventory: 1000,
				},
				Tier: domain.TierNone,
			},
		},
	}

	var sb strings.Builder
	if err := WriteCSV(&sb, rows); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus 1 row, got %d records", len(records))
	}

	header := records[0]
	if len(header) != 2+3*len(modelColumns) {
		t.Fatalf("header has %d columns, want %d", len(header), 2+3*len(modelColumns))
	}
	if header[0] != "sku_id" || header[1] != "cutoff_date" {
		t.Errorf("header starts %v, want sku_id, cutoff_date", header[:2])
	}
	if header[2] != "seasonal_avg_daily_sales" || header[12] != "combined_avg_daily_sales" {
		t.Errorf("model group columns misplaced: %v", header)
	}

	row := records[1]
	if row[0] != "A1" || row[1] != "2024-03-10" {
		t.Errorf("identity cells = %v", row[:2])
	}

	seasonal := row[2:7]
	if seasonal[0] != "5.00" || seasonal[1] != "2024-03-13" || seasonal[2] != "3" ||
		seasonal[3] != "CRITICAL" || seasonal[4] != "Yes" {
		t.Errorf("seasonal cells = %v", seasonal)
	}

	// The regression model was skipped for this row: its group stays empty.
	for i, cell := range row[7:12] {
		if cell != "" {
			t.Errorf("regression cell %d = %q, want empty", i, cell)
		}
	}

	combined := row[12:17]
	if combined[1] != noStockoutLabel || combined[2] != "" ||
		combined[3] != "NONE" || combined[4] != "No" {
		t.Errorf("combined cells = %v", combined)
	}
}
