package forecast

import (
	"fmt"
	"time"

	"github.com/holoo/stockcast/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dailyHistory builds a SKUHistory with one record per consecutive day
// starting at start, with the given units sold and a constant inventory.
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

// checkHorizon verifies the series has exactly horizon points with strictly
// increasing consecutive dates starting the day after cutoff.
func checkHorizon(series domain.ForecastSeries, cutoff time.Time, horizon int) error {
	if len(series) != horizon {
		return fmt.Errorf("expected %d points, got %d", horizon, len(series))
	}
	for i, p := range series {
		want := cutoff.AddDate(0, 0, i+1)
		if !p.Date.Equal(want) {
			return fmt.Errorf("point %d: expected date %s, got %s",
				i, want.Format(domain.DateFormat), p.Date.Format(domain.DateFormat))
		}
	}
	return nil
}
