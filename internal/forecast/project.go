package forecast

import (
	"time"

	"github.com/holoo/stockcast/internal/domain"
)

// DefaultRestockWindowDays is the depletion window that raises the coarse
// restock flag. It is configured independently of the classifier thresholds
// even though both default to 14 days.
const DefaultRestockWindowDays = 14

// Project walks the running cumulative sum of predicted demand against the
// current inventory and reports the first date whose cumulative demand
// strictly exceeds it. days_until_stockout is 1-based from the cutoff. When
// the horizon never exceeds the inventory, both fields stay nil.
//
// The projector is a pure cumulative-sum function: negative demand values
// are passed through untouched, clamping belongs to the forecasters.
func Project(series domain.ForecastSeries, cutoff time.Time, currentInventory float64) domain.StockoutProjection {
	projection := domain.StockoutProjection{
		CutoffDate:       cutoff,
		CurrentInventory: currentInventory,
	}

	var cumulative float64
	for i, point := range series {
		cumulative += point.PredictedDemand
		if cumulative > currentInventory {
			date := point.Date
			days := i + 1
			projection.StockoutDate = &date
			projection.DaysUntilStockout = &days
			break
		}
	}

	return projection
}

// RestockAlert reports whether the projected depletion falls within
// windowDays of the cutoff.
func RestockAlert(projection domain.StockoutProjection, windowDays int) bool {
	return projection.DaysUntilStockout != nil && *projection.DaysUntilStockout <= windowDays
}
