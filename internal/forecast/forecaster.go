// Package forecast holds the demand forecasting core: feature engineering,
// the two forecaster variants, the combiner, the stockout projector and the
// alert classifier. Everything here is cutoff-date-parametric and free of
// wall-clock time and I/O.
package forecast

import (
	"time"

	"github.com/holoo/stockcast/internal/domain"
)

// DefaultHorizon is the number of future days forecasted.
const DefaultHorizon = 30

// Forecaster produces a daily demand forecast from historical data. Both
// variants satisfy the same contract: exactly horizon points with strictly
// increasing consecutive dates starting the day after the history's cutoff.
type Forecaster interface {
	// Name identifies the variant in result rows and logs.
	Name() string

	// MinRecords is the smallest history the variant can train on.
	MinRecords() int

	// Forecast trains on the given history and predicts horizon days ahead.
	// Negative raw predictions are clamped to zero before they leave the
	// forecaster; the projector downstream never clamps.
	Forecast(history domain.SKUHistory, horizon int) (domain.ForecastSeries, error)
}

// futureDates returns the horizon consecutive dates following cutoff.
func futureDates(cutoff time.Time, horizon int) []time.Time {
	dates := make([]time.Time, horizon)
	for i := range dates {
		dates[i] = cutoff.AddDate(0, 0, i+1)
	}
	return dates
}

func clampDemand(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
