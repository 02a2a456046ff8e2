package forecast

import (
	"fmt"

	"github.com/holoo/stockcast/internal/domain"
)

// Combine merges two forecast series into one demand curve by per-day
// arithmetic mean. Both inputs must cover identical date sequences; a
// mismatch means the forecaster variants disagreed on the horizon, which is
// a programming fault surfaced as ErrAlignment rather than swallowed.
func Combine(a, b domain.ForecastSeries) (domain.ForecastSeries, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("series lengths %d and %d: %w", len(a), len(b), domain.ErrAlignment)
	}

	combined := make(domain.ForecastSeries, len(a))
	for i := range a {
		if !a[i].Date.Equal(b[i].Date) {
			return nil, fmt.Errorf("dates %s and %s at index %d: %w",
				a[i].Date.Format(domain.DateFormat), b[i].Date.Format(domain.DateFormat),
				i, domain.ErrAlignment)
		}
		combined[i] = domain.ForecastPoint{
			Date:            a[i].Date,
			PredictedDemand: (a[i].PredictedDemand + b[i].PredictedDemand) / 2,
		}
	}
	return combined, nil
}
