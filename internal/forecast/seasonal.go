package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/holoo/stockcast/internal/domain"
)

const (
	weeklyPeriodDays = 7
	yearlyPeriodDays = 365.25

	// Seasonal blocks only enter the design matrix once the history spans
	// them, so sparse series degrade to a trend fit instead of a
	// rank-deficient system.
	minSpanForWeekly = 14
	minSpanForYearly = 365
)

// SeasonalForecaster fits a decomposable model directly on
// (date, units_sold): a linear trend plus weekly and yearly periodic
// components expressed as Fourier terms, estimated by regularized least
// squares. It needs no engineered features and at least 2 observations.
type SeasonalForecaster struct {
	weeklyOrder int
	yearlyOrder int
	ridge       float64
}

// NewSeasonalForecaster returns a forecaster with weekly order 3, yearly
// order 2 and a small ridge term that keeps the normal equations
// well-conditioned on degenerate series.
func NewSeasonalForecaster() *SeasonalForecaster {
	return &SeasonalForecaster{
		weeklyOrder: 3,
		yearlyOrder: 2,
		ridge:       1e-9,
	}
}

func (s *SeasonalForecaster) Name() string { return "seasonal" }

func (s *SeasonalForecaster) MinRecords() int { return 2 }

// Forecast fits the model on the history and predicts horizon consecutive
// days starting the day after the cutoff.
func (s *SeasonalForecaster) Forecast(history domain.SKUHistory, horizon int) (domain.ForecastSeries, error) {
	n := history.Len()
	if n < s.MinRecords() {
		return nil, fmt.Errorf("seasonal: sku %s has %d records, need %d: %w",
			history.SKUID, n, s.MinRecords(), domain.ErrInsufficientData)
	}

	origin := history.Records[0].Date
	spanDays := int(history.CutoffDate().Sub(origin).Hours() / 24)

	x := make([][]float64, n)
	y := make([]float64, n)
	for i, r := range history.Records {
		x[i] = s.designRow(r.Date, origin, spanDays)
		y[i] = r.UnitsSold
	}

	theta, err := solveRidge(x, y, s.ridge)
	if err != nil {
		return nil, fmt.Errorf("seasonal: sku %s fit failed: %w", history.SKUID, err)
	}

	series := make(domain.ForecastSeries, 0, horizon)
	for _, date := range futureDates(history.CutoffDate(), horizon) {
		row := s.designRow(date, origin, spanDays)
		series = append(series, domain.ForecastPoint{
			Date:            date,
			PredictedDemand: clampDemand(dot(row, theta)),
		})
	}
	return series, nil
}

// designRow builds one row of the design matrix: intercept, trend, and the
// Fourier terms of whichever seasonal blocks the history span supports.
func (s *SeasonalForecaster) designRow(date, origin time.Time, spanDays int) []float64 {
	t := date.Sub(origin).Hours() / 24

	row := []float64{1, t / yearlyPeriodDays}
	if spanDays >= minSpanForWeekly {
		for k := 1; k <= s.weeklyOrder; k++ {
			phase := 2 * math.Pi * float64(k) * t / weeklyPeriodDays
			row = append(row, math.Sin(phase), math.Cos(phase))
		}
	}
	if spanDays >= minSpanForYearly {
		for k := 1; k <= s.yearlyOrder; k++ {
			phase := 2 * math.Pi * float64(k) * t / yearlyPeriodDays
			row = append(row, math.Sin(phase), math.Cos(phase))
		}
	}
	return row
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
