package forecast

import (
	"fmt"

	"github.com/holoo/stockcast/internal/domain"
)

// regression feature vector layout
const (
	featDayOfWeek = iota
	featMonth
	featDayOfMonth
	featLag1
	featLag7
	numFeatures
)

// RegressionForecaster trains a boosted ensemble of regression stumps on
// FeatureBuilder output with units_sold as the target. Forecasting is
// autoregressive: the prediction for day N is fed back as lag1 (and
// eventually lag7) for the following days, so compounding error over the
// horizon is an accepted property of the design, not a defect.
type RegressionForecaster struct {
	rounds       int
	learningRate float64
}

// NewRegressionForecaster returns a forecaster with 100 boosting rounds and
// a 0.3 learning rate.
func NewRegressionForecaster() *RegressionForecaster {
	return &RegressionForecaster{
		rounds:       100,
		learningRate: 0.3,
	}
}

func (r *RegressionForecaster) Name() string { return "regression" }

// MinRecords is 7 so that lag7 is populated meaningfully. The batch
// orchestrator enforces this before calling Forecast; the check here only
// guards direct callers.
func (r *RegressionForecaster) MinRecords() int { return 7 }

// Forecast trains on the history and predicts horizon days ahead, one day
// at a time, carrying a rolling window of its own predictions.
func (r *RegressionForecaster) Forecast(history domain.SKUHistory, horizon int) (domain.ForecastSeries, error) {
	if history.Len() < r.MinRecords() {
		return nil, fmt.Errorf("regression: sku %s has %d records, need %d: %w",
			history.SKUID, history.Len(), r.MinRecords(), domain.ErrInsufficientData)
	}

	rows, err := BuildFeatures(history)
	if err != nil {
		return nil, err
	}

	x := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i, row := range rows {
		x[i] = featureVector(row)
		y[i] = history.Records[i].UnitsSold
	}

	model, err := fitBoostedStumps(x, y, r.rounds, r.learningRate)
	if err != nil {
		return nil, fmt.Errorf("regression: sku %s training failed: %w", history.SKUID, err)
	}

	// Rolling demand window seeding the lag features. Starts with observed
	// sales and grows with the model's own predictions.
	window := make([]float64, 0, history.Len()+horizon)
	for _, rec := range history.Records {
		window = append(window, rec.UnitsSold)
	}

	series := make(domain.ForecastSeries, 0, horizon)
	for _, date := range futureDates(history.CutoffDate(), horizon) {
		row := domain.FeatureRow{
			Date:       date,
			DayOfWeek:  int(date.Weekday()),
			Month:      int(date.Month()),
			DayOfMonth: date.Day(),
			Lag1:       window[len(window)-1],
		}
		if len(window) >= 7 {
			row.Lag7 = window[len(window)-7]
		}

		pred := clampDemand(model.predict(featureVector(row)))
		series = append(series, domain.ForecastPoint{Date: date, PredictedDemand: pred})
		window = append(window, pred)
	}

	return series, nil
}

func featureVector(row domain.FeatureRow) []float64 {
	v := make([]float64, numFeatures)
	v[featDayOfWeek] = float64(row.DayOfWeek)
	v[featMonth] = float64(row.Month)
	v[featDayOfMonth] = float64(row.DayOfMonth)
	v[featLag1] = row.Lag1
	v[featLag7] = row.Lag7
	return v
}
