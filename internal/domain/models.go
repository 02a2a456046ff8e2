// internal/domain/models.go
package domain

import (
	"fmt"
	"time"
)

// DateFormat is the ISO-8601 calendar date layout used across all tables.
const DateFormat = "2006-01-02"

// Day normalizes a timestamp to a calendar date (UTC midnight).
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SeriesRecord is one daily observation for a SKU.
type SeriesRecord struct {
	Date           time.Time `json:"date"`
	UnitsSold      float64   `json:"units_sold"`
	InventoryLevel float64   `json:"inventory_level"`
	// HasInventory is false when the row came from an order sync that could
	// not report a stock level for that day.
	HasInventory bool `json:"has_inventory"`
}

// SKUHistory holds a SKU's chronologically ordered daily records.
// Dates are strictly increasing; no duplicate dates per SKU.
type SKUHistory struct {
	SKUID   string         `json:"sku_id"`
	Records []SeriesRecord `json:"records"`
}

// Len returns the number of records.
func (h SKUHistory) Len() int { return len(h.Records) }

// CutoffDate returns the date of the last record. The zero time is returned
// for an empty history.
func (h SKUHistory) CutoffDate() time.Time {
	if len(h.Records) == 0 {
		return time.Time{}
	}
	return h.Records[len(h.Records)-1].Date
}

// CurrentInventory returns the most recent known inventory level walking
// backwards from the cutoff. The second return value is false when no record
// carries an inventory level.
func (h SKUHistory) CurrentInventory() (float64, bool) {
	for i := len(h.Records) - 1; i >= 0; i-- {
		if h.Records[i].HasInventory {
			return h.Records[i].InventoryLevel, true
		}
	}
	return 0, false
}

// UpTo returns a view of the history restricted to records dated at or
// before cutoff. The underlying slice is shared, never copied; callers must
// treat histories as read-only.
func (h SKUHistory) UpTo(cutoff time.Time) SKUHistory {
	cutoff = Day(cutoff)
	n := len(h.Records)
	for n > 0 && h.Records[n-1].Date.After(cutoff) {
		n--
	}
	return SKUHistory{SKUID: h.SKUID, Records: h.Records[:n]}
}

// Validate checks the strictly-increasing-dates invariant.
func (h SKUHistory) Validate() error {
	for i := 1; i < len(h.Records); i++ {
		if !h.Records[i].Date.After(h.Records[i-1].Date) {
			return fmt.Errorf("sku %s: records out of order at %s", h.SKUID,
				h.Records[i].Date.Format(DateFormat))
		}
	}
	return nil
}

// FeatureRow is the engineered input for the regression forecaster. Lag
// fields are zero-filled when not enough history exists.
type FeatureRow struct {
	Date       time.Time
	DayOfWeek  int
	Month      int
	DayOfMonth int
	Lag1       float64
	Lag7       float64
}

// ForecastPoint is one day of predicted demand.
type ForecastPoint struct {
	Date            time.Time `json:"date"`
	PredictedDemand float64   `json:"predicted_demand"`
}

// ForecastSeries is an ordered daily demand forecast. A well-formed series
// has exactly the requested horizon of strictly increasing consecutive dates
// starting the day after the cutoff, and is never mutated after creation.
type ForecastSeries []ForecastPoint

// AvgDailyDemand returns the mean predicted demand over the series.
func (s ForecastSeries) AvgDailyDemand() float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, p := range s {
		sum += p.PredictedDemand
	}
	return sum / float64(len(s))
}

// StockoutProjection is the outcome of walking a forecast against current
// inventory. StockoutDate and DaysUntilStockout are nil when no stockout
// falls within the horizon.
type StockoutProjection struct {
	CutoffDate        time.Time  `json:"cutoff_date"`
	CurrentInventory  float64    `json:"current_inventory"`
	StockoutDate      *time.Time `json:"stockout_date,omitempty"`
	DaysUntilStockout *int       `json:"days_until_stockout,omitempty"`
}

// ModelResult carries one forecaster's contribution to a ResultRow.
type ModelResult struct {
	Model          string             `json:"model"`
	AvgDailyDemand float64            `json:"avg_daily_demand"`
	Projection     StockoutProjection `json:"projection"`
	Tier           AlertTier          `json:"tier"`
	RestockAlert   bool               `json:"restock_alert"`
}

// ResultRow is the unit appended to the output table: one row per SKU in
// snapshot mode, one row per (SKU, cutoff date) in rolling mode. A nil model
// section means that forecaster was skipped or failed for this unit.
// Combined is only populated in snapshot mode.
type ResultRow struct {
	SKUID      string       `json:"sku_id"`
	CutoffDate time.Time    `json:"cutoff_date"`
	Seasonal   *ModelResult `json:"seasonal,omitempty"`
	Regression *ModelResult `json:"regression,omitempty"`
	Combined   *ModelResult `json:"combined,omitempty"`
}
