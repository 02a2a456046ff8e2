package forecast

import (
	"fmt"

	"github.com/holoo/stockcast/internal/domain"
)

// BuildFeatures derives calendar and lag features from a SKU's ordered
// records, one FeatureRow per record. Lag fields reference the 1st and 7th
// prior record's units_sold and are zero-filled while not enough history
// exists. The only failure mode is an empty input.
func BuildFeatures(h domain.SKUHistory) ([]domain.FeatureRow, error) {
	if len(h.Records) == 0 {
		return nil, fmt.Errorf("sku %s: %w", h.SKUID, domain.ErrInsufficientData)
	}

	rows := make([]domain.FeatureRow, len(h.Records))
	for i, r := range h.Records {
		row := domain.FeatureRow{
			Date:       r.Date,
			DayOfWeek:  int(r.Date.Weekday()),
			Month:      int(r.Date.Month()),
			DayOfMonth: r.Date.Day(),
		}
		if i >= 1 {
			row.Lag1 = h.Records[i-1].UnitsSold
		}
		if i >= 7 {
			row.Lag7 = h.Records[i-7].UnitsSold
		}
		rows[i] = row
	}

	return rows, nil
}
