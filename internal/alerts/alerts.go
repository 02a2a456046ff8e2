// Package alerts turns forecast result rows into user-facing notifications.
// It is a pure function of the rows, the wall-clock date and the look-ahead
// window; the engine itself never consults the wall clock.
package alerts

import (
	"fmt"
	"strings"
	"time"

	"github.com/holoo/stockcast/internal/domain"
)

// DefaultWindowDays is how far ahead a projected stockout may lie and still
// raise a notification.
const DefaultWindowDays = 7

// Notification is one alert entry served by the API.
type Notification struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// FromResults scans result rows for stockouts projected within windowDays of
// now and emits one notification per (row, model). Stockouts already in the
// past are not alerted; a stockout projected for today still is.
func FromResults(rows []domain.ResultRow, now time.Time, windowDays int) []Notification {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	today := domain.Day(now)

	notifications := []Notification{}
	for _, row := range rows {
		for _, result := range []*domain.ModelResult{row.Seasonal, row.Regression, row.Combined} {
			if result == nil || result.Projection.StockoutDate == nil {
				continue
			}
			stockout := *result.Projection.StockoutDate
			days := int(stockout.Sub(today).Hours() / 24)
			if days < 0 || days > windowDays {
				continue
			}
			notifications = append(notifications, Notification{
				Type:  "stockout",
				Title: "Stockout Predicted",
				Message: fmt.Sprintf("%s forecast for SKU %s predicts a stockout on %s (in %d days)",
					modelTitle(result.Model), row.SKUID, stockout.Format(domain.DateFormat), days),
				Timestamp: now,
			})
		}
	}
	return notifications
}

func modelTitle(model string) string {
	if model == "" {
		return "Forecast"
	}
	return strings.ToUpper(model[:1]) + model[1:]
}
