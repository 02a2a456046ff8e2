package forecast

import "github.com/holoo/stockcast/internal/domain"

// Thresholds are the inclusive upper bounds of the alert tiers, in days
// until stockout. Anything above Warning is OK; no projected stockout is
// NONE.
type Thresholds struct {
	Critical int
	Urgent   int
	Warning  int
}

// DefaultThresholds returns the planner defaults: 3 / 7 / 14 days.
func DefaultThresholds() Thresholds {
	return Thresholds{Critical: 3, Urgent: 7, Warning: 14}
}

// Classify maps days-until-stockout to an alert tier. Boundaries are
// inclusive on the lower tier: exactly 3 days is CRITICAL, exactly 7 URGENT,
// exactly 14 WARNING.
func Classify(daysUntilStockout *int, t Thresholds) domain.AlertTier {
	switch {
	case daysUntilStockout == nil:
		return domain.TierNone
	case *daysUntilStockout <= t.Critical:
		return domain.TierCritical
	case *daysUntilStockout <= t.Urgent:
		return domain.TierUrgent
	case *daysUntilStockout <= t.Warning:
		return domain.TierWarning
	default:
		return domain.TierOK
	}
}
