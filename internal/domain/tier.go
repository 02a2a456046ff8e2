package domain

// AlertTier grades how urgently a projected stockout needs attention.
type AlertTier string

const (
	TierCritical AlertTier = "CRITICAL"
	TierUrgent   AlertTier = "URGENT"
	TierWarning  AlertTier = "WARNING"
	TierOK       AlertTier = "OK"
	TierNone     AlertTier = "NONE"
)

var tierLabels = map[AlertTier]string{
	TierCritical: "CRITICAL: Stockout within 3 days!",
	TierUrgent:   "URGENT: Stockout within a week!",
	TierWarning:  "WARNING: Stockout within two weeks",
	TierOK:       "OK",
	TierNone:     "NO ALERT",
}

// Label returns the human-readable alert message for a tier.
func (t AlertTier) Label() string {
	if label, ok := tierLabels[t]; ok {
		return label
	}

	return "NO ALERT"
}
