package forecast

import (
	"testing"

	"github.com/holoo/stockcast/internal/domain"
)

func TestClassifyBoundaries(t *testing.T) {
	thresholds := DefaultThresholds()

	tests := []struct {
		name string
		days *int
		want domain.AlertTier
	}{
		{"no stockout", nil, domain.TierNone},
		{"1 day", intPtr(1), domain.TierCritical},
		{"exactly 3 days", intPtr(3), domain.TierCritical},
		{"4 days", intPtr(4), domain.TierUrgent},
		{"exactly 7 days", intPtr(7), domain.TierUrgent},
		{"8 days", intPtr(8), domain.TierWarning},
		{"exactly 14 days", intPtr(14), domain.TierWarning},
		{"15 days", intPtr(15), domain.TierOK},
		{"30 days", intPtr(30), domain.TierOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.days, thresholds); got != tt.want {
				t.Errorf("Classify(%v) = %s, want %s", tt.days, got, tt.want)
			}
		})
	}
}

func TestClassifyCustomThresholds(t *testing.T) {
	thresholds := Thresholds{Critical: 1, Urgent: 2, Warning: 3}

	if got := Classify(intPtr(2), thresholds); got != domain.TierUrgent {
		t.Errorf("Classify(2) with custom thresholds = %s, want URGENT", got)
	}
	if got := Classify(intPtr(4), thresholds); got != domain.TierOK {
		t.Errorf("Classify(4) with custom thresholds = %s, want OK", got)
	}
}

func intPtr(v int) *int { return &v }
