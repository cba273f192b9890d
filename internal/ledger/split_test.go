package ledger

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitHours(t *testing.T) {
	tests := []struct {
		name               string
		total, limit, used float64
		wantLegal          float64
		wantCash           float64
	}{
		{"overflow into cash", 10, 40, 35, 5, 5},
		{"fits under cap", 8, 40, 0, 8, 0},
		{"exactly at cap", 5, 40, 35, 5, 0},
		{"cap already used", 6, 40, 40, 0, 6},
		{"cap overdrawn", 6, 40, 45, 0, 6},
		{"zero limit", 3, 0, 0, 0, 3},
		{"zero hours", 0, 40, 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := SplitHours(tt.total, tt.limit, tt.used)
			assert.InDelta(t, tt.wantLegal, a.LegalHours, Epsilon)
			assert.InDelta(t, tt.wantCash, a.CashHours, Epsilon)
		})
	}
}

func TestAllocation_Pay(t *testing.T) {
	got := SplitHours(10, 40, 35).Pay(20, 12.5)
	assert.InDelta(t, 100, got.LegalPay, Epsilon)
	assert.InDelta(t, 62.5, got.CashPay, Epsilon)
	assert.InDelta(t, 10, got.Hours(), Epsilon)
}

// TestSplitHours_Invariants property-tests conservation, non-negativity and
// the remaining-capacity bound.
func TestSplitHours_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 1000; trial++ {
		total := rng.Float64() * 16
		limit := rng.Float64() * 60
		used := rng.Float64() * 70

		a := SplitHours(total, limit, used)
		remaining := max(limit-used, 0)

		assert.InDelta(t, total, a.LegalHours+a.CashHours, Epsilon, "trial %d: hours not conserved", trial)
		assert.GreaterOrEqual(t, a.LegalHours, 0.0, "trial %d", trial)
		assert.GreaterOrEqual(t, a.CashHours, 0.0, "trial %d", trial)
		assert.LessOrEqual(t, a.LegalHours, remaining+Epsilon, "trial %d: legal exceeds capacity", trial)
	}
}

// TestSplitHours_WeeklyCapHolds feeds a week of random entries through the
// splitter and checks the accumulated legal hours never pass the limit.
func TestSplitHours_WeeklyCapHolds(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for trial := 0; trial < 200; trial++ {
		limit := float64(rng.Intn(45))
		entries := rng.Intn(12) + 1
		var legal, cash, total float64
		for i := 0; i < entries; i++ {
			hours := rng.Float64() * 12
			a := SplitHours(hours, limit, legal)
			legal += a.LegalHours
			cash += a.CashHours
			total += hours
		}
		assert.LessOrEqual(t, legal, limit+Epsilon, "trial %d", trial)
		assert.InDelta(t, total, legal+cash, 1e-6, "trial %d", trial)
	}
}
