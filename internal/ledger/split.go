package ledger

import "github.com/alexanderramin/shiftledger/internal/domain"

// Epsilon is the tolerance for hour conservation checks.
const Epsilon = 1e-9

// Allocation is the legal/cash division of one entry's hours.
type Allocation struct {
	LegalHours float64
	CashHours  float64
}

// SplitHours applies the weekly legal cap to totalHours. Hours fit into the
// remaining legal capacity first; the rest is cash.
func SplitHours(totalHours, weeklyLimit, workedLegalSoFar float64) Allocation {
	remaining := max(weeklyLimit-workedLegalSoFar, 0)
	if totalHours <= remaining {
		return Allocation{LegalHours: totalHours}
	}
	return Allocation{LegalHours: remaining, CashHours: totalHours - remaining}
}

// Pay prices the allocation at the given hourly rates.
func (a Allocation) Pay(legalRate, cashRate float64) domain.Totals {
	return domain.Totals{
		LegalHours: a.LegalHours,
		CashHours:  a.CashHours,
		LegalPay:   a.LegalHours * legalRate,
		CashPay:    a.CashHours * cashRate,
	}
}
