package domain

import (
	"fmt"
	"math"
	"time"
)

type UserProfile struct {
	Email                 string
	LegalRate             float64
	CashRate              float64
	WeeklyLegalHoursLimit float64
	// StartDate anchors week numbering. Nil until the first entry is recorded.
	StartDate  *time.Time
	WeekNumber int
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AnchorWeek returns the week anchor, setting it to date when none exists.
// An existing anchor is never moved.
func (p *UserProfile) AnchorWeek(date time.Time) time.Time {
	if p.StartDate == nil {
		d := date
		p.StartDate = &d
	}
	return *p.StartDate
}

// ValidateRates checks that rates and the weekly limit are finite and non-negative.
func (p *UserProfile) ValidateRates() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"legal rate", p.LegalRate},
		{"cash rate", p.CashRate},
		{"weekly legal hours limit", p.WeeklyLegalHoursLimit},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalidInput, f.name, f.value)
		}
	}
	return nil
}
