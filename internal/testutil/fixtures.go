package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
)

var testEmailCounter atomic.Int64

// Profile options
type ProfileOption func(*domain.UserProfile)

func WithRates(legal, cash float64) ProfileOption {
	return func(p *domain.UserProfile) {
		p.LegalRate = legal
		p.CashRate = cash
	}
}

func WithWeeklyLimit(hours float64) ProfileOption {
	return func(p *domain.UserProfile) {
		p.WeeklyLegalHoursLimit = hours
	}
}

func WithStartDate(d time.Time) ProfileOption {
	return func(p *domain.UserProfile) {
		p.StartDate = &d
	}
}

func WithEmail(email string) ProfileOption {
	return func(p *domain.UserProfile) {
		p.Email = email
	}
}

// NewTestProfile returns an unsaved profile with a unique email, a 40h weekly
// legal limit, and rates of 20 (legal) and 15 (cash).
func NewTestProfile(opts ...ProfileOption) *domain.UserProfile {
	p := &domain.UserProfile{
		Email:                 fmt.Sprintf("worker%d@example.com", testEmailCounter.Add(1)),
		LegalRate:             20,
		CashRate:              15,
		WeeklyLegalHoursLimit: 40,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Date returns midnight UTC of the given day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewTestEntry builds an entry on day starting at startHour and lasting hours.
// Fractional hours are kept to the second.
func NewTestEntry(day time.Time, startHour int, hours float64) domain.TimeEntry {
	in := day.Add(time.Duration(startHour) * time.Hour)
	return domain.TimeEntry{
		Date:     day,
		ClockIn:  in,
		ClockOut: in.Add(time.Duration(hours * float64(time.Hour))),
	}
}
