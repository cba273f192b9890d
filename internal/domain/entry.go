package domain

import (
	"fmt"
	"math"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// TimeEntry is one clock-in/clock-out pair on a calendar day. It is input only;
// the ledger stores its contribution, not the entry itself.
type TimeEntry struct {
	Date     time.Time
	ClockIn  time.Time
	ClockOut time.Time
}

// ParseTimeEntry builds an entry from a YYYY-MM-DD date and two HH:MM wall
// clock times on that day.
func ParseTimeEntry(date, clockIn, clockOut string) (TimeEntry, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return TimeEntry{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, date)
	}
	in, err := parseClock(day, clockIn)
	if err != nil {
		return TimeEntry{}, err
	}
	out, err := parseClock(day, clockOut)
	if err != nil {
		return TimeEntry{}, err
	}
	return TimeEntry{Date: day, ClockIn: in, ClockOut: out}, nil
}

func parseClock(day time.Time, value string) (time.Time, error) {
	t, err := time.Parse(ClockLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidInput, value)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

// TotalHours returns the worked hours. Zero, negative, and non-finite
// durations are rejected with ErrInvalidDuration.
func (e TimeEntry) TotalHours() (float64, error) {
	if e.Date.IsZero() {
		return 0, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	hours := e.ClockOut.Sub(e.ClockIn).Hours()
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours <= 0 {
		return 0, fmt.Errorf("%w: clock out %s is not after clock in %s",
			ErrInvalidDuration, e.ClockOut.Format(ClockLayout), e.ClockIn.Format(ClockLayout))
	}
	return hours, nil
}
