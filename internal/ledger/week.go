package ledger

import (
	"math"
	"time"
)

const hoursPerDay = 24

// Timestamp is a seconds/nanoseconds instant, the form document stores
// commonly use for dates.
type Timestamp struct {
	Seconds int64
	Nanos   int32
}

// Time converts the pair to a UTC instant.
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanos)).UTC()
}

// TimestampOf is the inverse of Timestamp.Time.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

// Day normalizes t to midnight UTC of its calendar date. Entries and anchors
// are compared as days, so wall-clock offsets never shift a week boundary.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekNumber returns floor(days(target-start)/7) + 1. Week 1 is the seven-day
// span beginning at start. A target before start yields a value <= 0, which
// callers must reject.
func WeekNumber(start, target time.Time) int {
	days := target.Sub(start).Hours() / hoursPerDay
	return int(math.Floor(days/7)) + 1
}

// WeekStart returns the first day of the given week relative to start.
func WeekStart(start time.Time, week int) time.Time {
	return start.AddDate(0, 0, (week-1)*7)
}
