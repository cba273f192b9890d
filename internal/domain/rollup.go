package domain

import "time"

// Totals is the hours and pay carried by every rollup granularity.
type Totals struct {
	LegalHours float64
	CashHours  float64
	LegalPay   float64
	CashPay    float64
}

func (t Totals) Hours() float64 { return t.LegalHours + t.CashHours }
func (t Totals) Pay() float64   { return t.LegalPay + t.CashPay }

// Plus returns the element-wise sum.
func (t Totals) Plus(o Totals) Totals {
	return Totals{
		LegalHours: t.LegalHours + o.LegalHours,
		CashHours:  t.CashHours + o.CashHours,
		LegalPay:   t.LegalPay + o.LegalPay,
		CashPay:    t.CashPay + o.CashPay,
	}
}

// Contribution is what a single entry adds to each rollup.
type Contribution struct {
	TotalHours float64
	Totals
}

type DailyRollup struct {
	Email       string
	Date        time.Time
	DayKey      string // ddmmyyyy
	MonthNumber int
	TotalHours  float64
	Totals
	Version int64
}

// Apply adds c to the day's totals.
func (d *DailyRollup) Apply(c Contribution) {
	d.TotalHours += c.TotalHours
	d.Totals = d.Totals.Plus(c.Totals)
}

type WeeklyRollup struct {
	Email        string
	WeekNumber   int
	StartDate    time.Time
	EndDate      time.Time
	StartWeekday time.Weekday
	Totals
	Version int64
}

// Apply adds c and widens the week's date span to include date.
func (w *WeeklyRollup) Apply(c Contribution, date time.Time) {
	w.Totals = w.Totals.Plus(c.Totals)
	if date.After(w.EndDate) {
		w.EndDate = date
	}
	if date.Before(w.StartDate) {
		w.StartDate = date
		w.StartWeekday = date.Weekday()
	}
}

type MonthlyRollup struct {
	Email       string
	MonthNumber int
	// Year the bucket currently holds. Month buckets are keyed by month number
	// only, so a bucket left from an earlier year is reset before reuse.
	Year int
	Totals
	Version int64
}

// Apply adds c for the given year. A bucket still holding an older year starts
// over. A bucket already holding a newer year is left untouched and Apply
// reports false; the entry then counts only in its daily, weekly and yearly
// rollups.
func (m *MonthlyRollup) Apply(c Contribution, year int) bool {
	if year < m.Year {
		return false
	}
	if year > m.Year {
		m.Year = year
		m.Totals = Totals{}
	}
	m.Totals = m.Totals.Plus(c.Totals)
	return true
}

type YearlyRollup struct {
	Email string
	Year  int
	Totals
	Version int64
}

func (y *YearlyRollup) Apply(c Contribution) {
	y.Totals = y.Totals.Plus(c.Totals)
}

// AppliedEntry records an entry already folded into the rollups, keyed by its
// deterministic id. A resubmitted entry finds this record and is skipped.
type AppliedEntry struct {
	ID         string
	Email      string
	Date       time.Time
	ClockIn    time.Time
	ClockOut   time.Time
	WeekNumber int
	TotalHours float64
	Totals
	CreatedAt time.Time
}
