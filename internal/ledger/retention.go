package ledger

import (
	"fmt"
)

// RetentionPolicy sets how far back each granularity is kept. A zero
// YearlyYears keeps yearly rollups forever.
type RetentionPolicy struct {
	DailyMonths   int
	WeeklyWeeks   int
	MonthlyMonths int
	YearlyYears   int
}

// DefaultRetention keeps two months of days, seven weeks and every year.
func DefaultRetention() RetentionPolicy {
	return RetentionPolicy{DailyMonths: 2, WeeklyWeeks: 7, MonthlyMonths: 2}
}

// Validate rejects horizons that would wrap onto the current month or week.
func (p RetentionPolicy) Validate() error {
	if p.DailyMonths < 1 || p.DailyMonths > 11 {
		return fmt.Errorf("daily retention must be 1-11 months, got %d", p.DailyMonths)
	}
	if p.MonthlyMonths < 1 || p.MonthlyMonths > 11 {
		return fmt.Errorf("monthly retention must be 1-11 months, got %d", p.MonthlyMonths)
	}
	if p.WeeklyWeeks < 1 {
		return fmt.Errorf("weekly retention must be at least 1 week, got %d", p.WeeklyWeeks)
	}
	if p.YearlyYears < 0 {
		return fmt.Errorf("yearly retention must not be negative, got %d", p.YearlyYears)
	}
	return nil
}

// PruneTargets names the buckets to delete. A zero field means nothing to
// delete at that granularity.
type PruneTargets struct {
	DailyMonth   int
	Week         int
	MonthlyMonth int
	Year         int
}

// Targets computes the expired buckets relative to the current month (1-12),
// week and year. Month arithmetic wraps, so January's two-back is November.
func (p RetentionPolicy) Targets(month, week, year int) PruneTargets {
	t := PruneTargets{
		DailyMonth:   MonthsBack(month, p.DailyMonths),
		MonthlyMonth: MonthsBack(month, p.MonthlyMonths),
	}
	if w := week - p.WeeklyWeeks; w >= 1 {
		t.Week = w
	}
	if p.YearlyYears > 0 {
		t.Year = year - p.YearlyYears
	}
	return t
}

// MonthsBack returns the month number n months before month, wrapping within 1-12.
func MonthsBack(month, n int) int {
	return ((month-1-n)%12+12)%12 + 1
}
