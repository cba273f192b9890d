package service

import (
	"context"
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
)

// LedgerService records time entries into the rollups and enforces retention.
type LedgerService interface {
	// RecordEntry folds one entry into the daily, weekly, monthly and yearly
	// rollups and prunes expired buckets, all in one transaction. A
	// resubmitted entry returns the committed result with Duplicate set.
	RecordEntry(ctx context.Context, user domain.UserContext, entry domain.TimeEntry) (*RecordResult, error)
	// Sweep prunes every anchored profile as of now.
	Sweep(ctx context.Context, now time.Time) (*SweepResult, error)
}

type ProfileService interface {
	Register(ctx context.Context, user domain.UserContext, settings ProfileSettings) (*domain.UserProfile, error)
	Get(ctx context.Context, user domain.UserContext) (*domain.UserProfile, error)
	UpdateRates(ctx context.Context, user domain.UserContext, legalRate, cashRate float64) (*domain.UserProfile, error)
	UpdateWeeklyLimit(ctx context.Context, user domain.UserContext, hours float64) (*domain.UserProfile, error)
}

// SummaryService reads rollups back. Absent rollups read as zero totals.
type SummaryService interface {
	Day(ctx context.Context, user domain.UserContext, date time.Time) (*domain.DailyRollup, error)
	DayRange(ctx context.Context, user domain.UserContext, from, to time.Time) ([]*domain.DailyRollup, error)
	Week(ctx context.Context, user domain.UserContext, week int) (*domain.WeeklyRollup, error)
	Month(ctx context.Context, user domain.UserContext, year int, month time.Month) (*domain.MonthlyRollup, error)
	Year(ctx context.Context, user domain.UserContext, year int) (*domain.YearlyRollup, error)
	WeekFromDays(ctx context.Context, user domain.UserContext, weekStart time.Time) (*PeriodSummary, error)
	YearFromDays(ctx context.Context, user domain.UserContext, year int) (*PeriodSummary, error)
	Dashboard(ctx context.Context, user domain.UserContext, now time.Time) (*Dashboard, error)
}

// RecordResult is the committed contribution of one entry.
type RecordResult struct {
	EntryID    string
	Email      string
	Date       time.Time
	WeekNumber int
	TotalHours float64
	domain.Totals
	// Duplicate is set when the entry had already been committed and this
	// call changed nothing.
	Duplicate bool
	Pruned    PruneResult
}

// PruneResult counts deleted records per granularity.
type PruneResult struct {
	Daily   int64
	Weekly  int64
	Monthly int64
	Yearly  int64
	Entries int64
}

func (p PruneResult) Total() int64 {
	return p.Daily + p.Weekly + p.Monthly + p.Yearly + p.Entries
}

func (p PruneResult) plus(o PruneResult) PruneResult {
	return PruneResult{
		Daily:   p.Daily + o.Daily,
		Weekly:  p.Weekly + o.Weekly,
		Monthly: p.Monthly + o.Monthly,
		Yearly:  p.Yearly + o.Yearly,
		Entries: p.Entries + o.Entries,
	}
}

type SweepResult struct {
	Users   int
	Skipped int
	Failed  int
	Pruned  PruneResult
}

// ProfileSettings are the caller-editable profile fields.
type ProfileSettings struct {
	LegalRate             float64
	CashRate              float64
	WeeklyLegalHoursLimit float64
}

// PeriodSummary totals the daily rollups between From and To inclusive.
type PeriodSummary struct {
	From       time.Time
	To         time.Time
	Days       []*domain.DailyRollup
	TotalHours float64
	domain.Totals
}

type Dashboard struct {
	Profile *domain.UserProfile
	// WeekNumber is zero until the first entry anchors the week clock.
	WeekNumber int
	// WeekStart and WeekEnd bound the current week on the anchor's clock.
	WeekStart time.Time
	WeekEnd   time.Time
	Today     *domain.DailyRollup
	Week      *domain.WeeklyRollup
	Month     *domain.MonthlyRollup
	Year      *domain.YearlyRollup
}
