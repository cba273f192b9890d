package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
	"github.com/alexanderramin/shiftledger/internal/events"
	"github.com/alexanderramin/shiftledger/internal/ledger"
	"github.com/alexanderramin/shiftledger/internal/repository"
)

// DefaultRecordTimeout bounds one RecordEntry transaction.
const DefaultRecordTimeout = 10 * time.Second

type ledgerService struct {
	store     repository.Store
	retention ledger.RetentionPolicy
	timeout   time.Duration
	events    events.Observer
	observer  UseCaseObserver
	now       func() time.Time
}

type LedgerOption func(*ledgerService)

// WithRecordTimeout overrides DefaultRecordTimeout. Non-positive values are ignored.
func WithRecordTimeout(d time.Duration) LedgerOption {
	return func(s *ledgerService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithRetention(p ledger.RetentionPolicy) LedgerOption {
	return func(s *ledgerService) { s.retention = p }
}

// WithEntryObserver sets who is told about committed entries.
func WithEntryObserver(o events.Observer) LedgerOption {
	return func(s *ledgerService) {
		if o != nil {
			s.events = o
		}
	}
}

func WithUseCaseObserver(observers ...UseCaseObserver) LedgerOption {
	return func(s *ledgerService) { s.observer = useCaseObserverOrNoop(observers) }
}

func WithClock(now func() time.Time) LedgerOption {
	return func(s *ledgerService) { s.now = now }
}

func NewLedgerService(store repository.Store, opts ...LedgerOption) LedgerService {
	s := &ledgerService{
		store:     store,
		retention: ledger.DefaultRetention(),
		timeout:   DefaultRecordTimeout,
		events:    events.NoopObserver{},
		observer:  NoopUseCaseObserver{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ledgerService) RecordEntry(ctx context.Context, user domain.UserContext, entry domain.TimeEntry) (result *RecordResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"email": user.Email}
	defer observe(ctx, s.observer, "record-entry", startedAt, fields, &err)

	if err = user.Validate(); err != nil {
		return nil, err
	}
	entry.Date = ledger.Day(entry.Date)
	fields["date"] = entry.Date.Format(domain.DateLayout)

	// Invalid entries are rejected before the transaction opens.
	var hours float64
	if hours, err = entry.TotalHours(); err != nil {
		return nil, err
	}
	id := ledger.EntryID(user.Email, entry)
	fields["entry_id"] = id

	txCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err = s.store.WithinTx(txCtx, func(ctx context.Context, l repository.Ledger) error {
		r, err := s.apply(ctx, l, user, entry, id, hours)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		err = s.classify(txCtx, fmt.Errorf("recording entry: %w", err))
		return nil, err
	}

	fields["week"] = result.WeekNumber
	fields["duplicate"] = result.Duplicate
	fields["legal_hours"] = result.LegalHours
	fields["cash_hours"] = result.CashHours
	fields["pruned"] = result.Pruned.Total()

	if !result.Duplicate {
		if perr := s.events.EntryRecorded(ctx, s.event(result)); perr != nil {
			fields["publish_error"] = perr.Error()
		}
	}
	return result, nil
}

// apply runs inside the transaction. Every rollup is read, updated in memory,
// and written back under its version check.
func (s *ledgerService) apply(ctx context.Context, l repository.Ledger, user domain.UserContext, entry domain.TimeEntry, id string, hours float64) (*RecordResult, error) {
	prior, err := l.Entries().Get(ctx, id)
	if err == nil {
		return duplicateResult(prior), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	profile, err := loadProfile(ctx, l, user)
	if err != nil {
		return nil, err
	}

	start := profile.AnchorWeek(entry.Date)
	week := ledger.WeekNumber(start, entry.Date)
	if week < 1 {
		return nil, fmt.Errorf("%w: %s is before %s",
			domain.ErrDateBeforeStart, entry.Date.Format(domain.DateLayout), start.Format(domain.DateLayout))
	}
	profile.WeekNumber = week
	if err := l.Profiles().Update(ctx, profile); err != nil {
		return nil, err
	}

	email := user.Email
	weekly, err := l.Weeks().Get(ctx, email, week)
	if errors.Is(err, repository.ErrNotFound) {
		weekly = &domain.WeeklyRollup{
			Email:        email,
			WeekNumber:   week,
			StartDate:    entry.Date,
			EndDate:      entry.Date,
			StartWeekday: entry.Date.Weekday(),
		}
	} else if err != nil {
		return nil, err
	}

	alloc := ledger.SplitHours(hours, profile.WeeklyLegalHoursLimit, weekly.LegalHours)
	c := domain.Contribution{TotalHours: hours, Totals: alloc.Pay(profile.LegalRate, profile.CashRate)}

	month := int(entry.Date.Month())
	year := entry.Date.Year()
	dayKey := ledger.DayKey(entry.Date)

	daily, err := l.Days().Get(ctx, email, month, dayKey)
	if errors.Is(err, repository.ErrNotFound) {
		daily = &domain.DailyRollup{Email: email, Date: entry.Date, DayKey: dayKey, MonthNumber: month}
	} else if err != nil {
		return nil, err
	}
	daily.Apply(c)
	if err := l.Days().Save(ctx, daily); err != nil {
		return nil, err
	}

	weekly.Apply(c, entry.Date)
	if err := l.Weeks().Save(ctx, weekly); err != nil {
		return nil, err
	}

	monthly, err := l.Months().Get(ctx, email, month)
	if errors.Is(err, repository.ErrNotFound) {
		monthly = &domain.MonthlyRollup{Email: email, MonthNumber: month}
	} else if err != nil {
		return nil, err
	}
	if monthly.Apply(c, year) {
		if err := l.Months().Save(ctx, monthly); err != nil {
			return nil, err
		}
	}

	yearly, err := l.Years().Get(ctx, email, year)
	if errors.Is(err, repository.ErrNotFound) {
		yearly = &domain.YearlyRollup{Email: email, Year: year}
	} else if err != nil {
		return nil, err
	}
	yearly.Apply(c)
	if err := l.Years().Save(ctx, yearly); err != nil {
		return nil, err
	}

	pruned, err := prune(ctx, l, email, s.retention.Targets(month, week, year))
	if err != nil {
		return nil, err
	}

	applied := &domain.AppliedEntry{
		ID:         id,
		Email:      email,
		Date:       entry.Date,
		ClockIn:    entry.ClockIn,
		ClockOut:   entry.ClockOut,
		WeekNumber: week,
		TotalHours: hours,
		Totals:     c.Totals,
		CreatedAt:  s.now().UTC(),
	}
	if err := l.Entries().Create(ctx, applied); err != nil {
		return nil, err
	}

	return &RecordResult{
		EntryID:    id,
		Email:      email,
		Date:       entry.Date,
		WeekNumber: week,
		TotalHours: hours,
		Totals:     c.Totals,
		Pruned:     pruned,
	}, nil
}

func (s *ledgerService) Sweep(ctx context.Context, now time.Time) (result *SweepResult, err error) {
	startedAt := time.Now().UTC()
	day := ledger.Day(now)
	fields := map[string]any{"as_of": day.Format(domain.DateLayout)}
	defer observe(ctx, s.observer, "sweep", startedAt, fields, &err)

	profiles, err := s.store.Profiles().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}

	result = &SweepResult{}
	var errs []error
	for _, p := range profiles {
		if p.StartDate == nil {
			result.Skipped++
			continue
		}
		week := ledger.WeekNumber(*p.StartDate, day)
		if week < 1 {
			result.Skipped++
			continue
		}
		targets := s.retention.Targets(int(day.Month()), week, day.Year())

		pruned, perr := s.sweepUser(ctx, p.Email, targets)
		if perr != nil {
			result.Failed++
			errs = append(errs, fmt.Errorf("sweeping %s: %w", p.Email, perr))
			continue
		}
		result.Users++
		result.Pruned = result.Pruned.plus(pruned)
	}

	fields["users"] = result.Users
	fields["skipped"] = result.Skipped
	fields["failed"] = result.Failed
	fields["pruned"] = result.Pruned.Total()
	err = errors.Join(errs...)
	return result, err
}

func (s *ledgerService) sweepUser(ctx context.Context, email string, targets ledger.PruneTargets) (PruneResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var pruned PruneResult
	err := s.store.WithinTx(txCtx, func(ctx context.Context, l repository.Ledger) error {
		var err error
		pruned, err = prune(ctx, l, email, targets)
		return err
	})
	if err != nil {
		return PruneResult{}, s.classify(txCtx, err)
	}
	return pruned, nil
}

// prune deletes the expired buckets. Missing buckets delete nothing.
func prune(ctx context.Context, l repository.Ledger, email string, t ledger.PruneTargets) (PruneResult, error) {
	var r PruneResult
	var err error
	if r.Daily, err = l.Days().DeleteMonth(ctx, email, t.DailyMonth); err != nil {
		return PruneResult{}, fmt.Errorf("pruning daily rollups: %w", err)
	}
	if t.Week > 0 {
		if r.Weekly, err = l.Weeks().Delete(ctx, email, t.Week); err != nil {
			return PruneResult{}, fmt.Errorf("pruning weekly rollup: %w", err)
		}
	}
	if r.Monthly, err = l.Months().Delete(ctx, email, t.MonthlyMonth); err != nil {
		return PruneResult{}, fmt.Errorf("pruning monthly rollup: %w", err)
	}
	if t.Year > 0 {
		if r.Yearly, err = l.Years().Delete(ctx, email, t.Year); err != nil {
			return PruneResult{}, fmt.Errorf("pruning yearly rollup: %w", err)
		}
		if r.Entries, err = l.Entries().DeleteYear(ctx, email, t.Year); err != nil {
			return PruneResult{}, fmt.Errorf("pruning applied entries: %w", err)
		}
	}
	return r, nil
}

// classify marks failures caused by the operation's own deadline as
// domain.ErrTimeout.
func (s *ledgerService) classify(txCtx context.Context, err error) error {
	if errors.Is(txCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, domain.ErrTimeout) {
		return fmt.Errorf("%w after %s: %w", domain.ErrTimeout, s.timeout, err)
	}
	return err
}

func (s *ledgerService) event(r *RecordResult) events.EntryRecorded {
	return events.EntryRecorded{
		EntryID:    r.EntryID,
		Email:      r.Email,
		Date:       r.Date.Format(domain.DateLayout),
		WeekNumber: r.WeekNumber,
		TotalHours: r.TotalHours,
		LegalHours: r.LegalHours,
		CashHours:  r.CashHours,
		LegalPay:   r.LegalPay,
		CashPay:    r.CashPay,
		RecordedAt: s.now().UTC(),
	}
}

func duplicateResult(e *domain.AppliedEntry) *RecordResult {
	return &RecordResult{
		EntryID:    e.ID,
		Email:      e.Email,
		Date:       e.Date,
		WeekNumber: e.WeekNumber,
		TotalHours: e.TotalHours,
		Totals:     e.Totals,
		Duplicate:  true,
	}
}

// loadProfile reads the user's profile, reporting absence as
// domain.ErrMissingUserProfile.
func loadProfile(ctx context.Context, l repository.Ledger, user domain.UserContext) (*domain.UserProfile, error) {
	p, err := l.Profiles().Get(ctx, user.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingUserProfile, user.Email)
	}
	return p, err
}
