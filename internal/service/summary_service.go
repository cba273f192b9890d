package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
	"github.com/alexanderramin/shiftledger/internal/ledger"
	"github.com/alexanderramin/shiftledger/internal/repository"
)

// maxRangeDays bounds DayRange so one request cannot walk years of buckets.
const maxRangeDays = 366

type summaryService struct {
	store repository.Store
}

func NewSummaryService(store repository.Store) SummaryService {
	return &summaryService{store: store}
}

func (s *summaryService) Day(ctx context.Context, user domain.UserContext, date time.Time) (*domain.DailyRollup, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}
	day := ledger.Day(date)
	key := ledger.DayKey(day)
	d, err := s.store.Days().Get(ctx, user.Email, int(day.Month()), key)
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.DailyRollup{Email: user.Email, Date: day, DayKey: key, MonthNumber: int(day.Month())}, nil
	}
	return d, err
}

// DayRange lists stored daily rollups between from and to inclusive. Each
// month bucket is read with one day-key range query.
func (s *summaryService) DayRange(ctx context.Context, user domain.UserContext, from, to time.Time) ([]*domain.DailyRollup, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}
	from, to = ledger.Day(from), ledger.Day(to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end %s is before start %s",
			domain.ErrInvalidInput, to.Format(domain.DateLayout), from.Format(domain.DateLayout))
	}
	if to.Sub(from).Hours()/24 >= maxRangeDays {
		return nil, fmt.Errorf("%w: range exceeds %d days", domain.ErrInvalidInput, maxRangeDays)
	}

	var out []*domain.DailyRollup
	for first := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC); !first.After(to); first = first.AddDate(0, 1, 0) {
		lo, hi := ledger.MonthBounds(first.Year(), first.Month())
		if first.Before(from) {
			lo = ledger.DayKey(from)
		}
		if first.AddDate(0, 1, -1).After(to) {
			hi = ledger.DayKey(to)
		}
		days, err := s.store.Days().ListRange(ctx, user.Email, int(first.Month()), lo, hi)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", first.Format("2006-01"), err)
		}
		// Day keys lead with the day, so a bucket holding another year's
		// rollups can match the key range. The date check drops those.
		for _, d := range days {
			if d.Date.Year() == first.Year() && !d.Date.Before(from) && !d.Date.After(to) {
				out = append(out, d)
			}
		}
	}
	return out, nil
}

func (s *summaryService) Week(ctx context.Context, user domain.UserContext, week int) (*domain.WeeklyRollup, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if week < 1 {
		return nil, fmt.Errorf("%w: week must be at least 1, got %d", domain.ErrInvalidInput, week)
	}
	w, err := s.store.Weeks().Get(ctx, user.Email, week)
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.WeeklyRollup{Email: user.Email, WeekNumber: week}, nil
	}
	return w, err
}

// Month returns the bucket for month only while it still holds year.
func (s *summaryService) Month(ctx context.Context, user domain.UserContext, year int, month time.Month) (*domain.MonthlyRollup, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month must be 1-12, got %d", domain.ErrInvalidInput, month)
	}
	m, err := s.store.Months().Get(ctx, user.Email, int(month))
	if errors.Is(err, repository.ErrNotFound) || (err == nil && m.Year != year) {
		return &domain.MonthlyRollup{Email: user.Email, MonthNumber: int(month), Year: year}, nil
	}
	return m, err
}

func (s *summaryService) Year(ctx context.Context, user domain.UserContext, year int) (*domain.YearlyRollup, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}
	y, err := s.store.Years().Get(ctx, user.Email, year)
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.YearlyRollup{Email: user.Email, Year: year}, nil
	}
	return y, err
}

// WeekFromDays totals the seven daily rollups starting at weekStart. Unlike
// Week it does not depend on the week anchor.
func (s *summaryService) WeekFromDays(ctx context.Context, user domain.UserContext, weekStart time.Time) (*PeriodSummary, error) {
	from := ledger.Day(weekStart)
	return s.period(ctx, user, from, from.AddDate(0, 0, 6))
}

// YearFromDays totals the year's daily rollups. Days already pruned are not
// counted; Year reads the retained yearly rollup.
func (s *summaryService) YearFromDays(ctx context.Context, user domain.UserContext, year int) (*PeriodSummary, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return s.period(ctx, user, from, from.AddDate(1, 0, -1))
}

func (s *summaryService) period(ctx context.Context, user domain.UserContext, from, to time.Time) (*PeriodSummary, error) {
	days, err := s.DayRange(ctx, user, from, to)
	if err != nil {
		return nil, err
	}
	sum := &PeriodSummary{From: from, To: to, Days: days}
	for _, d := range days {
		sum.TotalHours += d.TotalHours
		sum.Totals = sum.Totals.Plus(d.Totals)
	}
	return sum, nil
}

func (s *summaryService) Dashboard(ctx context.Context, user domain.UserContext, now time.Time) (*Dashboard, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}
	profile, err := loadProfile(ctx, s.store, user)
	if err != nil {
		return nil, err
	}

	day := ledger.Day(now)
	dash := &Dashboard{Profile: profile}
	if dash.Today, err = s.Day(ctx, user, day); err != nil {
		return nil, err
	}
	if profile.StartDate != nil {
		if week := ledger.WeekNumber(*profile.StartDate, day); week >= 1 {
			dash.WeekNumber = week
			dash.WeekStart = ledger.WeekStart(*profile.StartDate, week)
			dash.WeekEnd = dash.WeekStart.AddDate(0, 0, 6)
			if dash.Week, err = s.Week(ctx, user, week); err != nil {
				return nil, err
			}
		}
	}
	if dash.Month, err = s.Month(ctx, user, day.Year(), day.Month()); err != nil {
		return nil, err
	}
	if dash.Year, err = s.Year(ctx, user, day.Year()); err != nil {
		return nil, err
	}
	return dash, nil
}
