package repository

import (
	"context"

	"github.com/alexanderramin/shiftledger/internal/domain"
)

// Save methods follow one contract: a record with Version 0 is inserted and
// fails with ErrConflict if the key exists; any other record is written only
// if the stored version still equals Version, otherwise ErrConflict. On
// success Version is advanced to the stored value.

type UserProfileRepo interface {
	Create(ctx context.Context, p *domain.UserProfile) error
	Get(ctx context.Context, email string) (*domain.UserProfile, error)
	Update(ctx context.Context, p *domain.UserProfile) error
	List(ctx context.Context) ([]*domain.UserProfile, error)
}

type DailyRollupRepo interface {
	Get(ctx context.Context, email string, month int, dayKey string) (*domain.DailyRollup, error)
	// ListRange returns the month bucket's rollups with from <= day key <= to,
	// ordered by day key.
	ListRange(ctx context.Context, email string, month int, from, to string) ([]*domain.DailyRollup, error)
	Save(ctx context.Context, d *domain.DailyRollup) error
	// DeleteMonth drops every daily rollup stored under the month bucket.
	DeleteMonth(ctx context.Context, email string, month int) (int64, error)
}

type WeeklyRollupRepo interface {
	Get(ctx context.Context, email string, week int) (*domain.WeeklyRollup, error)
	Save(ctx context.Context, w *domain.WeeklyRollup) error
	Delete(ctx context.Context, email string, week int) (int64, error)
}

type MonthlyRollupRepo interface {
	Get(ctx context.Context, email string, month int) (*domain.MonthlyRollup, error)
	Save(ctx context.Context, m *domain.MonthlyRollup) error
	Delete(ctx context.Context, email string, month int) (int64, error)
}

type YearlyRollupRepo interface {
	Get(ctx context.Context, email string, year int) (*domain.YearlyRollup, error)
	Save(ctx context.Context, y *domain.YearlyRollup) error
	Delete(ctx context.Context, email string, year int) (int64, error)
}

type AppliedEntryRepo interface {
	Get(ctx context.Context, id string) (*domain.AppliedEntry, error)
	Create(ctx context.Context, e *domain.AppliedEntry) error
	// DeleteYear forgets applied entries dated in year.
	DeleteYear(ctx context.Context, email string, year int) (int64, error)
}

// Ledger groups the repositories of one store. Inside WithinTx every
// repository it returns takes part in the same transaction.
type Ledger interface {
	Profiles() UserProfileRepo
	Days() DailyRollupRepo
	Weeks() WeeklyRollupRepo
	Months() MonthlyRollupRepo
	Years() YearlyRollupRepo
	Entries() AppliedEntryRepo
}

// Store is a Ledger whose reads run outside any transaction, plus a way to
// run a function atomically. Nothing fn writes is visible unless it returns nil.
type Store interface {
	Ledger
	WithinTx(ctx context.Context, fn func(ctx context.Context, l Ledger) error) error
}
