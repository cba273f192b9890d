package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/shiftledger/internal/db"
	"github.com/alexanderramin/shiftledger/internal/domain"
)

// SQLiteStore is a Store over one SQLite database. Transactions go through
// the given UnitOfWork so tests can inject failures.
type SQLiteStore struct {
	sqliteLedger
	database *sql.DB
	uow      db.UnitOfWork
}

func NewSQLiteStore(database *sql.DB, uow db.UnitOfWork) *SQLiteStore {
	return &SQLiteStore{sqliteLedger: sqliteLedger{conn: database}, database: database, uow: uow}
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.database.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// WithinTx runs fn in one SQLite transaction. A lock that cannot be taken
// within the busy timeout is reported as domain.ErrStoreUnavailable.
func (s *SQLiteStore) WithinTx(ctx context.Context, fn func(ctx context.Context, l Ledger) error) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, sqliteLedger{conn: tx})
	})
	if err != nil && db.IsBusy(err) && !errors.Is(err, domain.ErrStoreUnavailable) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return err
}

// sqliteLedger builds repositories bound to one connection or transaction.
type sqliteLedger struct {
	conn db.DBTX
}

func (l sqliteLedger) Profiles() UserProfileRepo { return NewSQLiteUserProfileRepo(l.conn) }
func (l sqliteLedger) Days() DailyRollupRepo     { return NewSQLiteDailyRollupRepo(l.conn) }
func (l sqliteLedger) Weeks() WeeklyRollupRepo   { return NewSQLiteWeeklyRollupRepo(l.conn) }
func (l sqliteLedger) Months() MonthlyRollupRepo { return NewSQLiteMonthlyRollupRepo(l.conn) }
func (l sqliteLedger) Years() YearlyRollupRepo   { return NewSQLiteYearlyRollupRepo(l.conn) }
func (l sqliteLedger) Entries() AppliedEntryRepo { return NewSQLiteAppliedEntryRepo(l.conn) }

var (
	_ Store  = (*SQLiteStore)(nil)
	_ Ledger = sqliteLedger{}
)
