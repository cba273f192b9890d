package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/shiftledger/internal/db"
	"github.com/alexanderramin/shiftledger/internal/domain"
)

// SQLiteAppliedEntryRepo implements AppliedEntryRepo using a SQLite database.
type SQLiteAppliedEntryRepo struct {
	db db.DBTX
}

func NewSQLiteAppliedEntryRepo(conn db.DBTX) *SQLiteAppliedEntryRepo {
	return &SQLiteAppliedEntryRepo{db: conn}
}

func (r *SQLiteAppliedEntryRepo) Get(ctx context.Context, id string) (*domain.AppliedEntry, error) {
	query := `SELECT id, email, date, clock_in, clock_out, week_number,
		total_hours, legal_hours, cash_hours, legal_pay, cash_pay, created_at
		FROM applied_entries WHERE id = ?`

	var e domain.AppliedEntry
	var date, clockIn, clockOut, createdAt string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Email, &date, &clockIn, &clockOut, &e.WeekNumber,
		&e.TotalHours, &e.LegalHours, &e.CashHours, &e.LegalPay, &e.CashPay, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("applied entry: %w", ErrNotFound)
		}
		return nil, sqliteReadErr("scanning applied entry", err)
	}

	if e.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	if e.ClockIn, err = time.Parse(instantLayout, clockIn); err != nil {
		return nil, fmt.Errorf("parsing clock in: %w", err)
	}
	if e.ClockOut, err = time.Parse(instantLayout, clockOut); err != nil {
		return nil, fmt.Errorf("parsing clock out: %w", err)
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	return &e, nil
}

func (r *SQLiteAppliedEntryRepo) Create(ctx context.Context, e *domain.AppliedEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO applied_entries (id, email, date, clock_in, clock_out, week_number,
		total_hours, legal_hours, cash_hours, legal_pay, cash_pay, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.Email,
		e.Date.Format(dateLayout),
		e.ClockIn.Format(instantLayout),
		e.ClockOut.Format(instantLayout),
		e.WeekNumber,
		e.TotalHours,
		e.LegalHours,
		e.CashHours,
		e.LegalPay,
		e.CashPay,
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return sqliteWriteErr("inserting applied entry", err)
	}
	return nil
}

func (r *SQLiteAppliedEntryRepo) DeleteYear(ctx context.Context, email string, year int) (int64, error) {
	from := fmt.Sprintf("%04d-01-01", year)
	to := fmt.Sprintf("%04d-12-31", year)
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM applied_entries WHERE email = ? AND date >= ? AND date <= ?`, email, from, to)
	if err != nil {
		return 0, sqliteWriteErr("deleting applied entries", err)
	}
	return rowsDeleted(res, "deleting applied entries")
}
