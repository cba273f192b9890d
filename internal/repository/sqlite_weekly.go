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

// SQLiteWeeklyRollupRepo implements WeeklyRollupRepo using a SQLite database.
type SQLiteWeeklyRollupRepo struct {
	db db.DBTX
}

func NewSQLiteWeeklyRollupRepo(conn db.DBTX) *SQLiteWeeklyRollupRepo {
	return &SQLiteWeeklyRollupRepo{db: conn}
}

func (r *SQLiteWeeklyRollupRepo) Get(ctx context.Context, email string, week int) (*domain.WeeklyRollup, error) {
	query := `SELECT email, week_number, start_date, end_date, start_weekday,
		legal_hours, cash_hours, legal_pay, cash_pay, version
		FROM weekly_rollups WHERE email = ? AND week_number = ?`

	var w domain.WeeklyRollup
	var start, end string
	var weekday int
	err := r.db.QueryRowContext(ctx, query, email, week).Scan(
		&w.Email, &w.WeekNumber, &start, &end, &weekday,
		&w.LegalHours, &w.CashHours, &w.LegalPay, &w.CashPay, &w.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("weekly rollup %d: %w", week, ErrNotFound)
		}
		return nil, sqliteReadErr("scanning weekly rollup", err)
	}
	if w.StartDate, err = parseDate(start); err != nil {
		return nil, err
	}
	if w.EndDate, err = parseDate(end); err != nil {
		return nil, err
	}
	w.StartWeekday = time.Weekday(weekday)
	return &w, nil
}

func (r *SQLiteWeeklyRollupRepo) Save(ctx context.Context, w *domain.WeeklyRollup) error {
	if w.Version == 0 {
		query := `INSERT INTO weekly_rollups (email, week_number, start_date, end_date, start_weekday,
			legal_hours, cash_hours, legal_pay, cash_pay, version, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`
		_, err := r.db.ExecContext(ctx, query,
			w.Email, w.WeekNumber, w.StartDate.Format(dateLayout), w.EndDate.Format(dateLayout), int(w.StartWeekday),
			w.LegalHours, w.CashHours, w.LegalPay, w.CashPay, nowUTC(),
		)
		if err != nil {
			return sqliteWriteErr("inserting weekly rollup", err)
		}
		w.Version = 1
		return nil
	}

	query := `UPDATE weekly_rollups SET
		start_date = ?, end_date = ?, start_weekday = ?,
		legal_hours = ?, cash_hours = ?, legal_pay = ?, cash_pay = ?,
		version = version + 1, updated_at = ?
		WHERE email = ? AND week_number = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query,
		w.StartDate.Format(dateLayout), w.EndDate.Format(dateLayout), int(w.StartWeekday),
		w.LegalHours, w.CashHours, w.LegalPay, w.CashPay, nowUTC(),
		w.Email, w.WeekNumber, w.Version,
	)
	if err != nil {
		return sqliteWriteErr("updating weekly rollup", err)
	}
	if err := checkSwapped(res, "updating weekly rollup"); err != nil {
		return err
	}
	w.Version++
	return nil
}

func (r *SQLiteWeeklyRollupRepo) Delete(ctx context.Context, email string, week int) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM weekly_rollups WHERE email = ? AND week_number = ?`, email, week)
	if err != nil {
		return 0, sqliteWriteErr("deleting weekly rollup", err)
	}
	return rowsDeleted(res, "deleting weekly rollup")
}
