package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/shiftledger/internal/db"
	"github.com/alexanderramin/shiftledger/internal/domain"
)

// SQLiteDailyRollupRepo implements DailyRollupRepo using a SQLite database.
type SQLiteDailyRollupRepo struct {
	db db.DBTX
}

func NewSQLiteDailyRollupRepo(conn db.DBTX) *SQLiteDailyRollupRepo {
	return &SQLiteDailyRollupRepo{db: conn}
}

const dailyColumns = `email, month_number, day_key, date, total_hours,
	legal_hours, cash_hours, legal_pay, cash_pay, version`

func (r *SQLiteDailyRollupRepo) Get(ctx context.Context, email string, month int, dayKey string) (*domain.DailyRollup, error) {
	query := `SELECT ` + dailyColumns + ` FROM daily_rollups
		WHERE email = ? AND month_number = ? AND day_key = ?`
	d, err := scanDaily(r.db.QueryRowContext(ctx, query, email, month, dayKey))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("daily rollup %s: %w", dayKey, ErrNotFound)
	}
	return d, err
}

func (r *SQLiteDailyRollupRepo) ListRange(ctx context.Context, email string, month int, from, to string) ([]*domain.DailyRollup, error) {
	query := `SELECT ` + dailyColumns + ` FROM daily_rollups
		WHERE email = ? AND month_number = ? AND day_key >= ? AND day_key <= ?
		ORDER BY day_key`
	rows, err := r.db.QueryContext(ctx, query, email, month, from, to)
	if err != nil {
		return nil, sqliteReadErr("listing daily rollups", err)
	}
	defer rows.Close()

	var out []*domain.DailyRollup
	for rows.Next() {
		d, err := scanDaily(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, sqliteReadErr("iterating daily rollups", err)
	}
	return out, nil
}

func (r *SQLiteDailyRollupRepo) Save(ctx context.Context, d *domain.DailyRollup) error {
	if d.Version == 0 {
		query := `INSERT INTO daily_rollups (` + dailyColumns + `, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`
		_, err := r.db.ExecContext(ctx, query,
			d.Email, d.MonthNumber, d.DayKey, d.Date.Format(dateLayout), d.TotalHours,
			d.LegalHours, d.CashHours, d.LegalPay, d.CashPay, nowUTC(),
		)
		if err != nil {
			return sqliteWriteErr("inserting daily rollup", err)
		}
		d.Version = 1
		return nil
	}

	query := `UPDATE daily_rollups SET
		total_hours = ?, legal_hours = ?, cash_hours = ?, legal_pay = ?, cash_pay = ?,
		version = version + 1, updated_at = ?
		WHERE email = ? AND month_number = ? AND day_key = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query,
		d.TotalHours, d.LegalHours, d.CashHours, d.LegalPay, d.CashPay, nowUTC(),
		d.Email, d.MonthNumber, d.DayKey, d.Version,
	)
	if err != nil {
		return sqliteWriteErr("updating daily rollup", err)
	}
	if err := checkSwapped(res, "updating daily rollup"); err != nil {
		return err
	}
	d.Version++
	return nil
}

func (r *SQLiteDailyRollupRepo) DeleteMonth(ctx context.Context, email string, month int) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM daily_rollups WHERE email = ? AND month_number = ?`, email, month)
	if err != nil {
		return 0, sqliteWriteErr("deleting daily rollups", err)
	}
	return rowsDeleted(res, "deleting daily rollups")
}

// scanDaily returns sql.ErrNoRows unwrapped so Get can attach the key.
func scanDaily(row rowScanner) (*domain.DailyRollup, error) {
	var d domain.DailyRollup
	var date string
	err := row.Scan(
		&d.Email, &d.MonthNumber, &d.DayKey, &date, &d.TotalHours,
		&d.LegalHours, &d.CashHours, &d.LegalPay, &d.CashPay, &d.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, sqliteReadErr("scanning daily rollup", err)
	}
	if d.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	return &d, nil
}
