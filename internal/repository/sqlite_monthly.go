package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/shiftledger/internal/db"
	"github.com/alexanderramin/shiftledger/internal/domain"
)

// SQLiteMonthlyRollupRepo implements MonthlyRollupRepo using a SQLite database.
type SQLiteMonthlyRollupRepo struct {
	db db.DBTX
}

func NewSQLiteMonthlyRollupRepo(conn db.DBTX) *SQLiteMonthlyRollupRepo {
	return &SQLiteMonthlyRollupRepo{db: conn}
}

func (r *SQLiteMonthlyRollupRepo) Get(ctx context.Context, email string, month int) (*domain.MonthlyRollup, error) {
	query := `SELECT email, month_number, year, legal_hours, cash_hours, legal_pay, cash_pay, version
		FROM monthly_rollups WHERE email = ? AND month_number = ?`

	var m domain.MonthlyRollup
	err := r.db.QueryRowContext(ctx, query, email, month).Scan(
		&m.Email, &m.MonthNumber, &m.Year, &m.LegalHours, &m.CashHours, &m.LegalPay, &m.CashPay, &m.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("monthly rollup %d: %w", month, ErrNotFound)
		}
		return nil, sqliteReadErr("scanning monthly rollup", err)
	}
	return &m, nil
}

func (r *SQLiteMonthlyRollupRepo) Save(ctx context.Context, m *domain.MonthlyRollup) error {
	if m.Version == 0 {
		query := `INSERT INTO monthly_rollups (email, month_number, year,
			legal_hours, cash_hours, legal_pay, cash_pay, version, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?)`
		_, err := r.db.ExecContext(ctx, query,
			m.Email, m.MonthNumber, m.Year, m.LegalHours, m.CashHours, m.LegalPay, m.CashPay, nowUTC(),
		)
		if err != nil {
			return sqliteWriteErr("inserting monthly rollup", err)
		}
		m.Version = 1
		return nil
	}

	query := `UPDATE monthly_rollups SET
		year = ?, legal_hours = ?, cash_hours = ?, legal_pay = ?, cash_pay = ?,
		version = version + 1, updated_at = ?
		WHERE email = ? AND month_number = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query,
		m.Year, m.LegalHours, m.CashHours, m.LegalPay, m.CashPay, nowUTC(),
		m.Email, m.MonthNumber, m.Version,
	)
	if err != nil {
		return sqliteWriteErr("updating monthly rollup", err)
	}
	if err := checkSwapped(res, "updating monthly rollup"); err != nil {
		return err
	}
	m.Version++
	return nil
}

func (r *SQLiteMonthlyRollupRepo) Delete(ctx context.Context, email string, month int) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM monthly_rollups WHERE email = ? AND month_number = ?`, email, month)
	if err != nil {
		return 0, sqliteWriteErr("deleting monthly rollup", err)
	}
	return rowsDeleted(res, "deleting monthly rollup")
}
