package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/shiftledger/internal/db"
	"github.com/alexanderramin/shiftledger/internal/domain"
)

// SQLiteYearlyRollupRepo implements YearlyRollupRepo using a SQLite database.
type SQLiteYearlyRollupRepo struct {
	db db.DBTX
}

func NewSQLiteYearlyRollupRepo(conn db.DBTX) *SQLiteYearlyRollupRepo {
	return &SQLiteYearlyRollupRepo{db: conn}
}

func (r *SQLiteYearlyRollupRepo) Get(ctx context.Context, email string, year int) (*domain.YearlyRollup, error) {
	query := `SELECT email, year, legal_hours, cash_hours, legal_pay, cash_pay, version
		FROM yearly_rollups WHERE email = ? AND year = ?`

	var y domain.YearlyRollup
	err := r.db.QueryRowContext(ctx, query, email, year).Scan(
		&y.Email, &y.Year, &y.LegalHours, &y.CashHours, &y.LegalPay, &y.CashPay, &y.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("yearly rollup %d: %w", year, ErrNotFound)
		}
		return nil, sqliteReadErr("scanning yearly rollup", err)
	}
	return &y, nil
}

func (r *SQLiteYearlyRollupRepo) Save(ctx context.Context, y *domain.YearlyRollup) error {
	if y.Version == 0 {
		query := `INSERT INTO yearly_rollups (email, year,
			legal_hours, cash_hours, legal_pay, cash_pay, version, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, 1, ?)`
		_, err := r.db.ExecContext(ctx, query,
			y.Email, y.Year, y.LegalHours, y.CashHours, y.LegalPay, y.CashPay, nowUTC(),
		)
		if err != nil {
			return sqliteWriteErr("inserting yearly rollup", err)
		}
		y.Version = 1
		return nil
	}

	query := `UPDATE yearly_rollups SET
		legal_hours = ?, cash_hours = ?, legal_pay = ?, cash_pay = ?,
		version = version + 1, updated_at = ?
		WHERE email = ? AND year = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query,
		y.LegalHours, y.CashHours, y.LegalPay, y.CashPay, nowUTC(),
		y.Email, y.Year, y.Version,
	)
	if err != nil {
		return sqliteWriteErr("updating yearly rollup", err)
	}
	if err := checkSwapped(res, "updating yearly rollup"); err != nil {
		return err
	}
	y.Version++
	return nil
}

func (r *SQLiteYearlyRollupRepo) Delete(ctx context.Context, email string, year int) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM yearly_rollups WHERE email = ? AND year = ?`, email, year)
	if err != nil {
		return 0, sqliteWriteErr("deleting yearly rollup", err)
	}
	return rowsDeleted(res, "deleting yearly rollup")
}
