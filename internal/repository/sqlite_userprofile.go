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

// SQLiteUserProfileRepo implements UserProfileRepo using a SQLite database.
type SQLiteUserProfileRepo struct {
	db db.DBTX
}

// NewSQLiteUserProfileRepo creates a new SQLiteUserProfileRepo.
func NewSQLiteUserProfileRepo(conn db.DBTX) *SQLiteUserProfileRepo {
	return &SQLiteUserProfileRepo{db: conn}
}

const profileColumns = `email, legal_rate, cash_rate, weekly_legal_hours_limit,
	start_date, week_number, version, created_at, updated_at`

func (r *SQLiteUserProfileRepo) Create(ctx context.Context, p *domain.UserProfile) error {
	now := nowUTC()
	query := `INSERT INTO user_profiles (` + profileColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.Email,
		p.LegalRate,
		p.CashRate,
		p.WeeklyLegalHoursLimit,
		nullableDateToString(p.StartDate),
		p.WeekNumber,
		now,
		now,
	)
	if err != nil {
		return sqliteWriteErr("inserting user profile", err)
	}
	p.Version = 1
	return nil
}

func (r *SQLiteUserProfileRepo) Get(ctx context.Context, email string) (*domain.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE email = ?`
	return r.scanProfile(r.db.QueryRowContext(ctx, query, email))
}

// Update writes rates, limit and the cached week number. The start date is
// written only while the stored one is NULL, so an anchor never moves.
func (r *SQLiteUserProfileRepo) Update(ctx context.Context, p *domain.UserProfile) error {
	query := `UPDATE user_profiles SET
		legal_rate = ?, cash_rate = ?, weekly_legal_hours_limit = ?,
		start_date = COALESCE(start_date, ?), week_number = ?,
		version = version + 1, updated_at = ?
		WHERE email = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.LegalRate,
		p.CashRate,
		p.WeeklyLegalHoursLimit,
		nullableDateToString(p.StartDate),
		p.WeekNumber,
		nowUTC(),
		p.Email,
		p.Version,
	)
	if err != nil {
		return sqliteWriteErr("updating user profile", err)
	}
	if err := checkSwapped(res, "updating user profile"); err != nil {
		return err
	}
	p.Version++
	return nil
}

func (r *SQLiteUserProfileRepo) List(ctx context.Context) ([]*domain.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles ORDER BY email`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, sqliteReadErr("listing user profiles", err)
	}
	defer rows.Close()

	var profiles []*domain.UserProfile
	for rows.Next() {
		p, err := r.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, sqliteReadErr("iterating user profiles", err)
	}
	return profiles, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteUserProfileRepo) scanProfile(row rowScanner) (*domain.UserProfile, error) {
	var p domain.UserProfile
	var startDate sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&p.Email,
		&p.LegalRate,
		&p.CashRate,
		&p.WeeklyLegalHoursLimit,
		&startDate,
		&p.WeekNumber,
		&p.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user profile: %w", ErrNotFound)
		}
		return nil, sqliteReadErr("scanning user profile", err)
	}

	p.StartDate = parseNullableDate(startDate)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}
