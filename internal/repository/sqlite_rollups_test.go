package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
	"github.com/alexanderramin/shiftledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRollupDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	database := testutil.NewTestDB(t)
	p := testutil.NewTestProfile()
	require.NoError(t, NewSQLiteUserProfileRepo(database).Create(context.Background(), p))
	return database, p.Email
}

func newDaily(email string, d time.Time, hours float64) *domain.DailyRollup {
	return &domain.DailyRollup{
		Email:       email,
		Date:        d,
		DayKey:      d.Format("02012006"),
		MonthNumber: int(d.Month()),
		TotalHours:  hours,
		Totals:      domain.Totals{LegalHours: hours, LegalPay: hours * 20},
	}
}

func TestDailyRollupRepo_SaveAccumulatesWithVersion(t *testing.T) {
	database, email := setupRollupDB(t)
	repo := NewSQLiteDailyRollupRepo(database)
	ctx := context.Background()

	d := newDaily(email, testutil.Date(2024, 3, 5), 4)
	require.NoError(t, repo.Save(ctx, d))
	assert.Equal(t, int64(1), d.Version)

	got, err := repo.Get(ctx, email, 3, "05032024")
	require.NoError(t, err)
	got.Apply(domain.Contribution{TotalHours: 2, Totals: domain.Totals{CashHours: 2, CashPay: 30}})
	require.NoError(t, repo.Save(ctx, got))
	assert.Equal(t, int64(2), got.Version)

	again, err := repo.Get(ctx, email, 3, "05032024")
	require.NoError(t, err)
	assert.Equal(t, 6.0, again.TotalHours)
	assert.Equal(t, 4.0, again.LegalHours)
	assert.Equal(t, 2.0, again.CashHours)
	assert.Equal(t, 110.0, again.Pay())
	assert.Equal(t, testutil.Date(2024, 3, 5), again.Date)
}

func TestDailyRollupRepo_Save_StaleVersionConflicts(t *testing.T) {
	database, email := setupRollupDB(t)
	repo := NewSQLiteDailyRollupRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newDaily(email, testutil.Date(2024, 3, 5), 4)))

	a, err := repo.Get(ctx, email, 3, "05032024")
	require.NoError(t, err)
	b, err := repo.Get(ctx, email, 3, "05032024")
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, a))
	assert.ErrorIs(t, repo.Save(ctx, b), ErrConflict)

	// A second insert of the same key also loses.
	assert.ErrorIs(t, repo.Save(ctx, newDaily(email, testutil.Date(2024, 3, 5), 1)), domain.ErrWriteConflict)
}

func TestDailyRollupRepo_GetNotFound(t *testing.T) {
	database, email := setupRollupDB(t)
	_, err := NewSQLiteDailyRollupRepo(database).Get(context.Background(), email, 3, "05032024")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDailyRollupRepo_ListRange(t *testing.T) {
	database, email := setupRollupDB(t)
	repo := NewSQLiteDailyRollupRepo(database)
	ctx := context.Background()

	for _, day := range []int{1, 9, 10, 15, 31} {
		require.NoError(t, repo.Save(ctx, newDaily(email, testutil.Date(2024, 3, day), float64(day))))
	}
	require.NoError(t, repo.Save(ctx, newDaily(email, testutil.Date(2024, 4, 10), 1)))

	got, err := repo.ListRange(ctx, email, 3, "09032024", "15032024")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "09032024", got[0].DayKey)
	assert.Equal(t, "10032024", got[1].DayKey)
	assert.Equal(t, "15032024", got[2].DayKey)

	whole, err := repo.ListRange(ctx, email, 3, "01032024", "31032024")
	require.NoError(t, err)
	assert.Len(t, whole, 5, "range stays within the month bucket")
}

func TestDailyRollupRepo_DeleteMonth(t *testing.T) {
	database, email := setupRollupDB(t)
	repo := NewSQLiteDailyRollupRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newDaily(email, testutil.Date(2024, 3, 1), 1)))
	require.NoError(t, repo.Save(ctx, newDaily(email, testutil.Date(2024, 3, 2), 1)))
	require.NoError(t, repo.Save(ctx, newDaily(email, testutil.Date(2024, 4, 1), 1)))

	n, err := repo.DeleteMonth(ctx, email, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.DeleteMonth(ctx, email, 3)
	require.NoError(t, err, "deleting an empty bucket is not an error")
	assert.Zero(t, n)

	_, err = repo.Get(ctx, email, 4, "01042024")
	assert.NoError(t, err)
}

func TestWeeklyRollupRepo_SaveGetDelete(t *testing.T) {
	database, email := setupRollupDB(t)
	repo := NewSQLiteWeeklyRollupRepo(database)
	ctx := context.Background()

	start := testutil.Date(2024, 1, 15)
	w := &domain.WeeklyRollup{
		Email:        email,
		WeekNumber:   3,
		StartDate:    start,
		EndDate:      start,
		StartWeekday: start.Weekday(),
		Totals:       domain.Totals{LegalHours: 8, LegalPay: 160},
	}
	require.NoError(t, repo.Save(ctx, w))

	got, err := repo.Get(ctx, email, 3)
	require.NoError(t, err)
	got.Apply(domain.Contribution{Totals: domain.Totals{LegalHours: 4, LegalPay: 80}}, testutil.Date(2024, 1, 17))
	require.NoError(t, repo.Save(ctx, got))

	got, err = repo.Get(ctx, email, 3)
	require.NoError(t, err)
	assert.Equal(t, 12.0, got.LegalHours)
	assert.Equal(t, start, got.StartDate)
	assert.Equal(t, testutil.Date(2024, 1, 17), got.EndDate)
	assert.Equal(t, time.Monday, got.StartWeekday)
	assert.Equal(t, int64(2), got.Version)

	stale := *got
	stale.Version = 1
	assert.ErrorIs(t, repo.Save(ctx, &stale), ErrConflict)

	n, err := repo.Delete(ctx, email, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = repo.Get(ctx, email, 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMonthlyRollupRepo_SaveGetDelete(t *testing.T) {
	database, email := setupRollupDB(t)
	repo := NewSQLiteMonthlyRollupRepo(database)
	ctx := context.Background()

	m := &domain.MonthlyRollup{Email: email, MonthNumber: 3}
	m.Apply(domain.Contribution{Totals: domain.Totals{LegalHours: 5, LegalPay: 100}}, 2024)
	require.NoError(t, repo.Save(ctx, m))

	got, err := repo.Get(ctx, email, 3)
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year)
	assert.Equal(t, 5.0, got.LegalHours)

	got.Apply(domain.Contribution{Totals: domain.Totals{LegalHours: 1, LegalPay: 20}}, 2025)
	require.NoError(t, repo.Save(ctx, got))
	got, err = repo.Get(ctx, email, 3)
	require.NoError(t, err)
	assert.Equal(t, 2025, got.Year)
	assert.Equal(t, 1.0, got.LegalHours, "a bucket from an earlier year starts over")

	n, err := repo.Delete(ctx, email, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = repo.Delete(ctx, email, 3)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestYearlyRollupRepo_SaveGetDelete(t *testing.T) {
	database, email := setupRollupDB(t)
	repo := NewSQLiteYearlyRollupRepo(database)
	ctx := context.Background()

	y := &domain.YearlyRollup{Email: email, Year: 2024}
	y.Apply(domain.Contribution{Totals: domain.Totals{LegalHours: 40, CashHours: 5, LegalPay: 800, CashPay: 75}})
	require.NoError(t, repo.Save(ctx, y))

	got, err := repo.Get(ctx, email, 2024)
	require.NoError(t, err)
	assert.Equal(t, 45.0, got.Hours())
	assert.Equal(t, 875.0, got.Pay())

	_, err = repo.Get(ctx, email, 2023)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := repo.Delete(ctx, email, 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
