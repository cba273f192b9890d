package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
	"github.com/alexanderramin/shiftledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMongoTestStore(t *testing.T) *MongoStore {
	t.Helper()
	uri := testutil.StartMongo(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	store, err := NewMongoStore(ctx, uri, fmt.Sprintf("ledger_%d", time.Now().UnixNano()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func TestMongoStore_Integration(t *testing.T) {
	store := newMongoTestStore(t)
	ctx := context.Background()

	p := testutil.NewTestProfile()
	require.NoError(t, store.Profiles().Create(ctx, p))

	t.Run("duplicate profile conflicts", func(t *testing.T) {
		dup := testutil.NewTestProfile(testutil.WithEmail(p.Email))
		assert.ErrorIs(t, store.Profiles().Create(ctx, dup), domain.ErrWriteConflict)
	})

	t.Run("start date set once", func(t *testing.T) {
		got, err := store.Profiles().Get(ctx, p.Email)
		require.NoError(t, err)
		anchor := testutil.Date(2024, 1, 1)
		got.StartDate = &anchor
		require.NoError(t, store.Profiles().Update(ctx, got))

		later := testutil.Date(2024, 2, 1)
		got.StartDate = &later
		require.NoError(t, store.Profiles().Update(ctx, got))

		got, err = store.Profiles().Get(ctx, p.Email)
		require.NoError(t, err)
		require.NotNil(t, got.StartDate)
		assert.True(t, anchor.Equal(*got.StartDate))
	})

	t.Run("transaction commits rollups", func(t *testing.T) {
		err := store.WithinTx(ctx, func(ctx context.Context, l Ledger) error {
			for _, day := range []int{3, 12, 28} {
				d := testutil.Date(2024, 3, day)
				if err := l.Days().Save(ctx, newDaily(p.Email, d, 2)); err != nil {
					return err
				}
			}
			return l.Weeks().Save(ctx, &domain.WeeklyRollup{
				Email: p.Email, WeekNumber: 10, StartDate: testutil.Date(2024, 3, 4), EndDate: testutil.Date(2024, 3, 4),
			})
		})
		require.NoError(t, err)

		days, err := store.Days().ListRange(ctx, p.Email, 3, "01032024", "15032024")
		require.NoError(t, err)
		require.Len(t, days, 2)
		assert.Equal(t, "03032024", days[0].DayKey)

		w, err := store.Weeks().Get(ctx, p.Email, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), w.Version)
	})

	t.Run("failed transaction writes nothing", func(t *testing.T) {
		err := store.WithinTx(ctx, func(ctx context.Context, l Ledger) error {
			if err := l.Years().Save(ctx, &domain.YearlyRollup{Email: p.Email, Year: 1999}); err != nil {
				return err
			}
			return fmt.Errorf("abort")
		})
		require.Error(t, err)
		_, err = store.Years().Get(ctx, p.Email, 1999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		a, err := store.Weeks().Get(ctx, p.Email, 10)
		require.NoError(t, err)
		b := *a
		require.NoError(t, store.Weeks().Save(ctx, a))
		assert.ErrorIs(t, store.Weeks().Save(ctx, &b), ErrConflict)
	})

	t.Run("prune deletes", func(t *testing.T) {
		n, err := store.Days().DeleteMonth(ctx, p.Email, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		n, err = store.Weeks().Delete(ctx, p.Email, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		n, err = store.Months().Delete(ctx, p.Email, 3)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
