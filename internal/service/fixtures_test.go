package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
	"github.com/alexanderramin/shiftledger/internal/repository"
	"github.com/alexanderramin/shiftledger/internal/testutil"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	database := testutil.NewTestDB(t)
	return repository.NewSQLiteStore(database, testutil.NewTestUoW(database))
}

// seedProfile stores a profile and returns the matching user context.
func seedProfile(t *testing.T, store repository.Store, opts ...testutil.ProfileOption) domain.UserContext {
	t.Helper()
	p := testutil.NewTestProfile(opts...)
	require.NoError(t, store.Profiles().Create(context.Background(), p))
	user, err := domain.NewUserContext(p.Email)
	require.NoError(t, err)
	return user
}

func mustEntry(t *testing.T, date, in, out string) domain.TimeEntry {
	t.Helper()
	e, err := domain.ParseTimeEntry(date, in, out)
	require.NoError(t, err)
	return e
}

// rollupSnapshot is every rollup an entry on day touches.
type rollupSnapshot struct {
	Daily   *domain.DailyRollup
	Weekly  *domain.WeeklyRollup
	Monthly *domain.MonthlyRollup
	Yearly  *domain.YearlyRollup
}

func snapshot(t *testing.T, store repository.Store, user domain.UserContext, day time.Time, week int) rollupSnapshot {
	t.Helper()
	ctx := context.Background()
	var s rollupSnapshot
	var err error
	s.Daily, err = store.Days().Get(ctx, user.Email, int(day.Month()), day.Format("02012006"))
	require.NoError(t, err)
	s.Weekly, err = store.Weeks().Get(ctx, user.Email, week)
	require.NoError(t, err)
	s.Monthly, err = store.Months().Get(ctx, user.Email, int(day.Month()))
	require.NoError(t, err)
	s.Yearly, err = store.Years().Get(ctx, user.Email, day.Year())
	require.NoError(t, err)
	return s
}

// recordingUseCaseObserver keeps every event it receives.
type recordingUseCaseObserver struct {
	events []UseCaseEvent
}

func (r *recordingUseCaseObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}
