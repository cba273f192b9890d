package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
	"github.com/alexanderramin/shiftledger/internal/repository"
	"github.com/alexanderramin/shiftledger/internal/service"
	"github.com/alexanderramin/shiftledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "ana@example.com"

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	t.Setenv(EnvUser, "")
	database := testutil.NewTestDB(t)
	store := repository.NewSQLiteStore(database, testutil.NewTestUoW(database))

	return &App{
		Ledger:    service.NewLedgerService(store),
		Profiles:  service.NewProfileService(store),
		Summaries: service.NewSummaryService(store),
		Now:       func() time.Time { return time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC) },
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func registerUser(t *testing.T, app *App) {
	t.Helper()
	_, err := executeCmd(t, app, "profile", "register", "-u", testUser, "--legal-rate", "20", "--cash-rate", "15", "--limit", "40")
	require.NoError(t, err)
}

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	output, err := executeCmd(t, testApp(t))
	require.NoError(t, err)
	assert.Contains(t, output, "shiftledger")
	assert.Contains(t, output, "entry")
}

func TestUserFlag_Required(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "profile", "show")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), EnvUser)
}

func TestUserFlag_FromEnv(t *testing.T) {
	app := testApp(t)
	registerUser(t, app)
	t.Setenv(EnvUser, testUser)

	out, err := executeCmd(t, app, "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, testUser)
}

func TestProfileCmds(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "profile", "register", "-u", testUser, "--legal-rate", "20", "--cash-rate", "15")
	require.NoError(t, err)
	assert.Contains(t, out, "20.00/h")
	assert.Contains(t, out, "40h", "limit defaults to 40")

	_, err = executeCmd(t, app, "profile", "register", "-u", testUser, "--legal-rate", "1", "--cash-rate", "1")
	assert.ErrorIs(t, err, domain.ErrProfileExists)

	out, err = executeCmd(t, app, "profile", "rates", "-u", testUser, "--legal-rate", "22.5", "--cash-rate", "16")
	require.NoError(t, err)
	assert.Contains(t, out, "22.50/h")

	out, err = executeCmd(t, app, "profile", "limit", "-u", testUser, "--hours", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "30h")

	_, err = executeCmd(t, app, "profile", "rates", "-u", testUser, "--legal-rate", "-1", "--cash-rate", "16")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProfileRegister_RequiresRates(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "profile", "register", "-u", testUser)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "legal-rate")
}

func TestEntryAdd(t *testing.T) {
	app := testApp(t)
	registerUser(t, app)

	out, err := executeCmd(t, app, "entry", "add", "-u", testUser, "--date", "2024-03-04", "--in", "09:00", "--out", "17:30")
	require.NoError(t, err)
	assert.Contains(t, out, "ENTRY RECORDED")
	assert.Contains(t, out, "8h 30m")
	assert.Contains(t, out, "week 1")
	assert.NotContains(t, out, "Already recorded")

	out, err = executeCmd(t, app, "entry", "add", "-u", testUser, "--date", "2024-03-04", "--in", "09:00", "--out", "17:30")
	require.NoError(t, err)
	assert.Contains(t, out, "Already recorded")
}

func TestEntryAdd_DefaultsToToday(t *testing.T) {
	app := testApp(t)
	registerUser(t, app)

	out, err := executeCmd(t, app, "entry", "add", "-u", testUser, "--in", "08:00", "--out", "12:00")
	require.NoError(t, err)
	assert.Contains(t, out, "Wed Mar 6, 2024")
}

func TestEntryAdd_Errors(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "entry", "add", "-u", testUser, "--in", "09:00", "--out", "17:00")
	assert.ErrorIs(t, err, domain.ErrMissingUserProfile)

	registerUser(t, app)

	_, err = executeCmd(t, app, "entry", "add", "-u", testUser, "--in", "09:00")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "non-interactive runs never prompt")

	_, err = executeCmd(t, app, "entry", "add", "-u", testUser, "--in", "17:00", "--out", "09:00")
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)

	_, err = executeCmd(t, app, "entry", "add", "-u", testUser, "--date", "03/04/2024", "--in", "09:00", "--out", "17:00")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type timeoutLedger struct {
	service.LedgerService
}

func (timeoutLedger) RecordEntry(context.Context, domain.UserContext, domain.TimeEntry) (*service.RecordResult, error) {
	return nil, domain.ErrTimeout
}

func TestEntryAdd_RetryableErrorSaysSo(t *testing.T) {
	app := testApp(t)
	app.Ledger = timeoutLedger{}

	_, err := executeCmd(t, app, "entry", "add", "-u", testUser, "--in", "09:00", "--out", "17:00")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.Contains(t, err.Error(), "safe to retry")
}

func seedWeek(t *testing.T, app *App) {
	t.Helper()
	registerUser(t, app)
	for _, d := range []string{"2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07", "2024-03-08"} {
		_, err := executeCmd(t, app, "entry", "add", "-u", testUser, "--date", d, "--in", "08:00", "--out", "18:00")
		require.NoError(t, err)
	}
}

func TestSummaryCmds(t *testing.T) {
	app := testApp(t)
	seedWeek(t, app)

	out, err := executeCmd(t, app, "summary", "day", "-u", testUser)
	require.NoError(t, err)
	assert.Contains(t, out, "Wed Mar 6, 2024")
	assert.Contains(t, out, "200.00")

	out, err = executeCmd(t, app, "summary", "week", "-u", testUser)
	require.NoError(t, err)
	assert.Contains(t, out, "WEEK 1")
	assert.Contains(t, out, "40h / 40h")
	assert.Contains(t, out, "950.00")

	out, err = executeCmd(t, app, "summary", "week", "-u", testUser, "--start", "2024-03-04")
	require.NoError(t, err)
	assert.Contains(t, out, "Fri 2024-03-08")
	assert.Contains(t, out, "50h")

	out, err = executeCmd(t, app, "summary", "range", "-u", testUser, "--from", "2024-03-05", "--to", "2024-03-06")
	require.NoError(t, err)
	assert.Contains(t, out, "Tue 2024-03-05")
	assert.NotContains(t, out, "Thu 2024-03-07")

	out, err = executeCmd(t, app, "summary", "month", "-u", testUser)
	require.NoError(t, err)
	assert.Contains(t, out, "MARCH 2024")
	assert.Contains(t, out, "950.00")

	out, err = executeCmd(t, app, "summary", "year", "-u", testUser, "--year", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, "YEAR 2024")

	out, err = executeCmd(t, app, "summary", "year", "-u", testUser, "--from-days")
	require.NoError(t, err)
	assert.Contains(t, out, "Mon 2024-03-04")

	out, err = executeCmd(t, app, "sum", "dash", "-u", testUser)
	require.NoError(t, err)
	assert.Contains(t, out, "Week 1")
	assert.Contains(t, out, "March 2024")
}

func TestSummaryWeek_NoEntries(t *testing.T) {
	app := testApp(t)
	registerUser(t, app)

	out, err := executeCmd(t, app, "summary", "week", "-u", testUser)
	require.NoError(t, err)
	assert.Contains(t, out, "No entries recorded yet")

	_, err = executeCmd(t, app, "summary", "week", "-u", testUser, "--number", "1", "--start", "2024-03-04")
	assert.Error(t, err)
}

func TestSweepCmd(t *testing.T) {
	app := testApp(t)
	seedWeek(t, app)
	app.Now = func() time.Time { return time.Date(2024, 5, 13, 3, 0, 0, 0, time.UTC) }

	out, err := executeCmd(t, app, "sweep")
	require.NoError(t, err)
	assert.Contains(t, out, "Swept 1 user(s)")

	out, err = executeCmd(t, app, "summary", "range", "-u", testUser, "--from", "2024-03-01", "--to", "2024-03-31")
	require.NoError(t, err)
	assert.Contains(t, out, "No hours recorded", "March dailies are two months old by May")
}

func TestServeCmd(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "serve")
	assert.EqualError(t, err, "serve is not configured")

	boom := errors.New("listen failed")
	app.Serve = func(context.Context) error { return boom }
	_, err = executeCmd(t, app, "serve")
	assert.ErrorIs(t, err, boom)
}
