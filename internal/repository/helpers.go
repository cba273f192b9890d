package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
)

// Storage layouts. Dates are calendar days; instants keep nanoseconds so the
// stored clock times reproduce the entry id.
const (
	dateLayout    = domain.DateLayout
	instantLayout = time.RFC3339Nano
)

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// parseNullableDate parses a sql.NullString into a *time.Time.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableDate(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableDateToString returns nil (SQL NULL) for a nil pointer.
func nullableDateToString(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// checkSwapped turns a zero-row conditional update into ErrConflict.
func checkSwapped(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: reading affected rows: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}
	return nil
}

func rowsDeleted(res sql.Result, op string) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: reading affected rows: %w", op, err)
	}
	return n, nil
}
