package ledger

import (
	"fmt"
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
	"github.com/google/uuid"
)

// DayKeyLayout is the zero-padded ddmmyyyy form used to key daily rollups.
// Keys within one month bucket sort lexicographically by day.
const DayKeyLayout = "02012006"

// entryNamespace scopes entry ids generated by this ledger.
var entryNamespace = uuid.MustParse("5f6c2a0e-9b1d-5d8e-a4f3-2c7e1b9d0a64")

// DayKey formats t as a daily rollup key.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ParseDayKey parses a ddmmyyyy key into midnight UTC.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.Parse(DayKeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day key %q must be ddmmyyyy", domain.ErrInvalidInput, key)
	}
	return t, nil
}

// MonthBounds returns the first and last day keys of the month. Together they
// select a whole month with a range query on day keys.
func MonthBounds(year int, month time.Month) (first, last string) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return DayKey(start), DayKey(end)
}

// EntryID derives a stable id from the user and the entry's instants, so a
// resubmitted entry maps to the id it was first committed under.
func EntryID(email string, e domain.TimeEntry) string {
	name := fmt.Sprintf("%s|%s|%d|%d",
		domain.NormalizeEmail(email),
		Day(e.Date).Format(domain.DateLayout),
		e.ClockIn.UTC().UnixNano(),
		e.ClockOut.UTC().UnixNano(),
	)
	return uuid.NewSHA1(entryNamespace, []byte(name)).String()
}
