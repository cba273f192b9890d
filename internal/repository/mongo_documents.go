package repository

import (
	"fmt"
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
	"github.com/alexanderramin/shiftledger/internal/ledger"
)

// Document ids mirror the rollup keys: email plus the bucket coordinates.
func dailyID(email string, month int, dayKey string) string {
	return fmt.Sprintf("%s/%d/%s", email, month, dayKey)
}
func weeklyID(email string, week int) string   { return fmt.Sprintf("%s/%d", email, week) }
func monthlyID(email string, month int) string { return fmt.Sprintf("%s/%d", email, month) }
func yearlyID(email string, year int) string   { return fmt.Sprintf("%s/%d", email, year) }

type totalsDoc struct {
	LegalHours float64 `bson:"legalHours"`
	CashHours  float64 `bson:"cashHours"`
	LegalPay   float64 `bson:"legalPay"`
	CashPay    float64 `bson:"cashPay"`
}

func toTotalsDoc(t domain.Totals) totalsDoc {
	return totalsDoc{LegalHours: t.LegalHours, CashHours: t.CashHours, LegalPay: t.LegalPay, CashPay: t.CashPay}
}

func (t totalsDoc) domain() domain.Totals {
	return domain.Totals{LegalHours: t.LegalHours, CashHours: t.CashHours, LegalPay: t.LegalPay, CashPay: t.CashPay}
}

// timestampDoc stores a profile anchor as seconds and nanos.
type timestampDoc struct {
	Seconds int64 `bson:"seconds"`
	Nanos   int32 `bson:"nanos"`
}

func toTimestampDoc(t *time.Time) *timestampDoc {
	if t == nil {
		return nil
	}
	ts := ledger.TimestampOf(*t)
	return &timestampDoc{Seconds: ts.Seconds, Nanos: ts.Nanos}
}

func (d *timestampDoc) instant() *time.Time {
	if d == nil {
		return nil
	}
	t := ledger.Timestamp{Seconds: d.Seconds, Nanos: d.Nanos}.Time()
	return &t
}

type profileDoc struct {
	Email                 string        `bson:"_id"`
	LegalRate             float64       `bson:"legalRate"`
	CashRate              float64       `bson:"cashRate"`
	WeeklyLegalHoursLimit float64       `bson:"weeklyLegalHoursLimit"`
	StartDate             *timestampDoc `bson:"startDate,omitempty"`
	WeekNumber            int           `bson:"weekNumber"`
	Version               int64         `bson:"version"`
	CreatedAt             time.Time     `bson:"createdAt"`
	UpdatedAt             time.Time     `bson:"updatedAt"`
}

type dailyDoc struct {
	ID          string    `bson:"_id"`
	Email       string    `bson:"email"`
	MonthNumber int       `bson:"monthNumber"`
	DayKey      string    `bson:"dayKey"`
	Date        time.Time `bson:"date"`
	TotalHours  float64   `bson:"totalHours"`
	Totals      totalsDoc `bson:",inline"`
	Version     int64     `bson:"version"`
}

type weeklyDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	WeekNumber   int       `bson:"weekNumber"`
	StartDate    time.Time `bson:"startDate"`
	EndDate      time.Time `bson:"endDate"`
	StartWeekday int       `bson:"startDateDayNum"`
	Totals       totalsDoc `bson:",inline"`
	Version      int64     `bson:"version"`
}

type monthlyDoc struct {
	ID          string    `bson:"_id"`
	Email       string    `bson:"email"`
	MonthNumber int       `bson:"monthNumber"`
	Year        int       `bson:"year"`
	Totals      totalsDoc `bson:",inline"`
	Version     int64     `bson:"version"`
}

type yearlyDoc struct {
	ID      string    `bson:"_id"`
	Email   string    `bson:"email"`
	Year    int       `bson:"year"`
	Totals  totalsDoc `bson:",inline"`
	Version int64     `bson:"version"`
}

type entryDoc struct {
	ID         string    `bson:"_id"`
	Email      string    `bson:"email"`
	Date       time.Time `bson:"date"`
	ClockIn    time.Time `bson:"clockIn"`
	ClockOut   time.Time `bson:"clockOut"`
	WeekNumber int       `bson:"weekNumber"`
	TotalHours float64   `bson:"totalHours"`
	Totals     totalsDoc `bson:",inline"`
	CreatedAt  time.Time `bson:"createdAt"`
}
