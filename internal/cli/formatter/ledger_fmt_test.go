package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
	"github.com/alexanderramin/shiftledger/internal/service"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFormatRecord(t *testing.T) {
	res := &service.RecordResult{
		EntryID:    "0f8e2c1a-0000-5000-8000-000000000000",
		Date:       day(2024, 3, 8),
		WeekNumber: 1,
		TotalHours: 10,
		Totals:     domain.Totals{LegalHours: 8, CashHours: 2, LegalPay: 160, CashPay: 30},
		Pruned:     service.PruneResult{Daily: 2},
	}
	out := FormatRecord(res)
	assert.Contains(t, out, "Fri Mar 8, 2024")
	assert.Contains(t, out, "week 1")
	assert.Contains(t, out, "0f8e2c1a")
	assert.Contains(t, out, "160.00")
	assert.Contains(t, out, "190.00")
	assert.Contains(t, out, "Pruned 2")
	assert.NotContains(t, out, "Already recorded")

	res.Duplicate = true
	assert.Contains(t, FormatRecord(res), "Already recorded")
}

func TestFormatProfile(t *testing.T) {
	p := &domain.UserProfile{Email: "ana@example.com", LegalRate: 20, CashRate: 15, WeeklyLegalHoursLimit: 40}
	out := FormatProfile(p)
	assert.Contains(t, out, "ana@example.com")
	assert.Contains(t, out, "20.00/h")
	assert.Contains(t, out, "40h")
	assert.Contains(t, out, "not set")

	start := day(2024, 3, 4)
	p.StartDate, p.WeekNumber = &start, 3
	out = FormatProfile(p)
	assert.Contains(t, out, "Mon Mar 4, 2024")
	assert.Contains(t, out, "Last entry week")
}

func TestFormatPeriod(t *testing.T) {
	empty := &service.PeriodSummary{From: day(2024, 3, 4), To: day(2024, 3, 10)}
	assert.Contains(t, FormatPeriod("Week", empty), "No hours recorded 2024-03-04 to 2024-03-10")

	p := &service.PeriodSummary{
		From: day(2024, 3, 4),
		To:   day(2024, 3, 10),
		Days: []*domain.DailyRollup{
			{Date: day(2024, 3, 4), TotalHours: 8, Totals: domain.Totals{LegalHours: 8, LegalPay: 160}},
			{Date: day(2024, 3, 5), TotalHours: 7.5, Totals: domain.Totals{LegalHours: 7.5, LegalPay: 150}},
		},
		TotalHours: 15.5,
		Totals:     domain.Totals{LegalHours: 15.5, LegalPay: 310},
	}
	out := FormatPeriod("Week", p)
	assert.Contains(t, out, "Mon 2024-03-04")
	assert.Contains(t, out, "7h 30m")
	assert.Contains(t, out, "15h 30m")
	assert.Contains(t, out, "310.00")
}

func TestFormatWeek(t *testing.T) {
	w := &domain.WeeklyRollup{
		WeekNumber: 2,
		StartDate:  day(2024, 3, 11),
		EndDate:    day(2024, 3, 15),
		Totals:     domain.Totals{LegalHours: 40, CashHours: 5, LegalPay: 800, CashPay: 75},
	}
	out := FormatWeek(w, 40)
	assert.Contains(t, out, "WEEK 2")
	assert.Contains(t, out, "40h / 40h")
	assert.Contains(t, out, "875.00")
}

func TestFormatMonthAndYear(t *testing.T) {
	assert.Contains(t, FormatMonth(&domain.MonthlyRollup{MonthNumber: 3, Year: 2024}), "MARCH 2024")
	assert.Contains(t, FormatYear(&domain.YearlyRollup{Year: 2024, Totals: domain.Totals{CashPay: 12.5}}), "12.50")
}

func TestFormatDashboard(t *testing.T) {
	d := &service.Dashboard{
		Profile: &domain.UserProfile{Email: "ana@example.com", WeeklyLegalHoursLimit: 40},
		Today:   &domain.DailyRollup{Date: day(2024, 3, 6)},
		Month:   &domain.MonthlyRollup{MonthNumber: 3, Year: 2024},
		Year:    &domain.YearlyRollup{Year: 2024},
	}
	out := FormatDashboard(d)
	assert.Contains(t, out, "ANA@EXAMPLE.COM")
	assert.Contains(t, out, "No week started yet")
	assert.NotContains(t, out, "Week ")

	d.WeekNumber = 1
	d.Week = &domain.WeeklyRollup{WeekNumber: 1, Totals: domain.Totals{LegalHours: 30}}
	out = FormatDashboard(d)
	assert.Contains(t, out, "Week 1")
	assert.Contains(t, out, "30h / 40h")

	d.WeekStart, d.WeekEnd = day(2024, 3, 4), day(2024, 3, 10)
	assert.Contains(t, FormatDashboard(d), "Week 1 (Mar 4 to Mar 10)")
}

func TestFormatSweep(t *testing.T) {
	out := FormatSweep(&service.SweepResult{Users: 2, Skipped: 1, Pruned: service.PruneResult{Weekly: 3}})
	assert.Equal(t, "Swept 2 user(s), skipped 1, failed 0. Pruned 3 record(s).\n", out)
}
