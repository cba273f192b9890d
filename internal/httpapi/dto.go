package httpapi

import (
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
	"github.com/alexanderramin/shiftledger/internal/service"
)

type profileRequest struct {
	LegalRate             *float64 `json:"legal_rate" validate:"required,min=0"`
	CashRate              *float64 `json:"cash_rate" validate:"required,min=0"`
	WeeklyLegalHoursLimit *float64 `json:"weekly_legal_hours_limit" validate:"required,min=0"`
}

type ratesRequest struct {
	LegalRate *float64 `json:"legal_rate" validate:"required,min=0"`
	CashRate  *float64 `json:"cash_rate" validate:"required,min=0"`
}

type limitRequest struct {
	WeeklyLegalHoursLimit *float64 `json:"weekly_legal_hours_limit" validate:"required,min=0"`
}

type entryRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	ClockIn  string `json:"clock_in" validate:"required,datetime=15:04"`
	ClockOut string `json:"clock_out" validate:"required,datetime=15:04"`
}

type totalsDTO struct {
	LegalHours float64 `json:"legal_hours"`
	CashHours  float64 `json:"cash_hours"`
	LegalPay   float64 `json:"legal_pay"`
	CashPay    float64 `json:"cash_pay"`
	TotalPay   float64 `json:"total_pay"`
}

func toTotals(t domain.Totals) totalsDTO {
	return totalsDTO{
		LegalHours: t.LegalHours,
		CashHours:  t.CashHours,
		LegalPay:   t.LegalPay,
		CashPay:    t.CashPay,
		TotalPay:   t.Pay(),
	}
}

type profileDTO struct {
	Email                 string  `json:"email"`
	LegalRate             float64 `json:"legal_rate"`
	CashRate              float64 `json:"cash_rate"`
	WeeklyLegalHoursLimit float64 `json:"weekly_legal_hours_limit"`
	StartDate             string  `json:"start_date,omitempty"`
	WeekNumber            int     `json:"week_number"`
}

func toProfile(p *domain.UserProfile) profileDTO {
	out := profileDTO{
		Email:                 p.Email,
		LegalRate:             p.LegalRate,
		CashRate:              p.CashRate,
		WeeklyLegalHoursLimit: p.WeeklyLegalHoursLimit,
		WeekNumber:            p.WeekNumber,
	}
	if p.StartDate != nil {
		out.StartDate = p.StartDate.Format(domain.DateLayout)
	}
	return out
}

type recordDTO struct {
	EntryID    string  `json:"entry_id"`
	Date       string  `json:"date"`
	WeekNumber int     `json:"week_number"`
	TotalHours float64 `json:"total_hours"`
	totalsDTO
	Duplicate bool  `json:"duplicate"`
	Pruned    int64 `json:"pruned"`
}

func toRecord(r *service.RecordResult) recordDTO {
	return recordDTO{
		EntryID:    r.EntryID,
		Date:       r.Date.Format(domain.DateLayout),
		WeekNumber: r.WeekNumber,
		TotalHours: r.TotalHours,
		totalsDTO:  toTotals(r.Totals),
		Duplicate:  r.Duplicate,
		Pruned:     r.Pruned.Total(),
	}
}

type dayDTO struct {
	Date       string  `json:"date"`
	TotalHours float64 `json:"total_hours"`
	totalsDTO
}

func toDay(d *domain.DailyRollup) dayDTO {
	return dayDTO{Date: d.Date.Format(domain.DateLayout), TotalHours: d.TotalHours, totalsDTO: toTotals(d.Totals)}
}

func toDays(days []*domain.DailyRollup) []dayDTO {
	out := make([]dayDTO, 0, len(days))
	for _, d := range days {
		out = append(out, toDay(d))
	}
	return out
}

type weekDTO struct {
	WeekNumber int    `json:"week_number"`
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
	totalsDTO
}

func toWeek(w *domain.WeeklyRollup) weekDTO {
	return weekDTO{
		WeekNumber: w.WeekNumber,
		StartDate:  formatDate(w.StartDate),
		EndDate:    formatDate(w.EndDate),
		totalsDTO:  toTotals(w.Totals),
	}
}

type monthDTO struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	totalsDTO
}

func toMonth(m *domain.MonthlyRollup) monthDTO {
	return monthDTO{Year: m.Year, Month: m.MonthNumber, totalsDTO: toTotals(m.Totals)}
}

type yearDTO struct {
	Year int `json:"year"`
	totalsDTO
}

func toYear(y *domain.YearlyRollup) yearDTO {
	return yearDTO{Year: y.Year, totalsDTO: toTotals(y.Totals)}
}

type rangeDTO struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	TotalHours float64  `json:"total_hours"`
	Days       []dayDTO `json:"days"`
	totalsDTO
}

func toRange(from, to time.Time, days []*domain.DailyRollup) rangeDTO {
	var total float64
	var totals domain.Totals
	for _, d := range days {
		total += d.TotalHours
		totals = totals.Plus(d.Totals)
	}
	return rangeDTO{
		From:       from.Format(domain.DateLayout),
		To:         to.Format(domain.DateLayout),
		TotalHours: total,
		Days:       toDays(days),
		totalsDTO:  toTotals(totals),
	}
}

type dashboardDTO struct {
	Profile    profileDTO `json:"profile"`
	WeekNumber int        `json:"week_number"`
	WeekStart  string     `json:"week_start,omitempty"`
	WeekEnd    string     `json:"week_end,omitempty"`
	Today      dayDTO     `json:"today"`
	Week       *weekDTO   `json:"week,omitempty"`
	Month      monthDTO   `json:"month"`
	Year       yearDTO    `json:"year"`
}

func toDashboard(d *service.Dashboard) dashboardDTO {
	out := dashboardDTO{
		Profile:    toProfile(d.Profile),
		WeekNumber: d.WeekNumber,
		Today:      toDay(d.Today),
		Month:      toMonth(d.Month),
		Year:       toYear(d.Year),
	}
	if d.Week != nil {
		w := toWeek(d.Week)
		out.Week = &w
	}
	if !d.WeekStart.IsZero() {
		out.WeekStart = d.WeekStart.Format(domain.DateLayout)
		out.WeekEnd = d.WeekEnd.Format(domain.DateLayout)
	}
	return out
}

type sweepDTO struct {
	Users   int   `json:"users"`
	Skipped int   `json:"skipped"`
	Failed  int   `json:"failed"`
	Pruned  int64 `json:"pruned"`
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(domain.DateLayout)
}
