package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
	"github.com/alexanderramin/shiftledger/internal/service"
)

const capBarWidth = 20

// totalsBlock renders the legal/cash/total breakdown shared by every view.
func totalsBlock(t domain.Totals) string {
	rows := [][]string{
		{StyleLegal.Render("Legal"), FormatHours(t.LegalHours), FormatPay(t.LegalPay)},
		{StyleCash.Render("Cash"), FormatHours(t.CashHours), FormatPay(t.CashPay)},
		{Bold("Total"), Bold(FormatHours(t.Hours())), Bold(FormatPay(t.Pay()))},
	}
	return RenderTable([]string{"", "HOURS", "PAY"}, rows, false, true, true)
}

func FormatRecord(res *service.RecordResult) string {
	var b strings.Builder
	if res.Duplicate {
		b.WriteString(StyleCash.Render("Already recorded, nothing changed.") + "\n\n")
	}
	fmt.Fprintf(&b, "%s  %s  week %d  %s\n\n",
		HumanDate(res.Date), FormatHours(res.TotalHours), res.WeekNumber, TruncID(res.EntryID))
	b.WriteString(totalsBlock(res.Totals))
	if n := res.Pruned.Total(); n > 0 {
		fmt.Fprintf(&b, "\n%s\n", Dim(fmt.Sprintf("Pruned %d expired record(s).", n)))
	}
	return RenderBox("Entry recorded", strings.TrimRight(b.String(), "\n"))
}

func FormatProfile(p *domain.UserProfile) string {
	start := "not set (first entry sets it)"
	if p.StartDate != nil {
		start = HumanDate(*p.StartDate)
	}
	rows := [][]string{
		{Dim("Email"), p.Email},
		{Dim("Legal rate"), FormatPay(p.LegalRate) + "/h"},
		{Dim("Cash rate"), FormatPay(p.CashRate) + "/h"},
		{Dim("Weekly legal cap"), FormatHours(p.WeeklyLegalHoursLimit)},
		{Dim("Week start"), start},
	}
	if p.WeekNumber > 0 {
		rows = append(rows, []string{Dim("Last entry week"), fmt.Sprintf("%d", p.WeekNumber)})
	}
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%-18s %s\n", r[0], r[1])
	}
	return RenderBox("Profile", strings.TrimRight(b.String(), "\n"))
}

func FormatDay(d *domain.DailyRollup) string {
	title := HumanDate(d.Date)
	return RenderBox(title, strings.TrimRight(totalsBlock(d.Totals), "\n"))
}

// FormatPeriod lists each recorded day followed by the period totals.
func FormatPeriod(title string, p *service.PeriodSummary) string {
	if len(p.Days) == 0 {
		return RenderBox(title, Dim(fmt.Sprintf("No hours recorded %s to %s.",
			p.From.Format(domain.DateLayout), p.To.Format(domain.DateLayout))))
	}
	return RenderBox(title, daysTable(p.Days)+"\n"+strings.TrimRight(totalsBlock(p.Totals), "\n"))
}

func daysTable(days []*domain.DailyRollup) string {
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		rows = append(rows, []string{
			d.Date.Format("Mon 2006-01-02"),
			FormatHours(d.TotalHours),
			StyleLegal.Render(FormatHours(d.LegalHours)),
			StyleCash.Render(FormatHours(d.CashHours)),
			FormatPay(d.Pay()),
		})
	}
	return RenderTable([]string{"DAY", "WORKED", "LEGAL", "CASH", "PAY"}, rows, false, true, true, true, true)
}

// FormatWeek shows a weekly rollup and how much of the cap it used.
func FormatWeek(w *domain.WeeklyRollup, weeklyLimit float64) string {
	var b strings.Builder
	if !w.StartDate.IsZero() {
		fmt.Fprintf(&b, "%s to %s\n", HumanDate(w.StartDate), HumanDate(w.EndDate))
	}
	fmt.Fprintf(&b, "%s\n\n", RenderCapUsage(w.LegalHours, weeklyLimit, capBarWidth))
	b.WriteString(totalsBlock(w.Totals))
	return RenderBox(fmt.Sprintf("Week %d", w.WeekNumber), strings.TrimRight(b.String(), "\n"))
}

func FormatMonth(m *domain.MonthlyRollup) string {
	title := fmt.Sprintf("%s %d", time.Month(m.MonthNumber), m.Year)
	return RenderBox(title, strings.TrimRight(totalsBlock(m.Totals), "\n"))
}

func FormatYear(y *domain.YearlyRollup) string {
	return RenderBox(fmt.Sprintf("Year %d", y.Year), strings.TrimRight(totalsBlock(y.Totals), "\n"))
}

func FormatDashboard(d *service.Dashboard) string {
	var b strings.Builder
	b.WriteString(Header(d.Profile.Email) + "\n\n")

	rows := [][]string{periodRow("Today", d.Today.Totals)}
	if d.Week != nil {
		label := fmt.Sprintf("Week %d", d.WeekNumber)
		if !d.WeekStart.IsZero() {
			label += fmt.Sprintf(" (%s to %s)", d.WeekStart.Format("Jan 2"), d.WeekEnd.Format("Jan 2"))
		}
		rows = append(rows, periodRow(label, d.Week.Totals))
	}
	rows = append(rows,
		periodRow(fmt.Sprintf("%s %d", time.Month(d.Month.MonthNumber), d.Month.Year), d.Month.Totals),
		periodRow(fmt.Sprintf("%d", d.Year.Year), d.Year.Totals),
	)
	b.WriteString(RenderTable([]string{"PERIOD", "LEGAL", "CASH", "PAY"}, rows, false, true, true, true))

	if d.Week != nil {
		fmt.Fprintf(&b, "\nWeekly cap  %s\n", RenderCapUsage(d.Week.LegalHours, d.Profile.WeeklyLegalHoursLimit, capBarWidth))
	} else {
		b.WriteString("\n" + Dim("No week started yet.") + "\n")
	}
	return RenderBox("Dashboard", strings.TrimRight(b.String(), "\n"))
}

func periodRow(label string, t domain.Totals) []string {
	return []string{
		label,
		StyleLegal.Render(FormatHours(t.LegalHours)),
		StyleCash.Render(FormatHours(t.CashHours)),
		FormatPay(t.Pay()),
	}
}

func FormatSweep(res *service.SweepResult) string {
	line := fmt.Sprintf("Swept %d user(s), skipped %d, failed %d. Pruned %d record(s).",
		res.Users, res.Skipped, res.Failed, res.Pruned.Total())
	if res.Failed > 0 {
		return StyleOver.Render(line) + "\n"
	}
	return line + "\n"
}
