package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/shiftledger/internal/cli/formatter"
	"github.com/alexanderramin/shiftledger/internal/domain"
	"github.com/alexanderramin/shiftledger/internal/service"
	"github.com/spf13/cobra"
)

func newSummaryCmd(app *App, user userResolver) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "summary",
		Aliases: []string{"sum"},
		Short:   "Show recorded hours and pay",
	}
	cmd.AddCommand(
		newSummaryDayCmd(app, user),
		newSummaryRangeCmd(app, user),
		newSummaryWeekCmd(app, user),
		newSummaryMonthCmd(app, user),
		newSummaryYearCmd(app, user),
		newDashboardCmd(app, user),
	)
	return cmd
}

// parseDateFlag parses a YYYY-MM-DD flag value, defaulting to today.
func parseDateFlag(app *App, name, value string) (time.Time, error) {
	if value == "" {
		return app.now(), nil
	}
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --%s %q must be YYYY-MM-DD", domain.ErrInvalidInput, name, value)
	}
	return t, nil
}

func newSummaryDayCmd(app *App, user userResolver) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Totals for one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := user()
			if err != nil {
				return err
			}
			day, err := parseDateFlag(app, "date", date)
			if err != nil {
				return err
			}
			d, err := app.Summaries.Day(cmd.Context(), u, day)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDay(d))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day as YYYY-MM-DD (default today)")
	return cmd
}

func newSummaryRangeCmd(app *App, user userResolver) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "range",
		Short: "Day-by-day totals between two dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := user()
			if err != nil {
				return err
			}
			start, err := parseDateFlag(app, "from", from)
			if err != nil {
				return err
			}
			end, err := parseDateFlag(app, "to", to)
			if err != nil {
				return err
			}
			days, err := app.Summaries.DayRange(cmd.Context(), u, start, end)
			if err != nil {
				return err
			}
			p := periodOf(start, end, days)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPeriod("Days", p))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "First day as YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "Last day as YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func newSummaryWeekCmd(app *App, user userResolver) *cobra.Command {
	var number int
	var start string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Totals for a ledger week",
		Long: `Totals for a ledger week. Weeks are numbered from the user's first
entry. Without --number the week of the latest entry is shown.

--start totals the seven days from the given date instead, read from the
daily records.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := user()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if start != "" {
				from, err := parseDateFlag(app, "start", start)
				if err != nil {
					return err
				}
				p, err := app.Summaries.WeekFromDays(ctx, u, from)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPeriod("Week from "+from.Format(domain.DateLayout), p))
				return nil
			}

			profile, err := app.Profiles.Get(ctx, u)
			if err != nil {
				return err
			}
			if number == 0 {
				number = profile.WeekNumber
			}
			if number == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No entries recorded yet."))
				return nil
			}
			w, err := app.Summaries.Week(ctx, u, number)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWeek(w, profile.WeeklyLegalHoursLimit))
			return nil
		},
	}
	cmd.Flags().IntVar(&number, "number", 0, "Ledger week number (default latest)")
	cmd.Flags().StringVar(&start, "start", "", "Total seven days from this YYYY-MM-DD date instead")
	cmd.MarkFlagsMutuallyExclusive("number", "start")
	return cmd
}

func newSummaryMonthCmd(app *App, user userResolver) *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Totals for a calendar month",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := user()
			if err != nil {
				return err
			}
			now := app.now()
			if year == 0 {
				year = now.Year()
			}
			if month == 0 {
				month = int(now.Month())
			}
			m, err := app.Summaries.Month(cmd.Context(), u, year, time.Month(month))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMonth(m))
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Year (default current)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12 (default current)")
	return cmd
}

func newSummaryYearCmd(app *App, user userResolver) *cobra.Command {
	var year int
	var fromDays bool

	cmd := &cobra.Command{
		Use:   "year",
		Short: "Totals for a calendar year",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := user()
			if err != nil {
				return err
			}
			if year == 0 {
				year = app.now().Year()
			}
			if fromDays {
				p, err := app.Summaries.YearFromDays(cmd.Context(), u, year)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPeriod(fmt.Sprintf("%d (retained days)", year), p))
				return nil
			}
			y, err := app.Summaries.Year(cmd.Context(), u, year)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatYear(y))
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Year (default current)")
	cmd.Flags().BoolVar(&fromDays, "from-days", false, "List the retained daily records instead of the yearly total")
	return cmd
}

func newDashboardCmd(app *App, user userResolver) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Today, this week, month and year at a glance",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := user()
			if err != nil {
				return err
			}
			d, err := app.Summaries.Dashboard(cmd.Context(), u, app.now())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDashboard(d))
			return nil
		},
	}
}

func periodOf(from, to time.Time, days []*domain.DailyRollup) *service.PeriodSummary {
	p := &service.PeriodSummary{From: from, To: to, Days: days}
	for _, d := range days {
		p.TotalHours += d.TotalHours
		p.Totals = p.Totals.Plus(d.Totals)
	}
	return p
}
