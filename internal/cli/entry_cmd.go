package cli

import (
	"fmt"

	"github.com/alexanderramin/shiftledger/internal/cli/formatter"
	"github.com/alexanderramin/shiftledger/internal/domain"
	"github.com/spf13/cobra"
)

func newEntryCmd(app *App, user userResolver) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Record worked time",
	}
	cmd.AddCommand(newEntryAddCmd(app, user))
	return cmd
}

func newEntryAddCmd(app *App, user userResolver) *cobra.Command {
	var date, clockIn, clockOut string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a clock-in/clock-out pair",
		Long: `Record a clock-in/clock-out pair and fold it into the daily, weekly,
monthly and yearly totals. Hours beyond the weekly legal cap are paid at
the cash rate. Submitting the same entry again changes nothing.

Missing fields are prompted for when running in a terminal.`,
		Example: "  shiftledger entry add -u ana@example.com --date 2024-03-04 --in 09:00 --out 17:30",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := user()
			if err != nil {
				return err
			}
			if date == "" {
				date = app.now().Format(domain.DateLayout)
			}
			if (clockIn == "" || clockOut == "") && app.interactive() {
				if err := entryForm(&date, &clockIn, &clockOut).Run(); err != nil {
					return err
				}
			}
			if clockIn == "" || clockOut == "" {
				return fmt.Errorf("%w: --in and --out are required", domain.ErrInvalidInput)
			}

			entry, err := domain.ParseTimeEntry(date, clockIn, clockOut)
			if err != nil {
				return err
			}
			res, err := app.Ledger.RecordEntry(cmd.Context(), u, entry)
			if err != nil {
				if domain.IsRetryable(err) {
					return fmt.Errorf("%w (safe to retry)", err)
				}
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecord(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Work day as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&clockIn, "in", "", "Clock-in time as HH:MM")
	cmd.Flags().StringVar(&clockOut, "out", "", "Clock-out time as HH:MM")
	return cmd
}
