package cli

import (
	"fmt"

	"github.com/alexanderramin/shiftledger/internal/cli/formatter"
	"github.com/alexanderramin/shiftledger/internal/service"
	"github.com/spf13/cobra"
)

func newProfileCmd(app *App, user userResolver) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage pay rates and the weekly legal cap",
	}
	cmd.AddCommand(
		newProfileRegisterCmd(app, user),
		newProfileShowCmd(app, user),
		newProfileRatesCmd(app, user),
		newProfileLimitCmd(app, user),
	)
	return cmd
}

func newProfileRegisterCmd(app *App, user userResolver) *cobra.Command {
	var settings service.ProfileSettings

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a profile for the user",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := user()
			if err != nil {
				return err
			}
			p, err := app.Profiles.Register(cmd.Context(), u, settings)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProfile(p))
			return nil
		},
	}

	cmd.Flags().Float64Var(&settings.LegalRate, "legal-rate", 0, "Hourly pay for hours within the weekly cap")
	cmd.Flags().Float64Var(&settings.CashRate, "cash-rate", 0, "Hourly pay for hours beyond the weekly cap")
	cmd.Flags().Float64Var(&settings.WeeklyLegalHoursLimit, "limit", 40, "Weekly legal hours cap")
	_ = cmd.MarkFlagRequired("legal-rate")
	_ = cmd.MarkFlagRequired("cash-rate")
	return cmd
}

func newProfileShowCmd(app *App, user userResolver) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the user's profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := user()
			if err != nil {
				return err
			}
			p, err := app.Profiles.Get(cmd.Context(), u)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProfile(p))
			return nil
		},
	}
}

func newProfileRatesCmd(app *App, user userResolver) *cobra.Command {
	var legal, cash float64

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Change the legal and cash hourly rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := user()
			if err != nil {
				return err
			}
			p, err := app.Profiles.UpdateRates(cmd.Context(), u, legal, cash)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProfile(p))
			return nil
		},
	}

	cmd.Flags().Float64Var(&legal, "legal-rate", 0, "Hourly pay within the weekly cap")
	cmd.Flags().Float64Var(&cash, "cash-rate", 0, "Hourly pay beyond the weekly cap")
	_ = cmd.MarkFlagRequired("legal-rate")
	_ = cmd.MarkFlagRequired("cash-rate")
	return cmd
}

func newProfileLimitCmd(app *App, user userResolver) *cobra.Command {
	var hours float64

	cmd := &cobra.Command{
		Use:   "limit",
		Short: "Change the weekly legal hours cap",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := user()
			if err != nil {
				return err
			}
			p, err := app.Profiles.UpdateWeeklyLimit(cmd.Context(), u, hours)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProfile(p))
			return nil
		},
	}

	cmd.Flags().Float64Var(&hours, "hours", 0, "Weekly legal hours cap")
	_ = cmd.MarkFlagRequired("hours")
	return cmd
}
