package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/shiftledger/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSweepCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Prune expired rollups for every user now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Ledger.Sweep(cmd.Context(), app.now())
			if res != nil {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSweep(res))
			}
			return err
		},
	}
}

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the scheduled retention sweep",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Serve == nil {
				return errors.New("serve is not configured")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return app.Serve(ctx)
		},
	}
}
