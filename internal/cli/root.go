package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
	"github.com/alexanderramin/shiftledger/internal/service"
	"github.com/spf13/cobra"
)

// EnvUser supplies the default for --user.
const EnvUser = "SHIFTLEDGER_USER"

// App holds the services CLI commands act on.
type App struct {
	Ledger    service.LedgerService
	Profiles  service.ProfileService
	Summaries service.SummaryService

	// Serve runs the HTTP API and background sweeper until ctx is done.
	// Nil disables the serve command.
	Serve func(ctx context.Context) error

	// IsInteractive reports whether prompts may be shown. Nil means never.
	IsInteractive func() bool
	Now           func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}

// NewRootCmd creates the top-level "shiftledger" command.
func NewRootCmd(app *App) *cobra.Command {
	var email string

	root := &cobra.Command{
		Use:           "shiftledger",
		Short:         "Time tracking and payroll ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&email, "user", "u", os.Getenv(EnvUser),
		"User email (default $"+EnvUser+")")

	userFn := func() (domain.UserContext, error) {
		if email == "" {
			return domain.UserContext{}, fmt.Errorf("%w: --user is required (or set %s)", domain.ErrInvalidInput, EnvUser)
		}
		return domain.NewUserContext(email)
	}

	root.AddCommand(
		newProfileCmd(app, userFn),
		newEntryCmd(app, userFn),
		newSummaryCmd(app, userFn),
		newSweepCmd(app),
		newServeCmd(app),
	)
	return root
}

type userResolver func() (domain.UserContext, error)
