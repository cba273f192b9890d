package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/shiftledger/internal/app"
	"github.com/alexanderramin/shiftledger/internal/cli"
	"github.com/alexanderramin/shiftledger/internal/config"
	"github.com/alexanderramin/shiftledger/internal/logging"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	ctx := context.Background()
	rt, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close(context.Background())

	root := cli.NewRootCmd(&cli.App{
		Ledger:    rt.Ledger,
		Profiles:  rt.Profiles,
		Summaries: rt.Summaries,
		Serve:     rt.Serve,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	})
	return root.ExecuteContext(ctx)
}
