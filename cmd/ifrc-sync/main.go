// Main package for the ifrc-sync command line tool.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"ifrc-sync/cmd/ifrc-sync/commands"
	"ifrc-sync/internal/cli"
)

func main() {
	slog.SetLogLoggerLevel(cli.DefaultLogLevel)

	a, err := commands.New()
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, a)
	stop()
	os.Exit(code)
}

type app interface {
	Run(ctx context.Context) error
	UsageError() bool
}

func run(ctx context.Context, a app) int {
	if err := a.Run(ctx); err != nil {
		slog.Error(err.Error())

		if a.UsageError() {
			return 2
		}
		return 1
	}

	return 0
}
