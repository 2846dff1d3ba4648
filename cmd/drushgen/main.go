package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/terassyi/drushgen/internal/errors"
	"github.com/terassyi/drushgen/internal/ui"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	noColor := !ui.IsTerminal(os.Stderr)
	slog.SetDefault(slog.New(ui.NewCLIHandler(os.Stderr, logLevel, noColor)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		errors.NewFormatter(os.Stderr, noColor).Print(err)
		os.Exit(1)
	}
}
