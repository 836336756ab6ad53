package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"resortAdmin/internal/cli"
	"resortAdmin/internal/config"
	"resortAdmin/internal/shared/logging"
)

func main() {
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(cli.ExitFailure)
	}

	// The terminal is the view here; only warnings and errors are logged.
	level := cfg.Logging.Level
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	slog.SetDefault(logging.New(os.Stderr, logging.Config{Level: level, Format: cfg.Logging.Format}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := cli.NewRootCommand(cli.Options{
		BaseURL:     cfg.REST.BaseURL,
		Timeout:     cfg.REST.Timeout,
		SessionFile: cfg.Session.File,
		TokenKey:    cfg.Session.TokenKey,
		LoginPath:   cfg.Session.LoginPath,
	})
	if err := root.ExecuteContext(ctx); err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) || !exitErr.Reported {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.ExitCode(err))
	}
}
