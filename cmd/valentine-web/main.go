package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"eternal-valentine/internal/app"
	"eternal-valentine/internal/config"
)

// main delegates to run so deferred cleanup happens before os.Exit.
func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "component", "main", "error", err)
		return 1
	}

	level, _ := cfg.Logging.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "component", "main", "error", err)
		return 1
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("failed to release generator", "component", "main", "error", err)
		}
	}()

	if err := application.Run(ctx); err != nil {
		logger.Error("application failed", "component", "main", "error", err)
		return 1
	}

	logger.Info("application stopped", "component", "main")
	return 0
}
