// Package main is the entry point of the roster daemon.
//
// rosterd seeds the profile and friend roster from two JSON documents, keeps
// them in memory for the life of the process and serves the command surface
// to the desktop UI on a loopback HTTP port.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alem-hub/roster-hub/config"
	"github.com/alem-hub/roster-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. Configuration
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. Logging
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	defer func() { _ = log.Sync() }()

	log.Info("starting roster-hub",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)
	if wd, err := os.Getwd(); err == nil {
		log.Info("current working directory", logger.String("path", wd))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. Wiring
	// ─────────────────────────────────────────────────────────────────────────
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. Serve until a signal arrives
	// ─────────────────────────────────────────────────────────────────────────
	if err := a.run(ctx); err != nil {
		log.Error("service error", logger.Err(err))
		return err
	}

	log.Info("shutdown completed successfully")
	return nil
}

// setupLogger builds the process logger from configuration.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	opts.Format = logger.Format(cfg.Observability.LogFormat)
	opts.AddCaller = cfg.IsDevelopment()
	if cfg.App.Debug && opts.Level > logger.LevelDebug {
		opts.Level = logger.LevelDebug
	}
	return logger.New(opts).With(logger.String("app", cfg.App.Name))
}
