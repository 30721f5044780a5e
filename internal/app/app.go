// Package app wires configuration, logging and storage into a load run.
// The loader commands are thin wrappers around Main.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/silver/internal/config"
	"github.com/JonMunkholm/silver/internal/core"
	"github.com/JonMunkholm/silver/internal/logging"
	"github.com/JonMunkholm/silver/internal/store/postgres"
	"github.com/JonMunkholm/silver/internal/store/sqlite"
)

// Backend is a store the loaders can open, prepare and close.
type Backend interface {
	core.Store
	ApplySchema(ctx context.Context, schemas core.Schemas) error
	Close() error
}

// Main loads one layer of the warehouse and returns the process exit code.
func Main(layer core.Layer) int {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"layer", layer,
		"driver", cfg.Database.Driver,
		"timeout", cfg.Load.Timeout,
		"continue_on_error", cfg.Load.ContinueOnError,
		"stages", len(core.ByLayer(layer)),
	)
	slog.Debug("configuration", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Load.Timeout)
	defer cancel()

	result, err := Load(ctx, cfg, layer)
	if err != nil {
		slog.Error("load not started", "layer", layer, "error", err)
		reportFailure(os.Stderr, err)
		return 1
	}

	for _, failed := range result.Failed {
		reportFailure(os.Stderr, failed)
	}
	if !result.Success() {
		return 1
	}
	return 0
}

// Load opens the configured store and runs every stage of layer.
// The returned error covers setup only; stage failures are in the result.
func Load(ctx context.Context, cfg *config.Config, layer core.Layer) (core.RunResult, error) {
	schemas := core.Schemas{Bronze: cfg.Load.BronzeSchema, Silver: cfg.Load.SilverSchema}

	store, err := OpenStore(ctx, cfg.Database)
	if err != nil {
		return core.RunResult{}, err
	}
	defer store.Close()

	if cfg.Database.ApplySchema {
		if err := store.ApplySchema(ctx, schemas); err != nil {
			return core.RunResult{}, err
		}
		slog.Info("schema applied", "bronze", schemas.Bronze, "silver", schemas.Silver)
	}

	policy := core.HaltOnError
	if cfg.Load.ContinueOnError {
		policy = core.ContinueOnError
	}

	runner := core.NewRunner(store, core.RunnerConfig{
		Schemas:   schemas,
		SourceDir: cfg.Load.SourceDir,
		Policy:    policy,
	})
	return runner.Run(ctx, layer), nil
}

// OpenStore connects to the backend selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (Backend, error) {
	switch strings.ToLower(cfg.Driver) {
	case "postgres":
	case "sqlite":
		store, err := sqlite.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		slog.Info("connected to database", "driver", "sqlite")
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	store, err := postgres.Open(ctx, cfg.URL, postgres.PoolOptions{
		MaxConns:        cfg.MaxConns,
		MinConns:        cfg.MinConns,
		MaxConnLifetime: cfg.MaxConnLifetime,
		MaxConnIdleTime: cfg.MaxConnIdleTime,
	})
	if err != nil {
		return nil, err
	}

	// Log which database we connected to
	if u, err := url.Parse(cfg.URL); err == nil {
		dbName := strings.TrimPrefix(u.Path, "/")
		slog.Info("connected to database", "driver", "postgres", "name", dbName)
	} else {
		slog.Info("connected to database", "driver", "postgres")
	}
	return store, nil
}

// reportFailure prints the support message for err, prefixed with the
// failing stage when there is one.
func reportFailure(w io.Writer, err error) {
	var stageErr *core.StageError
	if errors.As(err, &stageErr) {
		fmt.Fprintf(w, "%s: %s\n", stageErr.Stage, core.FormatUserError(stageErr))
		return
	}
	fmt.Fprintln(w, core.FormatUserError(err))
}
