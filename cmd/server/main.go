// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package main is the entry point for the reelrank server.
//
// Startup order:
//
//  1. Configuration: koanf layers (defaults, config.yaml, environment)
//  2. Logging: zerolog global logger
//  3. Store: memory, badger or DuckDB catalog, seeded with the sample catalog when empty
//  4. Engine: collaborative filtering over rating snapshots
//  5. Events: in-process Watermill bus carrying rating.added
//  6. Supervisor tree: snapshot refresher, event consumer, HTTP server
//
// # Configuration
//
//	HTTP_PORT=5000              listen port
//	STORAGE_BACKEND=badger      memory | badger | duckdb
//	STORAGE_PATH=/data/reelrank badger directory or DuckDB file
//	SEED_DATA=true              load the sample catalog into an empty store
//	EVENTS_ENABLED=true         publish rating.added and invalidate via the bus
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
// in-flight requests for server.shutdown_timeout, then the event bus and the
// store are closed.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/reelrank/internal/api"
	"github.com/tomtom215/reelrank/internal/config"
	"github.com/tomtom215/reelrank/internal/logging"
	"github.com/tomtom215/reelrank/internal/metrics"
	"github.com/tomtom215/reelrank/internal/recommend"
	"github.com/tomtom215/reelrank/internal/supervisor"
	"github.com/tomtom215/reelrank/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("reelrank exited with error")
	}
}

//nolint:gocyclo // sequential setup steps
func run() error {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "reelrank",
		Output:    os.Stderr,
	})

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
	logging.Info().
		Str("version", version).
		Str("storage_backend", cfg.Storage.Backend).
		Int("port", cfg.Server.Port).
		Bool("events_enabled", cfg.Events.Enabled).
		Msg("Starting reelrank")

	if cfg.HasWildcardCORS() {
		logging.Warn().Msg("CORS allows any origin")
	}

	store, err := openStore(&cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	if err := seedStore(store, cfg.Storage.Seed); err != nil {
		return err
	}

	engine, err := recommend.NewEngine(store, cfg.Recommend.EngineConfig(), logging.WithComponent("recommend"))
	if err != nil {
		return fmt.Errorf("create recommendation engine: %w", err)
	}

	events, err := initEvents(&cfg.Events, engine)
	if err != nil {
		return err
	}
	defer func() {
		if err := events.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	handler := api.NewHandler(store, engine, events.ratingPublisher())
	router := api.NewRouter(handler, api.NewChiMiddleware(api.NewChiMiddlewareConfig(cfg.Security)))

	server := &http.Server{
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	if cfg.Recommend.RefreshInterval > 0 {
		tree.AddDataService(services.NewSnapshotRefresher(engine, services.SnapshotRefresherConfig{
			Interval:    cfg.Recommend.RefreshInterval,
			Timeout:     cfg.Recommend.LoadTimeout,
			WarmOnStart: true,
		}, logging.WithComponent("supervisor")))
	}
	if events != nil {
		tree.AddMessagingService(events.consumer)
	}
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	tree.AddAPIService(services.NewHTTPServerService(server, addr, cfg.Server.ShutdownTimeout, logging.WithComponent("supervisor")))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := tree.ServeBackground(ctx)
	logging.Info().Str("addr", addr).Msg("Supervisor tree started")

	err = <-errCh
	if ctx.Err() != nil {
		logging.Info().Msg("Shutdown signal received, services stopped")
		if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
			for _, svc := range report {
				logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
			}
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	return nil
}
