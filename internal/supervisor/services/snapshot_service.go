// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelrank/internal/recommend"
)

// SnapshotSource builds or returns the current rating snapshot.
// Satisfied by *recommend.Engine.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*recommend.Snapshot, error)
}

// SnapshotRefresherConfig configures the refresher.
type SnapshotRefresherConfig struct {
	// Interval between refresh checks. Default: 30s.
	Interval time.Duration

	// Timeout bounds one refresh. Default: 1m.
	Timeout time.Duration

	// WarmOnStart builds a snapshot before the first tick.
	WarmOnStart bool
}

// SnapshotRefresher keeps the engine's rating snapshot current so request
// paths rarely pay for a rebuild. Each tick asks the engine for a snapshot,
// which rebuilds only when the store version moved.
type SnapshotRefresher struct {
	source SnapshotSource
	config SnapshotRefresherConfig
	logger zerolog.Logger

	lastVersion uint64
	built       bool
}

// NewSnapshotRefresher creates the refresher.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSnapshotRefresher(source SnapshotSource, cfg SnapshotRefresherConfig, logger zerolog.Logger) *SnapshotRefresher {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	return &SnapshotRefresher{
		source: source,
		config: cfg,
		logger: logger.With().Str("service", "snapshot-refresher").Logger(),
	}
}

// Serve implements suture.Service. Refresh failures are logged and retried on
// the next tick; the engine keeps serving its last good snapshot meanwhile.
func (s *SnapshotRefresher) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Bool("warm_on_start", s.config.WarmOnStart).
		Msg("snapshot refresher starting")

	if s.config.WarmOnStart {
		s.refresh(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("snapshot refresher stopping")
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *SnapshotRefresher) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	snap, err := s.source.Snapshot(refreshCtx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn().Err(err).Msg("snapshot refresh failed")
		}
		return
	}

	if !s.built || snap.Version != s.lastVersion {
		s.logger.Info().
			Uint64("data_version", snap.Version).
			Int("users", snap.Matrix.NumUsers()).
			Int("items", snap.Matrix.NumItems()).
			Int("ratings", snap.Matrix.NumRatings()).
			Msg("rating snapshot current")
	}
	s.built = true
	s.lastVersion = snap.Version
}

// String names the service in supervisor logs.
func (s *SnapshotRefresher) String() string {
	return "snapshot-refresher"
}
