// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package main

import (
	"errors"
	"fmt"

	"github.com/tomtom215/reelrank/internal/api"
	"github.com/tomtom215/reelrank/internal/config"
	"github.com/tomtom215/reelrank/internal/eventprocessor"
	"github.com/tomtom215/reelrank/internal/logging"
	"github.com/tomtom215/reelrank/internal/recommend"
)

// eventComponents holds the in-process rating event pipeline.
type eventComponents struct {
	bus       *eventprocessor.Bus
	publisher *eventprocessor.Publisher
	consumer  *eventprocessor.ConsumerService
}

// initEvents builds the bus, publisher and invalidation consumer. It returns
// nil when events are disabled; handlers then invalidate the engine directly.
func initEvents(cfg *config.EventsConfig, engine *recommend.Engine) (*eventComponents, error) {
	if !cfg.Enabled {
		logging.Info().Msg("Rating events disabled, engine invalidated in-process")
		return nil, nil
	}

	evCfg := eventprocessor.DefaultConfig()
	if cfg.BufferSize > 0 {
		evCfg.BufferSize = cfg.BufferSize
	}
	if cfg.HandlerTimeout > 0 {
		evCfg.HandlerTimeout = cfg.HandlerTimeout
	}
	if err := evCfg.Validate(); err != nil {
		return nil, fmt.Errorf("events config: %w", err)
	}

	wmLogger := logging.NewWatermillLogger(logging.WithComponent("events"))
	bus := eventprocessor.NewBus(evCfg, wmLogger)

	publisher, err := eventprocessor.NewPublisher(bus.Publisher())
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create publisher: %w", err), bus.Close())
	}

	handler := eventprocessor.NewInvalidationHandler(engine, logging.WithComponent("events"))
	consumer := eventprocessor.NewConsumerService(evCfg, bus.Subscriber(), handler, wmLogger)

	logging.Info().Int64("buffer_size", evCfg.BufferSize).Msg("Rating event bus initialized")
	return &eventComponents{bus: bus, publisher: publisher, consumer: consumer}, nil
}

// ratingPublisher returns the API publisher, or nil when events are disabled.
// A nil *Publisher must not be boxed into the interface.
func (e *eventComponents) ratingPublisher() api.RatingPublisher {
	if e == nil {
		return nil
	}
	return e.publisher
}

func (e *eventComponents) Close() error {
	if e == nil {
		return nil
	}
	return errors.Join(e.publisher.Close(), e.bus.Close())
}
