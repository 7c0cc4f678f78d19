// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package eventprocessor

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// invalidationHandlerName identifies the handler in Watermill logs.
const invalidationHandlerName = "rating-invalidation"

// ConsumerService runs the invalidation handler under a supervisor.
// Each Serve call builds a fresh Router, so restarts after a failure work.
type ConsumerService struct {
	cfg        Config
	subscriber message.Subscriber
	handler    *InvalidationHandler
	logger     watermill.LoggerAdapter
}

// NewConsumerService creates the service.
func NewConsumerService(cfg Config, subscriber message.Subscriber, handler *InvalidationHandler, logger watermill.LoggerAdapter) *ConsumerService {
	return &ConsumerService{
		cfg:        cfg,
		subscriber: subscriber,
		handler:    handler,
		logger:     logger,
	}
}

// Serve implements suture.Service.
func (s *ConsumerService) Serve(ctx context.Context) error {
	router, err := NewRouter(s.cfg, s.logger)
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}
	router.AddConsumerHandler(invalidationHandlerName, TopicRatingAdded, s.subscriber, s.handler.Handle)

	err = router.Run(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	return fmt.Errorf("event router stopped unexpectedly")
}

// String implements fmt.Stringer for suture logging.
func (s *ConsumerService) String() string {
	return "rating-event-consumer"
}
