// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package eventprocessor

import (
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelrank/internal/metrics"
)

// Invalidator drops derived state when the underlying ratings change.
// *recommend.Engine satisfies it.
type Invalidator interface {
	Invalidate()
}

// HandlerStats counts processed messages.
type HandlerStats struct {
	Handled int64 `json:"handled"`
	Dropped int64 `json:"dropped"`
}

// InvalidationHandler invalidates the engine for every rating.added event.
type InvalidationHandler struct {
	target  Invalidator
	logger  zerolog.Logger
	handled atomic.Int64
	dropped atomic.Int64
}

// NewInvalidationHandler creates a handler that invalidates target.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewInvalidationHandler(target Invalidator, logger zerolog.Logger) *InvalidationHandler {
	return &InvalidationHandler{
		target: target,
		logger: logger.With().Str("component", "rating-invalidation").Logger(),
	}
}

// Handle implements message.NoPublishHandlerFunc.
// Malformed events are acknowledged and dropped; a canceled message context
// is returned as an error so the router retries.
func (h *InvalidationHandler) Handle(msg *message.Message) error {
	event, err := DeserializeEvent(msg.Payload)
	if err != nil {
		h.dropped.Add(1)
		metrics.EventsConsumed.WithLabelValues(TopicRatingAdded, "dropped").Inc()
		h.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed rating event")
		return nil
	}

	if err := msg.Context().Err(); err != nil {
		metrics.EventsConsumed.WithLabelValues(TopicRatingAdded, "nack").Inc()
		return err
	}

	h.target.Invalidate()
	h.handled.Add(1)
	metrics.EventsConsumed.WithLabelValues(TopicRatingAdded, "ack").Inc()

	h.logger.Debug().
		Str("event_id", event.EventID).
		Str("correlation_id", middleware.MessageCorrelationID(msg)).
		Int("user_id", event.UserID).
		Int("item_id", event.ItemID).
		Msg("Engine invalidated by rating event")
	return nil
}

// Stats returns handled and dropped counts.
func (h *InvalidationHandler) Stats() HandlerStats {
	return HandlerStats{
		Handled: h.handled.Load(),
		Dropped: h.dropped.Load(),
	}
}
