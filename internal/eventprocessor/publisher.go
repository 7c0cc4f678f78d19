// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package eventprocessor

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/reelrank/internal/logging"
	"github.com/tomtom215/reelrank/internal/metrics"
	"github.com/tomtom215/reelrank/internal/recommend"
)

// Publisher publishes rating events to a Watermill publisher.
type Publisher struct {
	publisher message.Publisher
	mu        sync.RWMutex
	closed    bool
}

// NewPublisher wraps pub.
func NewPublisher(pub message.Publisher) (*Publisher, error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}
	return &Publisher{publisher: pub}, nil
}

// Publish sends msg to topic.
func (p *Publisher) Publish(_ context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	metrics.EventsPublished.WithLabelValues(topic).Inc()
	return nil
}

// PublishEvent serializes and publishes a rating event.
func (p *Publisher) PublishEvent(ctx context.Context, event *RatingAddedEvent) error {
	data, err := SerializeEvent(event)
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}

	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set("user_id", strconv.Itoa(event.UserID))
	msg.Metadata.Set("item_id", strconv.Itoa(event.ItemID))
	if event.CorrelationID != "" {
		middleware.SetCorrelationID(event.CorrelationID, msg)
	}

	return p.Publish(ctx, event.Topic(), msg)
}

// PublishRatingAdded announces a stored rating, carrying the request's
// correlation ID when one is on ctx.
func (p *Publisher) PublishRatingAdded(ctx context.Context, r recommend.Rating) error {
	event := NewRatingAddedEvent(r, logging.CorrelationIDFromContext(ctx))
	if err := p.PublishEvent(ctx, event); err != nil {
		return err
	}
	logging.Ctx(ctx).Debug().
		Str("event_id", event.EventID).
		Int("user_id", r.UserID).
		Int("item_id", r.ItemID).
		Msg("Published rating event")
	return nil
}

// Close marks the publisher closed. The underlying bus is closed by its owner.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
