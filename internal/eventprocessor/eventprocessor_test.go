// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package eventprocessor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelrank/internal/logging"
	"github.com/tomtom215/reelrank/internal/metrics"
)

type countingInvalidator struct {
	calls atomic.Int64
}

func (c *countingInvalidator) Invalidate() { c.calls.Add(1) }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.BufferSize = 16
	cfg.HandlerTimeout = time.Second
	cfg.CloseTimeout = time.Second
	cfg.RetryMaxRetries = 1
	cfg.RetryInitialInterval = time.Millisecond
	return cfg
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestNewPublisher_Nil(t *testing.T) {
	if _, err := NewPublisher(nil); !errors.Is(err, ErrNilPublisher) {
		t.Errorf("NewPublisher(nil) error = %v, want ErrNilPublisher", err)
	}
}

func TestPublisher_PublishRatingAdded(t *testing.T) {
	bus := NewBus(testConfig(), watermill.NopLogger{})
	defer bus.Close()

	msgs, err := bus.Subscriber().Subscribe(context.Background(), TopicRatingAdded)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	pub, err := NewPublisher(bus.Publisher())
	if err != nil {
		t.Fatalf("NewPublisher() error = %v", err)
	}

	before := testutil.ToFloat64(metrics.EventsPublished.WithLabelValues(TopicRatingAdded))

	ctx := logging.ContextWithCorrelationID(context.Background(), "abcd1234")
	if err := pub.PublishRatingAdded(ctx, sampleRating()); err != nil {
		t.Fatalf("PublishRatingAdded() error = %v", err)
	}

	select {
	case msg := <-msgs:
		msg.Ack()
		if got := middleware.MessageCorrelationID(msg); got != "abcd1234" {
			t.Errorf("correlation id = %q, want abcd1234", got)
		}
		if got := msg.Metadata.Get("user_id"); got != "3" {
			t.Errorf("user_id metadata = %q, want 3", got)
		}
		event, err := DeserializeEvent(msg.Payload)
		if err != nil {
			t.Fatalf("DeserializeEvent() error = %v", err)
		}
		if event.EventID != msg.UUID {
			t.Errorf("message UUID = %q, want event id %q", msg.UUID, event.EventID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}

	if got := testutil.ToFloat64(metrics.EventsPublished.WithLabelValues(TopicRatingAdded)) - before; got != 1 {
		t.Errorf("events_published delta = %v, want 1", got)
	}
}

func TestPublisher_Closed(t *testing.T) {
	bus := NewBus(testConfig(), nil)
	defer bus.Close()

	pub, _ := NewPublisher(bus.Publisher())
	_ = pub.Close()

	if err := pub.PublishRatingAdded(context.Background(), sampleRating()); !errors.Is(err, ErrPublisherClosed) {
		t.Errorf("PublishRatingAdded() after Close error = %v, want ErrPublisherClosed", err)
	}
}

func TestInvalidationHandler_Handle(t *testing.T) {
	target := &countingInvalidator{}
	h := NewInvalidationHandler(target, zerolog.Nop())

	data, err := SerializeEvent(NewRatingAddedEvent(sampleRating(), ""))
	if err != nil {
		t.Fatal(err)
	}

	if err := h.Handle(message.NewMessage("m1", data)); err != nil {
		t.Fatalf("Handle(valid) error = %v", err)
	}
	if err := h.Handle(message.NewMessage("m2", []byte("garbage"))); err != nil {
		t.Fatalf("Handle(malformed) error = %v, want nil (dropped)", err)
	}

	if got := target.calls.Load(); got != 1 {
		t.Errorf("Invalidate calls = %d, want 1", got)
	}
	stats := h.Stats()
	if stats.Handled != 1 || stats.Dropped != 1 {
		t.Errorf("Stats() = %+v, want 1 handled and 1 dropped", stats)
	}
}

func TestInvalidationHandler_CanceledContext(t *testing.T) {
	target := &countingInvalidator{}
	h := NewInvalidationHandler(target, zerolog.Nop())

	data, _ := SerializeEvent(NewRatingAddedEvent(sampleRating(), ""))
	msg := message.NewMessage("m1", data)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	msg.SetContext(ctx)

	if err := h.Handle(msg); !errors.Is(err, context.Canceled) {
		t.Errorf("Handle() error = %v, want context.Canceled", err)
	}
	if target.calls.Load() != 0 {
		t.Error("Invalidate called for a canceled message")
	}
}

func TestRouter_EndToEnd(t *testing.T) {
	cfg := testConfig()
	bus := NewBus(cfg, nil)
	defer bus.Close()

	target := &countingInvalidator{}
	handler := NewInvalidationHandler(target, zerolog.Nop())

	router, err := NewRouter(cfg, nil)
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	router.AddConsumerHandler("test-invalidation", TopicRatingAdded, bus.Subscriber(), handler.Handle)

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- router.Run(ctx) }()

	select {
	case <-router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}
	if !router.IsRunning() {
		t.Error("IsRunning() = false while running")
	}

	pub, _ := NewPublisher(bus.Publisher())
	for i := 0; i < 3; i++ {
		if err := pub.PublishRatingAdded(context.Background(), sampleRating()); err != nil {
			t.Fatalf("PublishRatingAdded() error = %v", err)
		}
	}

	waitFor(t, 5*time.Second, func() bool { return target.calls.Load() == 3 })

	cancel()
	select {
	case <-runErr:
	case <-time.After(5 * time.Second):
		t.Fatal("router did not stop after cancel")
	}
}

func TestNewRouter_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.BufferSize = 0
	if _, err := NewRouter(cfg, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewRouter() error = %v, want ErrInvalidConfig", err)
	}
}

func TestConsumerService_Serve(t *testing.T) {
	cfg := testConfig()
	bus := NewBus(cfg, nil)
	defer bus.Close()

	target := &countingInvalidator{}
	svc := NewConsumerService(cfg, bus.Subscriber(), NewInvalidationHandler(target, zerolog.Nop()), nil)
	if svc.String() != "rating-event-consumer" {
		t.Errorf("String() = %q", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() { serveErr <- svc.Serve(ctx) }()

	// The bus is not persistent: keep publishing until the consumer subscribes.
	pub, _ := NewPublisher(bus.Publisher())
	waitFor(t, 5*time.Second, func() bool {
		_ = pub.PublishRatingAdded(context.Background(), sampleRating())
		return target.calls.Load() > 0
	})

	cancel()
	select {
	case err := <-serveErr:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
