// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/reelrank/internal/recommend"
)

// SchemaVersion is the current event schema version.
const SchemaVersion = 1

// TopicRatingAdded carries RatingAddedEvent payloads.
const TopicRatingAdded = "rating.added"

// RatingAddedEvent announces a stored rating.
type RatingAddedEvent struct {
	SchemaVersion int `json:"schema_version"`

	EventID       string    `json:"event_id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`

	UserID  int       `json:"user_id"`
	ItemID  int       `json:"item_id"`
	Rating  float64   `json:"rating"`
	Review  string    `json:"review,omitempty"`
	RatedAt time.Time `json:"rated_at"`
}

// NewRatingAddedEvent builds an event for a stored rating.
func NewRatingAddedEvent(r recommend.Rating, correlationID string) *RatingAddedEvent {
	return &RatingAddedEvent{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.NewString(),
		CorrelationID: correlationID,
		OccurredAt:    time.Now().UTC(),
		UserID:        r.UserID,
		ItemID:        r.ItemID,
		Rating:        r.Score,
		Review:        r.Review,
		RatedAt:       r.Timestamp,
	}
}

// Topic returns the topic the event is published on.
func (e *RatingAddedEvent) Topic() string {
	return TopicRatingAdded
}

// Validate checks required fields.
func (e *RatingAddedEvent) Validate() error {
	switch {
	case e.EventID == "":
		return fmt.Errorf("%w: event_id is required", ErrInvalidEvent)
	case e.UserID <= 0:
		return fmt.Errorf("%w: user_id must be positive, got %d", ErrInvalidEvent, e.UserID)
	case e.ItemID <= 0:
		return fmt.Errorf("%w: item_id must be positive, got %d", ErrInvalidEvent, e.ItemID)
	case e.Rating <= 0:
		return fmt.Errorf("%w: rating must be positive, got %v", ErrInvalidEvent, e.Rating)
	}
	return nil
}

// ToRating converts the event back to a rating record.
func (e *RatingAddedEvent) ToRating() recommend.Rating {
	return recommend.Rating{
		UserID:    e.UserID,
		ItemID:    e.ItemID,
		Score:     e.Rating,
		Review:    e.Review,
		Timestamp: e.RatedAt,
	}
}
