// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/reelrank/internal/catalog"
	"github.com/tomtom215/reelrank/internal/logging"
	"github.com/tomtom215/reelrank/internal/models"
	"github.com/tomtom215/reelrank/internal/recommend"
)

// requestTimeout bounds store and engine work for a single request.
const requestTimeout = 10 * time.Second

// RatingPublisher announces stored ratings to the event bus.
type RatingPublisher interface {
	PublishRatingAdded(ctx context.Context, r recommend.Rating) error
}

// Handler serves the REST endpoints.
type Handler struct {
	store     catalog.Store
	engine    *recommend.Engine
	publisher RatingPublisher
	startTime time.Time
}

// NewHandler creates a handler. publisher may be nil, in which case the engine
// is invalidated directly after every stored rating.
func NewHandler(store catalog.Store, engine *recommend.Engine, publisher RatingPublisher) *Handler {
	return &Handler{
		store:     store,
		engine:    engine,
		publisher: publisher,
		startTime: time.Now(),
	}
}

// maxResults is the upper bound for every n/k query parameter.
func (h *Handler) maxResults() int {
	return h.engine.Config().Limits.MaxResults
}

// respondStoreError maps catalog errors to NOT_FOUND or DATABASE_ERROR.
func respondStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, notFoundMsg, nil)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeUnavail, "Request timed out", err)
	default:
		respondError(w, http.StatusInternalServerError, models.ErrCodeDatabase, "Failed to query catalog", err)
	}
}

// respondEngineError maps engine errors. A missing snapshot means the store
// cannot be read and no earlier snapshot exists.
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recommend.ErrNoSnapshot):
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeUnavail, "Recommendations are not available yet", err)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeUnavail, "Request timed out", err)
	default:
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to compute recommendations", err)
	}
}

// announceRating publishes a stored rating. When no publisher is configured, or
// publishing fails, the engine is invalidated in-process instead.
func (h *Handler) announceRating(ctx context.Context, r recommend.Rating) {
	if h.publisher != nil {
		err := h.publisher.PublishRatingAdded(ctx, r)
		if err == nil {
			return
		}
		logging.Ctx(ctx).Warn().Err(err).
			Int("user_id", r.UserID).
			Int("item_id", r.ItemID).
			Msg("rating event not published, invalidating engine directly")
	}
	h.engine.Invalidate()
}
