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

// Users lists the user catalog.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	users, err := h.store.Users(ctx)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	if users == nil {
		users = []recommend.User{}
	}
	respondSuccess(w, http.StatusOK, users, start)
}

// User returns one user.
func (h *Handler) User(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		respondBadRequest(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := h.store.GetUser(ctx, userID)
	if err != nil {
		respondStoreError(w, err, "User not found")
		return
	}
	respondSuccess(w, http.StatusOK, user, start)
}

// Items lists the item catalog.
func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	items, err := h.store.Items(ctx)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	if items == nil {
		items = []recommend.Item{}
	}
	respondSuccess(w, http.StatusOK, items, start)
}

// Item returns one item.
func (h *Handler) Item(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	itemID, err := parseIDParam(r, "itemID")
	if err != nil {
		respondBadRequest(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	item, err := h.store.GetItem(ctx, itemID)
	if err != nil {
		respondStoreError(w, err, "Item not found")
		return
	}
	respondSuccess(w, http.StatusOK, item, start)
}

// Ratings lists every stored rating in insertion order.
func (h *Handler) Ratings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	ratings, err := h.store.Ratings(ctx)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	if ratings == nil {
		ratings = []recommend.Rating{}
	}
	respondSuccess(w, http.StatusOK, ratings, start)
}

// UserRatings lists one user's ratings. A user without ratings is reported as
// NOT_FOUND.
func (h *Handler) UserRatings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		respondBadRequest(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	ratings, err := h.store.RatingsByUser(ctx, userID)
	if err != nil {
		respondStoreError(w, err, "No ratings found for user")
		return
	}
	if len(ratings) == 0 {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "No ratings found for user", nil)
		return
	}
	respondSuccess(w, http.StatusOK, ratings, start)
}

// Rating returns the latest rating a user gave an item.
func (h *Handler) Rating(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	itemID, err := parseIDParam(r, "itemID")
	if err != nil {
		respondBadRequest(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	rating, err := h.store.GetRating(ctx, userID, itemID)
	if err != nil {
		respondStoreError(w, err, "Rating not found")
		return
	}
	respondSuccess(w, http.StatusOK, rating, start)
}

// CreateRating validates and stores a rating, then announces it so cached
// recommendations are rebuilt.
func (h *Handler) CreateRating(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateRatingRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if _, err := h.store.GetUser(ctx, req.UserID); err != nil {
		respondStoreError(w, err, "User not found")
		return
	}
	if _, err := h.store.GetItem(ctx, req.ItemID); err != nil {
		respondStoreError(w, err, "Item not found")
		return
	}

	stored, err := h.store.AddRating(ctx, req.ToRating())
	if err != nil {
		// The pair can vanish between the checks above and the write.
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "User or item not found", nil)
			return
		}
		respondStoreError(w, err, "")
		return
	}

	logging.Ctx(ctx).Info().
		Int("user_id", stored.UserID).
		Int("item_id", stored.ItemID).
		Float64("rating", stored.Score).
		Msg("rating stored")

	h.announceRating(ctx, stored)
	respondSuccess(w, http.StatusCreated, stored, start)
}
