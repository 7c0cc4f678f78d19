// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/reelrank/internal/catalog"
	"github.com/tomtom215/reelrank/internal/models"
	"github.com/tomtom215/reelrank/internal/recommend"
)

// Recommendations returns the top-n unrated items for a user.
//
// Query parameters:
//   - n: result count, default recommend.limits.default_recommendations
//   - mode: "user" (predicted ratings, default) or "item" (item similarity)
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		respondBadRequest(w, err)
		return
	}

	rawMode := r.URL.Query().Get("mode")
	mode, ok := recommend.ParseMode(rawMode)
	if !ok {
		respondBadRequest(w, fmt.Errorf("%w: mode %q must be one of user, item", ErrInvalidParameter, sanitizeLogValue(rawMode)))
		return
	}

	n, err := parseCountParam(r, "n", h.engine.Config().Limits.DefaultRecommendations, h.maxResults())
	if err != nil {
		respondBadRequest(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if _, err := h.store.GetUser(ctx, userID); err != nil {
		respondStoreError(w, err, "User not found")
		return
	}

	result, err := h.engine.Recommend(ctx, mode, userID, n)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	items, err := h.resolveItems(ctx, result.Items)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.RecommendationsResponse{
			UserID:          userID,
			Mode:            mode.String(),
			Recommendations: items,
		},
		Metadata: resultMetadata(result, start),
	})
}

// SimilarUsers returns the k users most similar to a user.
func (h *Handler) SimilarUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		respondBadRequest(w, err)
		return
	}

	k, err := parseCountParam(r, "n", h.engine.Config().Limits.DefaultSimilarUsers, h.maxResults())
	if err != nil {
		respondBadRequest(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if _, err := h.store.GetUser(ctx, userID); err != nil {
		respondStoreError(w, err, "User not found")
		return
	}

	result, err := h.engine.SimilarUsers(ctx, userID, k)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	similar := make([]models.SimilarUser, 0, len(result.Users))
	for _, u := range result.Users {
		user, err := h.store.GetUser(ctx, u.UserID)
		if errors.Is(err, catalog.ErrNotFound) {
			continue
		}
		if err != nil {
			respondStoreError(w, err, "")
			return
		}
		similar = append(similar, models.SimilarUser{User: user, Similarity: u.Similarity})
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.SimilarUsersResponse{
			UserID:       userID,
			SimilarUsers: similar,
		},
		Metadata: resultMetadata(result, start),
	})
}

// SimilarItems returns the n items most similar to an item.
func (h *Handler) SimilarItems(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	itemID, err := parseIDParam(r, "itemID")
	if err != nil {
		respondBadRequest(w, err)
		return
	}

	n, err := parseCountParam(r, "n", h.engine.Config().Limits.DefaultSimilarItems, h.maxResults())
	if err != nil {
		respondBadRequest(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if _, err := h.store.GetItem(ctx, itemID); err != nil {
		respondStoreError(w, err, "Item not found")
		return
	}

	result, err := h.engine.SimilarItems(ctx, itemID, n)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	items, err := h.resolveItems(ctx, result.Items)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.SimilarItemsResponse{
			ItemID:       itemID,
			SimilarItems: items,
		},
		Metadata: resultMetadata(result, start),
	})
}

// resolveItems attaches catalog records to scored item IDs, preserving rank
// order. IDs missing from the catalog are skipped.
func (h *Handler) resolveItems(ctx context.Context, scores []recommend.ItemScore) ([]models.ScoredItem, error) {
	out := make([]models.ScoredItem, 0, len(scores))
	for _, s := range scores {
		item, err := h.store.GetItem(ctx, s.ItemID)
		if errors.Is(err, catalog.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, models.ScoredItem{Item: item, Score: s.Score})
	}
	return out, nil
}

func resultMetadata(result *recommend.Result, start time.Time) models.Metadata {
	return models.Metadata{
		Timestamp:   time.Now(),
		QueryTimeMS: time.Since(start).Milliseconds(),
		Cached:      result.CacheHit,
		RequestID:   result.RequestID,
		DataVersion: result.DataVersion,
	}
}
