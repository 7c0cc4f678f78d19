// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package models

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/tomtom215/reelrank/internal/recommend"
)

// CreateRatingRequest is the body of POST /api/v1/ratings.
// Timestamp is optional; the server stamps the current time when it is absent.
type CreateRatingRequest struct {
	UserID    int         `json:"userId" validate:"required,gte=1"`
	ItemID    int         `json:"itemId" validate:"required,gte=1"`
	Rating    float64     `json:"rating" validate:"required,gte=1,lte=5"`
	Review    string      `json:"review" validate:"required,max=2000"`
	Timestamp *RatingTime `json:"timestamp,omitempty"`
}

// RatingTime decodes either an RFC 3339 string or Unix epoch seconds,
// fractional seconds included.
type RatingTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *RatingTime) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return t.Time.UnmarshalJSON(data)
	}
	secs, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("timestamp must be an RFC 3339 string or epoch seconds: %w", err)
	}
	whole, frac := math.Modf(secs)
	t.Time = time.Unix(int64(whole), int64(math.Round(frac*1e9))).UTC()
	return nil
}

// ToRating converts the request into a catalog rating.
func (r *CreateRatingRequest) ToRating() recommend.Rating {
	rating := recommend.Rating{
		UserID: r.UserID,
		ItemID: r.ItemID,
		Score:  r.Rating,
		Review: r.Review,
	}
	if r.Timestamp != nil {
		rating.Timestamp = r.Timestamp.UTC()
	}
	return rating
}

// ScoredItem is a recommended or similar item with its catalog record resolved.
type ScoredItem struct {
	Item  recommend.Item `json:"item"`
	Score float64        `json:"score"`
}

// RecommendationsResponse is returned by GET /recommendations/{userID}.
type RecommendationsResponse struct {
	UserID          int          `json:"user_id"`
	Mode            string       `json:"mode"`
	Recommendations []ScoredItem `json:"recommendations"`
}

// SimilarUser is a neighbour with its catalog record resolved.
type SimilarUser struct {
	User       recommend.User `json:"user"`
	Similarity float64        `json:"similarity"`
}

// SimilarUsersResponse is returned by GET /similar-users/{userID}.
type SimilarUsersResponse struct {
	UserID       int           `json:"user_id"`
	SimilarUsers []SimilarUser `json:"similar_users"`
}

// SimilarItemsResponse is returned by GET /similar-items/{itemID}.
type SimilarItemsResponse struct {
	ItemID       int          `json:"item_id"`
	SimilarItems []ScoredItem `json:"similar_items"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status    string          `json:"status"`
	Uptime    float64         `json:"uptime_seconds"`
	Storage   string          `json:"storage"`
	Engine    recommend.Stats `json:"engine"`
	Timestamp time.Time       `json:"timestamp"`
}
