// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import (
	"time"
)

// User is a member of the user catalog.
type User struct {
	// ID is the stable user identifier.
	ID int `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Preferences holds optional preference tags (genres, moods).
	Preferences []string `json:"preferences,omitempty"`
}

// Item is a member of the item catalog.
type Item struct {
	// ID is the stable item identifier.
	ID int `json:"id"`

	// Name is the item title.
	Name string `json:"name"`

	// Category is the primary category (Drama, Sci-Fi, ...).
	Category string `json:"category"`

	// Description is free-form descriptive text.
	Description string `json:"description,omitempty"`

	// Tags is the item's tag set.
	Tags []string `json:"tags,omitempty"`

	// ImageURL points at artwork for display.
	ImageURL string `json:"imageUrl,omitempty"`
}

// Rating is one explicit rating of an item by a user.
type Rating struct {
	UserID int `json:"userId"`
	ItemID int `json:"itemId"`

	// Score is the rating value. Valid scores are strictly positive;
	// the core does not validate them.
	Score float64 `json:"rating"`

	// Review is optional free text accompanying the score.
	Review string `json:"review,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// UserSimilarity pairs a neighbouring user with its similarity to a target user.
type UserSimilarity struct {
	UserID     int     `json:"user_id"`
	Similarity float64 `json:"similarity"`
}

// ItemScore pairs an item with a ranking score. Depending on the producing
// operation the score is a predicted rating or an item-item similarity.
type ItemScore struct {
	ItemID int     `json:"item_id"`
	Score  float64 `json:"score"`
}

// Mode identifies which recommendation operation produced a result.
type Mode int

const (
	// ModeUserBased ranks unrated items by similarity-weighted neighbour ratings.
	ModeUserBased Mode = iota
	// ModeItemBased ranks unrated items by similarity to the user's highly rated items.
	ModeItemBased
	// ModeSimilarUsers ranks users by similarity to a target user.
	ModeSimilarUsers
	// ModeSimilarItems ranks items by similarity to a target item.
	ModeSimilarItems
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeUserBased:
		return "user_based"
	case ModeItemBased:
		return "item_based"
	case ModeSimilarUsers:
		return "similar_users"
	case ModeSimilarItems:
		return "similar_items"
	default:
		return "unknown"
	}
}

// ParseMode converts a query-string mode name to a Mode.
// Both the short ("user", "item") and long ("user_based") spellings are accepted.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", "user", "user_based":
		return ModeUserBased, true
	case "item", "item_based":
		return ModeItemBased, true
	default:
		return ModeUserBased, false
	}
}

// Stats summarizes engine activity for health and diagnostics endpoints.
type Stats struct {
	// DataVersion is the provider version the current snapshot was built from.
	DataVersion uint64 `json:"data_version"`

	// SnapshotBuiltAt is when the current snapshot was built (zero if none).
	SnapshotBuiltAt time.Time `json:"snapshot_built_at"`

	Users   int `json:"users"`
	Items   int `json:"items"`
	Ratings int `json:"ratings"`

	TotalRequests int64 `json:"total_requests"`
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	Rebuilds      int64 `json:"rebuilds"`
	LoadErrors    int64 `json:"load_errors"`

	// BreakerState is the provider circuit breaker state (closed, open, half-open).
	BreakerState string `json:"breaker_state"`
}
