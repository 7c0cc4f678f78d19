// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package api

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/tomtom215/reelrank/internal/models"
)

// Seeded user 1 rated items 1, 2, 3, 6 and 9.
var user1Rated = map[int]bool{1: true, 2: true, 3: true, 6: true, 9: true}

func TestRecommendations_Modes(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name     string
		query    string
		wantMode string
		maxLen   int
	}{
		{name: "default mode and n", query: "", wantMode: "user_based", maxLen: 5},
		{name: "user mode", query: "?mode=user&n=3", wantMode: "user_based", maxLen: 3},
		{name: "item mode", query: "?mode=item&n=2", wantMode: "item_based", maxLen: 2},
		{name: "long mode name", query: "?mode=item_based", wantMode: "item_based", maxLen: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, http.MethodGet, "/api/v1/recommendations/1"+tt.query, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
			}

			env := decode[models.RecommendationsResponse](t, w)
			if env.Data.Mode != tt.wantMode {
				t.Errorf("Mode = %q, want %q", env.Data.Mode, tt.wantMode)
			}
			if env.Data.UserID != 1 {
				t.Errorf("UserID = %d, want 1", env.Data.UserID)
			}
			if len(env.Data.Recommendations) > tt.maxLen {
				t.Errorf("len = %d, want <= %d", len(env.Data.Recommendations), tt.maxLen)
			}
			if env.Metadata.RequestID == "" {
				t.Error("expected engine request ID in metadata")
			}

			for i, rec := range env.Data.Recommendations {
				if user1Rated[rec.Item.ID] {
					t.Errorf("recommended already rated item %d", rec.Item.ID)
				}
				if rec.Item.Name == "" {
					t.Errorf("item %d not resolved to a catalog record", rec.Item.ID)
				}
				if i > 0 && rec.Score > env.Data.Recommendations[i-1].Score {
					t.Errorf("scores not descending at %d: %v > %v", i, rec.Score, env.Data.Recommendations[i-1].Score)
				}
			}
		})
	}
}

func TestRecommendations_UserBasedIsNonEmpty(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(t, http.MethodGet, "/api/v1/recommendations/1", nil)
	env := decode[models.RecommendationsResponse](t, w)
	if len(env.Data.Recommendations) == 0 {
		t.Fatal("expected recommendations for a user with neighbours")
	}
}

func TestRecommendations_Rejections(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantErr  string
	}{
		{name: "unknown user", path: "/api/v1/recommendations/999", wantCode: http.StatusNotFound, wantErr: models.ErrCodeNotFound},
		{name: "bad user id", path: "/api/v1/recommendations/x", wantCode: http.StatusBadRequest, wantErr: models.ErrCodeValidation},
		{name: "bad mode", path: "/api/v1/recommendations/1?mode=svd", wantCode: http.StatusBadRequest, wantErr: models.ErrCodeValidation},
		{name: "n not integer", path: "/api/v1/recommendations/1?n=five", wantCode: http.StatusBadRequest, wantErr: models.ErrCodeValidation},
		{name: "n zero", path: "/api/v1/recommendations/1?n=0", wantCode: http.StatusBadRequest, wantErr: models.ErrCodeValidation},
		{name: "n above max", path: "/api/v1/recommendations/1?n=101", wantCode: http.StatusBadRequest, wantErr: models.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, http.MethodGet, tt.path, nil)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d; body %s", w.Code, tt.wantCode, w.Body.String())
			}
			if env := decode[any](t, w); env.Error == nil || env.Error.Code != tt.wantErr {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantErr)
			}
		})
	}
}

func TestRecommendations_CacheHitOnRepeat(t *testing.T) {
	srv := newTestServer(t, nil)

	first := decode[models.RecommendationsResponse](t, srv.do(t, http.MethodGet, "/api/v1/recommendations/2", nil))
	second := decode[models.RecommendationsResponse](t, srv.do(t, http.MethodGet, "/api/v1/recommendations/2", nil))

	if first.Metadata.Cached {
		t.Error("first request reported cached")
	}
	if !second.Metadata.Cached {
		t.Error("second request not served from cache")
	}
	if first.Metadata.RequestID == second.Metadata.RequestID {
		t.Error("cached response reused the request ID")
	}
}

func TestRecommendations_NewRatingExcludesItem(t *testing.T) {
	srv := newTestServer(t, &recordingPublisher{})

	before := decode[models.RecommendationsResponse](t, srv.do(t, http.MethodGet, "/api/v1/recommendations/1?n=5", nil))
	if len(before.Data.Recommendations) == 0 {
		t.Fatal("expected recommendations before rating")
	}
	target := before.Data.Recommendations[0].Item.ID

	body := []byte(`{"userId":1,"itemId":` + strconv.Itoa(target) + `,"rating":2,"review":"Not for me"}`)
	if w := srv.do(t, http.MethodPost, "/api/v1/ratings", body); w.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, want 201; body %s", w.Code, w.Body.String())
	}

	after := decode[models.RecommendationsResponse](t, srv.do(t, http.MethodGet, "/api/v1/recommendations/1?n=5", nil))
	if after.Metadata.DataVersion <= before.Metadata.DataVersion {
		t.Errorf("DataVersion = %d, want > %d", after.Metadata.DataVersion, before.Metadata.DataVersion)
	}
	for _, rec := range after.Data.Recommendations {
		if rec.Item.ID == target {
			t.Errorf("item %d still recommended after being rated", target)
		}
	}
}

func TestSimilarUsers(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(t, http.MethodGet, "/api/v1/similar-users/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	env := decode[models.SimilarUsersResponse](t, w)
	if len(env.Data.SimilarUsers) == 0 || len(env.Data.SimilarUsers) > 3 {
		t.Fatalf("len = %d, want 1..3", len(env.Data.SimilarUsers))
	}
	for i, su := range env.Data.SimilarUsers {
		if su.User.ID == 1 {
			t.Error("target user listed as its own neighbour")
		}
		if su.User.Name == "" {
			t.Errorf("user %d not resolved", su.User.ID)
		}
		if su.Similarity < -1 || su.Similarity > 1 {
			t.Errorf("similarity %v out of range", su.Similarity)
		}
		if i > 0 && su.Similarity > env.Data.SimilarUsers[i-1].Similarity {
			t.Errorf("similarities not descending at %d", i)
		}
	}

	if w := srv.do(t, http.MethodGet, "/api/v1/similar-users/1?n=9", nil); w.Code != http.StatusOK {
		t.Errorf("n=9 status = %d, want 200", w.Code)
	} else if got := len(decode[models.SimilarUsersResponse](t, w).Data.SimilarUsers); got > 9 {
		t.Errorf("n=9 returned %d users", got)
	}

	if w := srv.do(t, http.MethodGet, "/api/v1/similar-users/999", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown user status = %d, want 404", w.Code)
	}
}

func TestSimilarItems(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(t, http.MethodGet, "/api/v1/similar-items/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	env := decode[models.SimilarItemsResponse](t, w)
	if env.Data.ItemID != 1 {
		t.Errorf("ItemID = %d, want 1", env.Data.ItemID)
	}
	if len(env.Data.SimilarItems) == 0 || len(env.Data.SimilarItems) > 4 {
		t.Fatalf("len = %d, want 1..4", len(env.Data.SimilarItems))
	}
	for _, si := range env.Data.SimilarItems {
		if si.Item.ID == 1 {
			t.Error("target item listed as similar to itself")
		}
	}

	// Items 1 and 3 share all six raters with near-identical scores.
	if top := env.Data.SimilarItems[0].Item.ID; top != 3 {
		t.Errorf("top similar item = %d, want 3", top)
	}

	if w := srv.do(t, http.MethodGet, "/api/v1/similar-items/999", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown item status = %d, want 404", w.Code)
	}
	if w := srv.do(t, http.MethodGet, "/api/v1/similar-items/1?n=-1", nil); w.Code != http.StatusBadRequest {
		t.Errorf("n=-1 status = %d, want 400", w.Code)
	}
}
