// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestSanitizeLogValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: "line\nbreak", want: `line\x0abreak`},
		{in: "tab\tcr\r", want: `tab\x09cr\x0d`},
		{in: "del\x7f", want: `del\x7f`},
	}
	for _, tt := range tests {
		if got := sanitizeLogValue(tt.in); got != tt.want {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateETag_Stable(t *testing.T) {
	a := generateETag([]byte(`{"a":1}`))
	b := generateETag([]byte(`{"a":1}`))
	c := generateETag([]byte(`{"a":2}`))

	if a != b {
		t.Errorf("same input produced %q and %q", a, b)
	}
	if a == c {
		t.Error("different input produced the same ETag")
	}
	if a[0] != '"' || a[len(a)-1] != '"' {
		t.Errorf("ETag %q is not quoted", a)
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestParseIDParam(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "1", want: 1},
		{raw: "42", want: 42},
		{raw: "0", wantErr: true},
		{raw: "-3", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "userID", tt.raw)
			got, err := parseIDParam(req, "userID")
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidID) {
					t.Errorf("err = %v, want ErrInvalidID", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("parseIDParam() = %d, %v; want %d", got, err, tt.want)
			}
		})
	}
}

func TestParseCountParam(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    int
		wantErr bool
	}{
		{name: "absent uses default", query: "", want: 5},
		{name: "explicit", query: "?n=7", want: 7},
		{name: "at max", query: "?n=10", want: 10},
		{name: "above max", query: "?n=11", wantErr: true},
		{name: "zero", query: "?n=0", wantErr: true},
		{name: "negative", query: "?n=-2", wantErr: true},
		{name: "float", query: "?n=2.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			got, err := parseCountParam(req, "n", 5, 10)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidParameter) {
					t.Errorf("err = %v, want ErrInvalidParameter", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("parseCountParam() = %d, %v; want %d", got, err, tt.want)
			}
		})
	}
}
