// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/tomtom215/reelrank/internal/recommend"
)

// MemoryStore keeps the catalog in process memory. Listings follow insertion
// order; replacing a user or item keeps its original position.
type MemoryStore struct {
	mu sync.RWMutex

	users     []recommend.User
	userIndex map[int]int
	items     []recommend.Item
	itemIndex map[int]int
	ratings   []recommend.Rating

	// byUser maps a user ID to positions in ratings.
	byUser map[int][]int

	version uint64
	closed  bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		userIndex: make(map[int]int),
		itemIndex: make(map[int]int),
		byUser:    make(map[int][]int),
	}
}

// Backend implements Store.
func (s *MemoryStore) Backend() string { return BackendMemory }

func (s *MemoryStore) checkOpen() error {
	if s.closed {
		return fmt.Errorf("memory store closed")
	}
	return nil
}

// Users implements recommend.DataProvider.
func (s *MemoryStore) Users(_ context.Context) (users []recommend.User, err error) {
	defer func(start time.Time) { observe(BackendMemory, "list_users", start, err) }(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	out := make([]recommend.User, len(s.users))
	for i, u := range s.users {
		out[i] = cloneUser(u)
	}
	return out, nil
}

// Items implements recommend.DataProvider.
func (s *MemoryStore) Items(_ context.Context) (items []recommend.Item, err error) {
	defer func(start time.Time) { observe(BackendMemory, "list_items", start, err) }(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	out := make([]recommend.Item, len(s.items))
	for i, it := range s.items {
		out[i] = cloneItem(it)
	}
	return out, nil
}

// Ratings implements recommend.DataProvider.
func (s *MemoryStore) Ratings(_ context.Context) (ratings []recommend.Rating, err error) {
	defer func(start time.Time) { observe(BackendMemory, "list_ratings", start, err) }(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return slices.Clone(s.ratings), nil
}

// Version implements recommend.DataProvider.
func (s *MemoryStore) Version(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	return s.version, nil
}

// GetUser implements Store.
func (s *MemoryStore) GetUser(_ context.Context, id int) (user recommend.User, err error) {
	defer func(start time.Time) { observe(BackendMemory, "get_user", start, err) }(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return recommend.User{}, err
	}
	pos, ok := s.userIndex[id]
	if !ok {
		return recommend.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return cloneUser(s.users[pos]), nil
}

// GetItem implements Store.
func (s *MemoryStore) GetItem(_ context.Context, id int) (item recommend.Item, err error) {
	defer func(start time.Time) { observe(BackendMemory, "get_item", start, err) }(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return recommend.Item{}, err
	}
	pos, ok := s.itemIndex[id]
	if !ok {
		return recommend.Item{}, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return cloneItem(s.items[pos]), nil
}

// RatingsByUser implements Store.
func (s *MemoryStore) RatingsByUser(_ context.Context, userID int) (ratings []recommend.Rating, err error) {
	defer func(start time.Time) { observe(BackendMemory, "ratings_by_user", start, err) }(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	positions := s.byUser[userID]
	out := make([]recommend.Rating, 0, len(positions))
	for _, pos := range positions {
		out = append(out, s.ratings[pos])
	}
	return out, nil
}

// GetRating implements Store.
func (s *MemoryStore) GetRating(_ context.Context, userID, itemID int) (rating recommend.Rating, err error) {
	defer func(start time.Time) { observe(BackendMemory, "get_rating", start, err) }(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return recommend.Rating{}, err
	}
	positions := s.byUser[userID]
	for i := len(positions) - 1; i >= 0; i-- {
		if r := s.ratings[positions[i]]; r.ItemID == itemID {
			return r, nil
		}
	}
	return recommend.Rating{}, fmt.Errorf("rating user=%d item=%d: %w", userID, itemID, ErrNotFound)
}

// AddRating implements Store.
func (s *MemoryStore) AddRating(_ context.Context, r recommend.Rating) (stored recommend.Rating, err error) {
	defer func(start time.Time) { observe(BackendMemory, "add_rating", start, err) }(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return recommend.Rating{}, err
	}
	if _, ok := s.userIndex[r.UserID]; !ok {
		return recommend.Rating{}, fmt.Errorf("user %d: %w", r.UserID, ErrNotFound)
	}
	if _, ok := s.itemIndex[r.ItemID]; !ok {
		return recommend.Rating{}, fmt.Errorf("item %d: %w", r.ItemID, ErrNotFound)
	}

	r = stampRating(r)
	s.byUser[r.UserID] = append(s.byUser[r.UserID], len(s.ratings))
	s.ratings = append(s.ratings, r)
	s.version++
	return r, nil
}

// PutUser implements Store.
func (s *MemoryStore) PutUser(_ context.Context, u recommend.User) (err error) {
	defer func(start time.Time) { observe(BackendMemory, "put_user", start, err) }(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	u = cloneUser(u)
	if pos, ok := s.userIndex[u.ID]; ok {
		s.users[pos] = u
	} else {
		s.userIndex[u.ID] = len(s.users)
		s.users = append(s.users, u)
	}
	s.version++
	return nil
}

// PutItem implements Store.
func (s *MemoryStore) PutItem(_ context.Context, it recommend.Item) (err error) {
	defer func(start time.Time) { observe(BackendMemory, "put_item", start, err) }(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	it = cloneItem(it)
	if pos, ok := s.itemIndex[it.ID]; ok {
		s.items[pos] = it
	} else {
		s.itemIndex[it.ID] = len(s.items)
		s.items = append(s.items, it)
	}
	s.version++
	return nil
}

// Close implements Store. Further calls return an error.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func cloneUser(u recommend.User) recommend.User {
	u.Preferences = slices.Clone(u.Preferences)
	return u
}

func cloneItem(it recommend.Item) recommend.Item {
	it.Tags = slices.Clone(it.Tags)
	return it
}
