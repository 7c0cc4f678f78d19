// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package catalog

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelrank/internal/recommend"
)

// Key prefixes for BadgerDB storage
const (
	userKeyPrefix       = "user:"
	itemKeyPrefix       = "item:"
	ratingKeyPrefix     = "rating:"
	ratingUserKeyPrefix = "rating_user:"
	versionKey          = "meta:version"
	ratingSeqKey        = "meta:rating_seq"

	// ratingSeqBandwidth is how many sequence numbers badger leases at once.
	ratingSeqBandwidth = 128
)

// BadgerOptions configures a BadgerStore.
type BadgerOptions struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in memory (tests).
	InMemory bool

	// Logger receives badger's internal log output.
	Logger zerolog.Logger
}

// BadgerStore implements Store on top of BadgerDB.
type BadgerStore struct {
	db  *badger.DB
	seq *badger.Sequence

	// writeMu serializes writers so the version key never conflicts.
	writeMu sync.Mutex
}

// NewBadgerStore opens (or creates) a BadgerDB-backed store.
func NewBadgerStore(opts BadgerOptions) (*BadgerStore, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, fmt.Errorf("badger path is required")
		}
		bopts = badger.DefaultOptions(opts.Path)
	}
	bopts = bopts.WithLogger(&badgerLogger{logger: opts.Logger.With().Str("component", "badger").Logger()})

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	seq, err := db.GetSequence([]byte(ratingSeqKey), ratingSeqBandwidth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("rating sequence: %w", err)
	}

	return &BadgerStore{db: db, seq: seq}, nil
}

// NewBadgerStoreFromDB wraps an already open database.
func NewBadgerStoreFromDB(db *badger.DB) (*BadgerStore, error) {
	seq, err := db.GetSequence([]byte(ratingSeqKey), ratingSeqBandwidth)
	if err != nil {
		return nil, fmt.Errorf("rating sequence: %w", err)
	}
	return &BadgerStore{db: db, seq: seq}, nil
}

// Backend implements Store.
func (s *BadgerStore) Backend() string { return BackendBadger }

func idKey(prefix string, id int) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefix, id))
}

func seqKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", ratingKeyPrefix, seq))
}

func ratingUserPrefix(userID int) []byte {
	return []byte(fmt.Sprintf("%s%020d:", ratingUserKeyPrefix, userID))
}

// Users implements recommend.DataProvider.
func (s *BadgerStore) Users(ctx context.Context) (users []recommend.User, err error) {
	defer func(start time.Time) { observe(BackendBadger, "list_users", start, err) }(time.Now())

	users = []recommend.User{}
	err = scanPrefix(ctx, s.db, userKeyPrefix, func(val []byte) error {
		var u recommend.User
		if err := json.Unmarshal(val, &u); err != nil {
			return fmt.Errorf("unmarshal user: %w", err)
		}
		users = append(users, u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Items implements recommend.DataProvider.
func (s *BadgerStore) Items(ctx context.Context) (items []recommend.Item, err error) {
	defer func(start time.Time) { observe(BackendBadger, "list_items", start, err) }(time.Now())

	items = []recommend.Item{}
	err = scanPrefix(ctx, s.db, itemKeyPrefix, func(val []byte) error {
		var it recommend.Item
		if err := json.Unmarshal(val, &it); err != nil {
			return fmt.Errorf("unmarshal item: %w", err)
		}
		items = append(items, it)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Ratings implements recommend.DataProvider.
func (s *BadgerStore) Ratings(ctx context.Context) (ratings []recommend.Rating, err error) {
	defer func(start time.Time) { observe(BackendBadger, "list_ratings", start, err) }(time.Now())

	ratings = []recommend.Rating{}
	err = scanPrefix(ctx, s.db, ratingKeyPrefix, func(val []byte) error {
		var r recommend.Rating
		if err := json.Unmarshal(val, &r); err != nil {
			return fmt.Errorf("unmarshal rating: %w", err)
		}
		ratings = append(ratings, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// scanPrefix calls fn with the value of every key under prefix, in key order.
func scanPrefix(ctx context.Context, db *badger.DB, prefix string, fn func(val []byte) error) error {
	return db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}

// Version implements recommend.DataProvider.
func (s *BadgerStore) Version(_ context.Context) (uint64, error) {
	var version uint64
	err := s.db.View(func(txn *badger.Txn) error {
		v, err := readVersion(txn)
		version = v
		return err
	})
	return version, err
}

func readVersion(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get([]byte(versionKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	var version uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt version value (%d bytes)", len(val))
		}
		version = binary.BigEndian.Uint64(val)
		return nil
	})
	return version, err
}

func bumpVersion(txn *badger.Txn) error {
	version, err := readVersion(txn)
	if err != nil {
		return err
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, version+1)
	return txn.Set([]byte(versionKey), buf)
}

// getJSON loads key into dst, mapping a missing key to ErrNotFound.
func getJSON(txn *badger.Txn, key []byte, dst any) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dst)
	})
}

// GetUser implements Store.
func (s *BadgerStore) GetUser(_ context.Context, id int) (user recommend.User, err error) {
	defer func(start time.Time) { observe(BackendBadger, "get_user", start, err) }(time.Now())

	err = s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, idKey(userKeyPrefix, id), &user)
	})
	if err != nil {
		return recommend.User{}, fmt.Errorf("user %d: %w", id, err)
	}
	return user, nil
}

// GetItem implements Store.
func (s *BadgerStore) GetItem(_ context.Context, id int) (item recommend.Item, err error) {
	defer func(start time.Time) { observe(BackendBadger, "get_item", start, err) }(time.Now())

	err = s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, idKey(itemKeyPrefix, id), &item)
	})
	if err != nil {
		return recommend.Item{}, fmt.Errorf("item %d: %w", id, err)
	}
	return item, nil
}

// RatingsByUser implements Store.
func (s *BadgerStore) RatingsByUser(ctx context.Context, userID int) (ratings []recommend.Rating, err error) {
	defer func(start time.Time) { observe(BackendBadger, "ratings_by_user", start, err) }(time.Now())

	ratings = []recommend.Rating{}
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		prefix := ratingUserPrefix(userID)
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			seq := strings.TrimPrefix(string(it.Item().Key()), string(prefix))
			var r recommend.Rating
			if err := getJSON(txn, []byte(ratingKeyPrefix+seq), &r); err != nil {
				return fmt.Errorf("rating %s: %w", seq, err)
			}
			ratings = append(ratings, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// GetRating implements Store.
func (s *BadgerStore) GetRating(ctx context.Context, userID, itemID int) (recommend.Rating, error) {
	ratings, err := s.RatingsByUser(ctx, userID)
	if err != nil {
		return recommend.Rating{}, err
	}
	for i := len(ratings) - 1; i >= 0; i-- {
		if ratings[i].ItemID == itemID {
			return ratings[i], nil
		}
	}
	return recommend.Rating{}, fmt.Errorf("rating user=%d item=%d: %w", userID, itemID, ErrNotFound)
}

// AddRating implements Store.
func (s *BadgerStore) AddRating(_ context.Context, r recommend.Rating) (stored recommend.Rating, err error) {
	defer func(start time.Time) { observe(BackendBadger, "add_rating", start, err) }(time.Now())

	r = stampRating(r)
	data, err := json.Marshal(r)
	if err != nil {
		return recommend.Rating{}, fmt.Errorf("marshal rating: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	seq, err := s.seq.Next()
	if err != nil {
		return recommend.Rating{}, fmt.Errorf("next rating sequence: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(idKey(userKeyPrefix, r.UserID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("user %d: %w", r.UserID, ErrNotFound)
			}
			return err
		}
		if _, err := txn.Get(idKey(itemKeyPrefix, r.ItemID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("item %d: %w", r.ItemID, ErrNotFound)
			}
			return err
		}

		if err := txn.Set(seqKey(seq), data); err != nil {
			return fmt.Errorf("set rating: %w", err)
		}

		indexKey := append(ratingUserPrefix(r.UserID), []byte(fmt.Sprintf("%020d", seq))...)
		if err := txn.Set(indexKey, nil); err != nil {
			return fmt.Errorf("set rating index: %w", err)
		}
		return bumpVersion(txn)
	})
	if err != nil {
		return recommend.Rating{}, err
	}
	return r, nil
}

// PutUser implements Store.
func (s *BadgerStore) PutUser(_ context.Context, u recommend.User) (err error) {
	defer func(start time.Time) { observe(BackendBadger, "put_user", start, err) }(time.Now())
	return s.put(idKey(userKeyPrefix, u.ID), u)
}

// PutItem implements Store.
func (s *BadgerStore) PutItem(_ context.Context, it recommend.Item) (err error) {
	defer func(start time.Time) { observe(BackendBadger, "put_item", start, err) }(time.Now())
	return s.put(idKey(itemKeyPrefix, it.ID), it)
}

func (s *BadgerStore) put(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		return bumpVersion(txn)
	})
}

// Close releases the rating sequence and closes the database.
func (s *BadgerStore) Close() error {
	var errs []error
	if err := s.seq.Release(); err != nil {
		errs = append(errs, fmt.Errorf("release sequence: %w", err))
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close badger: %w", err))
	}
	return errors.Join(errs...)
}

// badgerLogger routes badger's logging through zerolog.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace().Msgf(strings.TrimSpace(format), args...)
}
