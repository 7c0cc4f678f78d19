// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/reelrank/internal/cache"
	"github.com/tomtom215/reelrank/internal/metrics"
)

// ErrNoSnapshot is returned when no rating matrix could be built and none is cached.
var ErrNoSnapshot = errors.New("no rating snapshot available")

const (
	breakerName    = "recommend-provider"
	resultCacheTyp = "recommend_results"
)

// DataProvider supplies the catalogs a rating matrix is built from.
// This is typically implemented by one of the catalog stores.
type DataProvider interface {
	// Users returns the full user catalog in a stable order.
	Users(ctx context.Context) ([]User, error)

	// Items returns the full item catalog in a stable order.
	Items(ctx context.Context) ([]Item, error)

	// Ratings returns every rating record in insertion order.
	Ratings(ctx context.Context) ([]Rating, error)

	// Version returns a counter that changes whenever users, items or ratings change.
	Version(ctx context.Context) (uint64, error)
}

// Snapshot is an immutable rating matrix tagged with the data version it was
// built from.
type Snapshot struct {
	Matrix  *RatingMatrix
	Version uint64
	BuiltAt time.Time

	// generation is the engine invalidation generation at build start.
	generation uint64
}

// Result is the outcome of one engine operation.
type Result struct {
	RequestID   string           `json:"request_id"`
	Mode        Mode             `json:"-"`
	DataVersion uint64           `json:"data_version"`
	CacheHit    bool             `json:"cache_hit"`
	Items       []ItemScore      `json:"items,omitempty"`
	Users       []UserSimilarity `json:"users,omitempty"`
}

// Engine serves collaborative filtering results over the latest rating snapshot.
// It is safe for concurrent use.
type Engine struct {
	config   *Config
	logger   zerolog.Logger
	provider DataProvider

	predictor Predictor
	items     ItemRecommender

	breaker *gobreaker.CircuitBreaker[*Snapshot]
	flight  singleflight.Group

	snapshot   atomic.Pointer[Snapshot]
	generation atomic.Uint64

	results *cache.LRU[Result]

	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	rebuilds     atomic.Int64
	loadErrors   atomic.Int64
}

// NewEngine creates a recommendation engine reading from provider.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(provider DataProvider, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if provider == nil {
		return nil, errors.New("data provider is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config:    cfg.Clone(),
		logger:    logger.With().Str("component", "recommend").Logger(),
		provider:  provider,
		predictor: NewPredictor(cfg.Neighbors),
		items:     NewItemRecommender(cfg.SeedThreshold, cfg.MinCoRaters),
		results:   cache.NewLRU[Result](cfg.Cache.MaxEntries, cfg.Cache.TTL),
	}

	e.breaker = gobreaker.NewCircuitBreaker[*Snapshot](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Breaker.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordBreakerTransition(name, from.String(), to.String())
			e.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("provider circuit breaker state changed")
		},
	})

	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Snapshot returns a rating matrix built from the provider's current data version,
// rebuilding it when the version changed or Invalidate was called.
//
// Concurrent callers share a single rebuild. When a rebuild fails (or the breaker
// is open) the previous snapshot is served and the failure is logged; an error is
// returned only when no snapshot exists yet.
func (e *Engine) Snapshot(ctx context.Context) (*Snapshot, error) {
	current := e.snapshot.Load()

	version, err := e.provider.Version(ctx)
	if err != nil {
		e.loadErrors.Add(1)
		if current != nil {
			e.logger.Warn().Err(err).Msg("data version unavailable, serving previous snapshot")
			return current, nil
		}
		return nil, fmt.Errorf("%w: data version: %w", ErrNoSnapshot, err)
	}

	if e.isFresh(current, version) {
		return current, nil
	}

	v, err, _ := e.flight.Do("snapshot", func() (interface{}, error) {
		// Another flight may have finished while this caller waited.
		if latest := e.snapshot.Load(); e.isFresh(latest, version) {
			return latest, nil
		}
		return e.breaker.Execute(func() (*Snapshot, error) {
			return e.build(ctx, version)
		})
	})
	if err != nil {
		e.loadErrors.Add(1)
		if current != nil {
			e.logger.Warn().Err(err).
				Uint64("stale_version", current.Version).
				Uint64("wanted_version", version).
				Msg("snapshot rebuild failed, serving previous snapshot")
			return current, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrNoSnapshot, err)
	}

	return v.(*Snapshot), nil
}

// isFresh reports whether s still reflects version and no invalidation happened
// since it was built.
func (e *Engine) isFresh(s *Snapshot, version uint64) bool {
	return s != nil && s.Version == version && s.generation == e.generation.Load()
}

// build loads the three catalogs in parallel and constructs a new snapshot.
func (e *Engine) build(ctx context.Context, version uint64) (*Snapshot, error) {
	start := time.Now()
	generation := e.generation.Load()

	// The build is shared by every waiting caller; one caller's cancellation must
	// not fail the others.
	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.config.LoadTimeout)
	defer cancel()

	var (
		users   []User
		items   []Item
		ratings []Rating
	)

	g, gctx := errgroup.WithContext(loadCtx)
	g.Go(func() error {
		var err error
		users, err = e.provider.Users(gctx)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		items, err = e.provider.Items(gctx)
		if err != nil {
			return fmt.Errorf("load items: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ratings, err = e.provider.Ratings(gctx)
		if err != nil {
			return fmt.Errorf("load ratings: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		metrics.RecordSnapshotBuild(time.Since(start), version, 0, 0, 0, err)
		return nil, err
	}

	matrix := BuildRatingMatrix(ratings, users, items)
	snap := &Snapshot{
		Matrix:     matrix,
		Version:    version,
		BuiltAt:    time.Now(),
		generation: generation,
	}

	e.snapshot.Store(snap)
	e.rebuilds.Add(1)
	metrics.RecordSnapshotBuild(time.Since(start), version, matrix.NumUsers(), matrix.NumItems(), matrix.NumRatings(), nil)

	e.logger.Info().
		Uint64("data_version", version).
		Int("users", matrix.NumUsers()).
		Int("items", matrix.NumItems()).
		Int("ratings", matrix.NumRatings()).
		Dur("duration", time.Since(start)).
		Msg("rating snapshot rebuilt")

	return snap, nil
}

// Invalidate discards cached results and forces the next request to rebuild the
// rating snapshot.
func (e *Engine) Invalidate() {
	e.generation.Add(1)
	e.results.Clear()
	metrics.CacheSize.WithLabelValues(resultCacheTyp).Set(0)
	e.logger.Debug().Msg("recommendation cache invalidated")
}

// Recommend dispatches to PredictRatings or RecommendSimilarItems by mode.
func (e *Engine) Recommend(ctx context.Context, mode Mode, userID, n int) (*Result, error) {
	switch mode {
	case ModeUserBased:
		return e.PredictRatings(ctx, userID, n)
	case ModeItemBased:
		return e.RecommendSimilarItems(ctx, userID, n)
	default:
		return nil, fmt.Errorf("unsupported recommendation mode %q", mode.String())
	}
}

// PredictRatings returns up to n unrated items for userID ranked by predicted rating.
// n <= 0 selects the configured default.
func (e *Engine) PredictRatings(ctx context.Context, userID, n int) (*Result, error) {
	n = clampCount(n, e.config.Limits.DefaultRecommendations, e.config.Limits.MaxResults)
	return e.run(ctx, ModeUserBased, userID, n, func(m *RatingMatrix) Result {
		return Result{Items: e.predictor.Predict(m, userID, n)}
	})
}

// RecommendSimilarItems returns up to n unrated items for userID ranked by
// similarity to the items the user rated highly. n <= 0 selects the configured default.
func (e *Engine) RecommendSimilarItems(ctx context.Context, userID, n int) (*Result, error) {
	n = clampCount(n, e.config.Limits.DefaultRecommendations, e.config.Limits.MaxResults)
	return e.run(ctx, ModeItemBased, userID, n, func(m *RatingMatrix) Result {
		return Result{Items: e.items.Recommend(m, userID, n)}
	})
}

// SimilarUsers returns up to k users most similar to userID.
// k <= 0 selects the configured default.
func (e *Engine) SimilarUsers(ctx context.Context, userID, k int) (*Result, error) {
	k = clampCount(k, e.config.Limits.DefaultSimilarUsers, e.config.Limits.MaxResults)
	return e.run(ctx, ModeSimilarUsers, userID, k, func(m *RatingMatrix) Result {
		return Result{Users: FindSimilarUsers(m, userID, k)}
	})
}

// SimilarItems returns up to n items most similar to itemID.
// n <= 0 selects the configured default.
func (e *Engine) SimilarItems(ctx context.Context, itemID, n int) (*Result, error) {
	n = clampCount(n, e.config.Limits.DefaultSimilarItems, e.config.Limits.MaxResults)
	return e.run(ctx, ModeSimilarItems, itemID, n, func(m *RatingMatrix) Result {
		return Result{Items: e.items.SimilarItems(m, itemID, n)}
	})
}

// run resolves the snapshot, consults the result cache and otherwise computes
// and caches the result.
func (e *Engine) run(ctx context.Context, mode Mode, id, n int, compute func(*RatingMatrix) Result) (*Result, error) {
	e.requestCount.Add(1)
	requestID := uuid.NewString()
	logger := e.logger.With().
		Str("request_id", requestID).
		Str("mode", mode.String()).
		Int("target_id", id).
		Int("n", n).
		Logger()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap, err := e.Snapshot(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("recommendation failed")
		return nil, err
	}

	key := fmt.Sprintf("%s:%d:%d:%d:%d", mode.String(), snap.Version, snap.generation, id, n)

	if e.config.Cache.Enabled {
		if cached, ok := e.results.Get(key); ok {
			e.cacheHits.Add(1)
			metrics.RecordCacheLookup(resultCacheTyp, true)
			logger.Debug().Msg("cache hit")

			res := cloneResult(cached)
			res.RequestID = requestID
			res.CacheHit = true
			return &res, nil
		}
		e.cacheMisses.Add(1)
		metrics.RecordCacheLookup(resultCacheTyp, false)
	}

	start := time.Now()
	res := compute(snap.Matrix)
	res.Mode = mode
	res.DataVersion = snap.Version
	elapsed := time.Since(start)

	size := len(res.Items) + len(res.Users)
	metrics.RecordRecommendation(mode.String(), size, elapsed)

	if e.config.Cache.Enabled {
		e.results.Add(key, cloneResult(res))
		metrics.CacheSize.WithLabelValues(resultCacheTyp).Set(float64(e.results.Len()))
	}

	logger.Debug().
		Int("returned", size).
		Uint64("data_version", snap.Version).
		Dur("duration", elapsed).
		Msg("recommendation complete")

	res.RequestID = requestID
	return &res, nil
}

// cloneResult copies the result slices so cached entries cannot be mutated by callers.
//
//nolint:gocritic // hugeParam: Result passed by value for immutability
func cloneResult(r Result) Result {
	if r.Items != nil {
		items := make([]ItemScore, len(r.Items))
		copy(items, r.Items)
		r.Items = items
	}
	if r.Users != nil {
		users := make([]UserSimilarity, len(r.Users))
		copy(users, r.Users)
		r.Users = users
	}
	return r
}

// Stats returns engine counters and the shape of the current snapshot.
func (e *Engine) Stats() Stats {
	s := Stats{
		TotalRequests: e.requestCount.Load(),
		CacheHits:     e.cacheHits.Load(),
		CacheMisses:   e.cacheMisses.Load(),
		Rebuilds:      e.rebuilds.Load(),
		LoadErrors:    e.loadErrors.Load(),
		BreakerState:  e.breaker.State().String(),
	}
	if snap := e.snapshot.Load(); snap != nil {
		s.DataVersion = snap.Version
		s.SnapshotBuiltAt = snap.BuiltAt
		s.Users = snap.Matrix.NumUsers()
		s.Items = snap.Matrix.NumItems()
		s.Ratings = snap.Matrix.NumRatings()
	}
	return s
}

// Ready reports whether a snapshot has been built.
func (e *Engine) Ready() bool {
	return e.snapshot.Load() != nil
}
