// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

const (
	// DefaultSeedThreshold is the minimum rating that makes an item a seed.
	DefaultSeedThreshold = 4.0

	// DefaultMinCoRaters is the number of users who must have rated both items of a
	// pair before the pair gets a similarity. A single shared rater is too weak a
	// signal for item-item similarity.
	DefaultMinCoRaters = 2
)

// ItemRecommender implements item-based collaborative filtering.
type ItemRecommender struct {
	// SeedThreshold is the minimum rating for an item to seed recommendations.
	SeedThreshold float64

	// MinCoRaters is the minimum number of users who rated both items of a pair.
	MinCoRaters int
}

// NewItemRecommender creates an ItemRecommender. Non-positive arguments fall back
// to DefaultSeedThreshold and DefaultMinCoRaters.
func NewItemRecommender(seedThreshold float64, minCoRaters int) ItemRecommender {
	r := ItemRecommender{SeedThreshold: seedThreshold, MinCoRaters: minCoRaters}
	return r.withDefaults()
}

func (r ItemRecommender) withDefaults() ItemRecommender {
	if r.SeedThreshold <= 0 {
		r.SeedThreshold = DefaultSeedThreshold
	}
	if r.MinCoRaters <= 0 {
		r.MinCoRaters = DefaultMinCoRaters
	}
	return r
}

// Recommend returns up to n items similar to the ones targetUserID rated at or
// above SeedThreshold, ordered by similarity descending.
//
// Seeds are visited in column order. For each seed the unrated items are scored
// by cosine similarity over their co-raters and sorted; the per-seed lists are then
// concatenated. When an item is reachable from several seeds the FIRST occurrence
// in that concatenation is kept, not the highest-scoring one. The surviving
// entries are re-sorted and truncated to n.
//
// An unknown user, a user with no seed item or a non-positive n yields an empty
// result.
func (r ItemRecommender) Recommend(m *RatingMatrix, targetUserID, n int) []ItemScore {
	if m == nil || n <= 0 {
		return []ItemScore{}
	}
	target, ok := m.UserIndex(targetUserID)
	if !ok {
		return []ItemScore{}
	}
	r = r.withDefaults()

	targetRow := m.row(target)
	seeds := make([]int, 0)
	for col, v := range targetRow {
		if v >= r.SeedThreshold {
			seeds = append(seeds, col)
		}
	}
	if len(seeds) == 0 {
		return []ItemScore{}
	}

	cols := m.columns()
	buf := newSupportBuffers(m.NumUsers())

	combined := make([]ItemScore, 0)
	for _, seed := range seeds {
		perSeed := make([]ItemScore, 0)
		for col := range cols {
			if col == seed || isRated(targetRow[col]) {
				continue
			}
			sim, ok := buf.cosine(cols[seed], cols[col], r.MinCoRaters)
			if !ok {
				continue
			}
			perSeed = append(perSeed, ItemScore{ItemID: m.ItemID(col), Score: sim})
		}
		sortItemScores(perSeed)
		combined = append(combined, perSeed...)
	}

	seen := make(map[int]struct{}, len(combined))
	unique := combined[:0]
	for _, s := range combined {
		if _, dup := seen[s.ItemID]; dup {
			continue
		}
		seen[s.ItemID] = struct{}{}
		unique = append(unique, s)
	}

	sortItemScores(unique)
	return truncateItemScores(unique, n)
}

// SimilarItems returns up to n items most similar to itemID, ordered by
// similarity descending. Pairs with fewer than MinCoRaters co-raters are omitted.
// An unknown item or a non-positive n yields an empty result.
func (r ItemRecommender) SimilarItems(m *RatingMatrix, itemID, n int) []ItemScore {
	if m == nil || n <= 0 {
		return []ItemScore{}
	}
	target, ok := m.ItemIndex(itemID)
	if !ok {
		return []ItemScore{}
	}
	r = r.withDefaults()

	targetCol := m.column(target)
	buf := newSupportBuffers(m.NumUsers())
	similar := make([]ItemScore, 0, m.NumItems())

	for col := 0; col < m.NumItems(); col++ {
		if col == target {
			continue
		}
		sim, ok := buf.cosine(targetCol, m.column(col), r.MinCoRaters)
		if !ok {
			continue
		}
		similar = append(similar, ItemScore{ItemID: m.ItemID(col), Score: sim})
	}

	sortItemScores(similar)
	return truncateItemScores(similar, n)
}
