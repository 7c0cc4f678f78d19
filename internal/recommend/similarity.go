// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// MinUserSupport is the number of co-rated items two users need before their
// similarity is defined.
const MinUserSupport = 1

// supportBuffers holds scratch slices reused across cosine computations so a
// pass over the whole matrix does not allocate per pair.
type supportBuffers struct {
	a []float64
	b []float64
}

func newSupportBuffers(capacity int) *supportBuffers {
	return &supportBuffers{
		a: make([]float64, 0, capacity),
		b: make([]float64, 0, capacity),
	}
}

// cosine returns the cosine similarity of x and y computed over common support:
// only positions where both vectors hold a rating contribute. ok is false when
// fewer than minSupport positions are shared or either restricted vector has zero
// magnitude; such pairs have no similarity rather than a similarity of 0.
//
// The norm product is taken as sqrt(|a|^2 * |b|^2) so identical restricted
// vectors yield exactly 1 and swapping x and y yields the same bits.
func (s *supportBuffers) cosine(x, y []float64, minSupport int) (sim float64, ok bool) {
	s.a, s.b = s.a[:0], s.b[:0]
	for i := range x {
		if isRated(x[i]) && isRated(y[i]) {
			s.a = append(s.a, x[i])
			s.b = append(s.b, y[i])
		}
	}

	if len(s.a) == 0 || len(s.a) < minSupport {
		return 0, false
	}

	normA := floats.Dot(s.a, s.a)
	normB := floats.Dot(s.b, s.b)
	if normA == 0 || normB == 0 {
		return 0, false
	}

	return floats.Dot(s.a, s.b) / math.Sqrt(normA*normB), true
}

// FindSimilarUsers returns up to k users most similar to targetUserID, ordered by
// similarity descending.
//
// Similarity is cosine over the items both users rated. Users sharing no rated
// item with the target are omitted, as is the target itself. Equal similarities
// keep row order, though callers should not depend on it. An unknown target or a
// non-positive k yields an empty result.
func FindSimilarUsers(m *RatingMatrix, targetUserID, k int) []UserSimilarity {
	if m == nil || k <= 0 {
		return []UserSimilarity{}
	}
	target, ok := m.UserIndex(targetUserID)
	if !ok {
		return []UserSimilarity{}
	}

	targetRow := m.row(target)
	buf := newSupportBuffers(m.NumItems())
	similar := make([]UserSimilarity, 0, m.NumUsers())

	for i := 0; i < m.NumUsers(); i++ {
		if i == target {
			continue
		}
		sim, ok := buf.cosine(targetRow, m.row(i), MinUserSupport)
		if !ok {
			continue
		}
		similar = append(similar, UserSimilarity{UserID: m.UserID(i), Similarity: sim})
	}

	sort.SliceStable(similar, func(a, b int) bool {
		return similar[a].Similarity > similar[b].Similarity
	})

	if len(similar) > k {
		similar = similar[:k]
	}
	return similar
}

// UserSimilarityBetween returns the similarity of two users. ok is false when
// either user is unknown, the users are the same, or they share no rated item.
func UserSimilarityBetween(m *RatingMatrix, u, v int) (float64, bool) {
	if m == nil || u == v {
		return 0, false
	}
	i, okU := m.UserIndex(u)
	j, okV := m.UserIndex(v)
	if !okU || !okV {
		return 0, false
	}
	return newSupportBuffers(m.NumItems()).cosine(m.row(i), m.row(j), MinUserSupport)
}

// sortItemScores orders scores descending, keeping input order for ties.
func sortItemScores(scores []ItemScore) {
	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].Score > scores[b].Score
	})
}

// truncateItemScores caps scores at n entries.
func truncateItemScores(scores []ItemScore, n int) []ItemScore {
	if n <= 0 {
		return []ItemScore{}
	}
	if len(scores) > n {
		return scores[:n]
	}
	return scores
}
