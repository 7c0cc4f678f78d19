// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import (
	"gonum.org/v1/gonum/mat"
)

// Unrated is the cell value for a (user, item) pair with no rating.
const Unrated = 0.0

// RatingMatrix is a dense users x items grid of explicit ratings.
//
// Row i belongs to the i-th user of the catalog passed to BuildRatingMatrix and
// column j to the j-th item. The userID<->row and itemID<->column mappings are
// bijective and fixed for the lifetime of the matrix. A RatingMatrix has no
// mutating methods and may be shared freely between goroutines.
type RatingMatrix struct {
	// data is nil when either catalog is empty (gonum rejects zero dimensions).
	data *mat.Dense

	userIDs []int
	itemIDs []int
	userIdx map[int]int
	itemIdx map[int]int

	// rated is the number of non-sentinel cells.
	rated int
}

// BuildRatingMatrix converts sparse rating records into a dense RatingMatrix.
//
// Catalog order assigns indices: users[0] is row 0, items[0] is column 0. If a
// catalog lists the same ID twice only the first occurrence gets an index, so
// the row count is the number of distinct user IDs and the column count the
// number of distinct item IDs.
//
// Ratings referencing an unknown user or item are skipped. When several ratings
// exist for the same (user, item) pair the one appearing last in ratings wins;
// callers that care about a specific record should deduplicate beforehand.
// Scores are stored as given, with no normalization.
func BuildRatingMatrix(ratings []Rating, users []User, items []Item) *RatingMatrix {
	m := &RatingMatrix{
		userIDs: make([]int, 0, len(users)),
		itemIDs: make([]int, 0, len(items)),
		userIdx: make(map[int]int, len(users)),
		itemIdx: make(map[int]int, len(items)),
	}

	for _, u := range users {
		if _, dup := m.userIdx[u.ID]; dup {
			continue
		}
		m.userIdx[u.ID] = len(m.userIDs)
		m.userIDs = append(m.userIDs, u.ID)
	}
	for _, it := range items {
		if _, dup := m.itemIdx[it.ID]; dup {
			continue
		}
		m.itemIdx[it.ID] = len(m.itemIDs)
		m.itemIDs = append(m.itemIDs, it.ID)
	}

	if len(m.userIDs) == 0 || len(m.itemIDs) == 0 {
		return m
	}

	m.data = mat.NewDense(len(m.userIDs), len(m.itemIDs), nil)

	//nolint:gocritic // rangeValCopy: Rating is small enough to copy
	for _, r := range ratings {
		row, okUser := m.userIdx[r.UserID]
		col, okItem := m.itemIdx[r.ItemID]
		if !okUser || !okItem {
			continue
		}
		prev := m.data.At(row, col)
		m.data.Set(row, col, r.Score)

		switch {
		case prev == Unrated && r.Score != Unrated:
			m.rated++
		case prev != Unrated && r.Score == Unrated:
			m.rated--
		}
	}

	return m
}

// NumUsers returns the number of rows.
func (m *RatingMatrix) NumUsers() int {
	return len(m.userIDs)
}

// NumItems returns the number of columns.
func (m *RatingMatrix) NumItems() int {
	return len(m.itemIDs)
}

// NumRatings returns the number of rated cells after duplicate resolution.
func (m *RatingMatrix) NumRatings() int {
	return m.rated
}

// UserIndex returns the row of a user ID.
func (m *RatingMatrix) UserIndex(userID int) (int, bool) {
	i, ok := m.userIdx[userID]
	return i, ok
}

// ItemIndex returns the column of an item ID.
func (m *RatingMatrix) ItemIndex(itemID int) (int, bool) {
	j, ok := m.itemIdx[itemID]
	return j, ok
}

// UserID returns the user ID stored at row i. It panics if i is out of range.
func (m *RatingMatrix) UserID(i int) int {
	return m.userIDs[i]
}

// ItemID returns the item ID stored at column j. It panics if j is out of range.
func (m *RatingMatrix) ItemID(j int) int {
	return m.itemIDs[j]
}

// UserIDs returns a copy of the user IDs in row order.
func (m *RatingMatrix) UserIDs() []int {
	out := make([]int, len(m.userIDs))
	copy(out, m.userIDs)
	return out
}

// ItemIDs returns a copy of the item IDs in column order.
func (m *RatingMatrix) ItemIDs() []int {
	out := make([]int, len(m.itemIDs))
	copy(out, m.itemIDs)
	return out
}

// At returns the cell for (row, col), Unrated when no rating was recorded.
func (m *RatingMatrix) At(row, col int) float64 {
	return m.data.At(row, col)
}

// Rating returns the score userID gave itemID. ok is false when either ID is
// unknown or the pair is unrated.
func (m *RatingMatrix) Rating(userID, itemID int) (score float64, ok bool) {
	row, okUser := m.userIdx[userID]
	col, okItem := m.itemIdx[itemID]
	if !okUser || !okItem {
		return 0, false
	}
	score = m.data.At(row, col)
	return score, score != Unrated
}

// Row returns a copy of a user's rating row.
func (m *RatingMatrix) Row(i int) []float64 {
	out := make([]float64, len(m.itemIDs))
	copy(out, m.row(i))
	return out
}

// row returns the backing slice of row i. Callers must not modify it.
func (m *RatingMatrix) row(i int) []float64 {
	if m.data == nil {
		return nil
	}
	return m.data.RawRowView(i)
}

// column returns a freshly allocated copy of column j.
func (m *RatingMatrix) column(j int) []float64 {
	if m.data == nil {
		return nil
	}
	return mat.Col(nil, j, m.data)
}

// columns materializes every column once, for item-item passes that revisit them.
func (m *RatingMatrix) columns() [][]float64 {
	cols := make([][]float64, len(m.itemIDs))
	for j := range cols {
		cols[j] = m.column(j)
	}
	return cols
}

// isRated reports whether a cell holds a rating.
func isRated(v float64) bool {
	return v != Unrated
}
