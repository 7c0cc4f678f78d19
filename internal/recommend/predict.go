// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

// DefaultNeighbors is the neighbourhood size used when none is configured.
const DefaultNeighbors = 3

// Predictor implements user-based collaborative filtering.
//
// For a target user u and an item i that u has not rated:
//
//	pred(u, i) = sum_{v in N(u), r(v,i) > 0} sim(u, v) * r(v, i) / sum_{v in N(u), r(v,i) > 0} sim(u, v)
//
// where N(u) is the Neighbors most similar users from FindSimilarUsers.
type Predictor struct {
	// Neighbors is the number of similar users consulted per prediction.
	Neighbors int
}

// NewPredictor creates a Predictor. A non-positive neighbour count falls back to
// DefaultNeighbors.
func NewPredictor(neighbors int) Predictor {
	if neighbors <= 0 {
		neighbors = DefaultNeighbors
	}
	return Predictor{Neighbors: neighbors}
}

// Predict returns up to n items targetUserID has not rated, ordered by predicted
// rating descending.
//
// Items no neighbour has rated are dropped rather than scored 0, so the result
// length is min(n, items with at least one contributing neighbour). An unknown
// user or a non-positive n yields an empty result.
func (p Predictor) Predict(m *RatingMatrix, targetUserID, n int) []ItemScore {
	if m == nil || n <= 0 {
		return []ItemScore{}
	}
	target, ok := m.UserIndex(targetUserID)
	if !ok {
		return []ItemScore{}
	}

	neighbors := p.Neighbors
	if neighbors <= 0 {
		neighbors = DefaultNeighbors
	}

	similar := FindSimilarUsers(m, targetUserID, neighbors)
	if len(similar) == 0 {
		return []ItemScore{}
	}

	// Resolve neighbour rows once; every candidate item reads them.
	rows := make([][]float64, len(similar))
	for i, s := range similar {
		row, _ := m.UserIndex(s.UserID)
		rows[i] = m.row(row)
	}

	targetRow := m.row(target)
	predictions := make([]ItemScore, 0, m.NumItems())

	for col, v := range targetRow {
		if isRated(v) {
			continue
		}

		var weighted, simSum float64
		for i, s := range similar {
			r := rows[i][col]
			if !isRated(r) {
				continue
			}
			weighted += s.Similarity * r
			simSum += s.Similarity
		}

		if simSum == 0 {
			continue
		}

		predictions = append(predictions, ItemScore{
			ItemID: m.ItemID(col),
			Score:  weighted / simSum,
		})
	}

	sortItemScores(predictions)
	return truncateItemScores(predictions, n)
}
