// ABOUTME: Weighted constraint scoring for a single packed ordering
// ABOUTME: Sums the weights of every satisfied AtPosition, Adjacent and OnSameSide constraint

package engine

import "albumseq/album"

// Score returns the sum of weights of all constraints satisfied by the ordering.
// Constraints naming absent titles, or naming the same title twice, contribute nothing.
// Titles match case-insensitively and a duplicated title resolves to its first occurrence.
func Score(ordering album.Tracklist, partition Partition, constraints []album.Constraint) int {
	score := 0

	for _, c := range constraints {
		if Satisfied(ordering, partition, c.Kind) {
			score += c.Weight
		}
	}

	return score
}

// ScoreWithBreakdown scores the ordering and reports which constraints were satisfied,
// indexed like constraints
func ScoreWithBreakdown(ordering album.Tracklist, partition Partition, constraints []album.Constraint) (int, []bool) {
	score := 0
	satisfied := make([]bool, len(constraints))

	for i, c := range constraints {
		if Satisfied(ordering, partition, c.Kind) {
			satisfied[i] = true
			score += c.Weight
		}
	}

	return score, satisfied
}

// Satisfied reports whether a single constraint kind holds for the ordering
func Satisfied(ordering album.Tracklist, partition Partition, kind album.Kind) bool {
	switch k := kind.(type) {
	case album.AtPosition:
		if k.Position < 0 || k.Position >= len(ordering) {
			return false
		}

		// Duplicate titles resolve to their first occurrence
		return ordering.IndexOf(k.Title) == k.Position

	case album.Adjacent:
		if album.SameTitle(k.A, k.B) {
			return false
		}

		a, b := ordering.IndexOf(k.A), ordering.IndexOf(k.B)
		if a < 0 || b < 0 {
			return false
		}

		return a-b == 1 || b-a == 1

	case album.OnSameSide:
		if album.SameTitle(k.A, k.B) {
			return false
		}

		a, b := partition.SideOf(k.A), partition.SideOf(k.B)

		return a >= 0 && a == b
	}

	return false
}
