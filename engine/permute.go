// ABOUTME: Lazy enumeration of every ordering of a track collection
// ABOUTME: Yields index permutations in lexicographic order, one at a time

// Package engine implements exhaustive album sequencing: it enumerates every
// ordering of a tracklist, packs each ordering onto the sides of a medium,
// scores it against weighted constraints and keeps the best K feasible ones.
package engine

import (
	"iter"

	"albumseq/album"
)

// Permutations yields every permutation of 0..n-1 exactly once, in lexicographic order.
// n <= 0 yields a single empty permutation. The yielded slice is reused between
// iterations; clone it to keep it.
func Permutations(n int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if n < 0 {
			n = 0
		}

		perm := make([]int, n)
		for i := range perm {
			perm[i] = i
		}

		for {
			if !yield(perm) {
				return
			}

			if !nextPermutation(perm) {
				return
			}
		}
	}
}

// Orderings yields every ordering of tracks as an owned Tracklist.
// Tracks are treated as position-distinct, so value-equal tracks still produce n! orderings.
func Orderings(tracks album.Tracklist) iter.Seq[album.Tracklist] {
	return func(yield func(album.Tracklist) bool) {
		for perm := range Permutations(len(tracks)) {
			if !yield(materialize(tracks, perm)) {
				return
			}
		}
	}
}

// materialize builds the Tracklist for an index permutation
func materialize(tracks album.Tracklist, perm []int) album.Tracklist {
	ordering := make(album.Tracklist, len(perm))
	for i, idx := range perm {
		ordering[i] = tracks[idx]
	}

	return ordering
}

// nextPermutation rearranges p into its lexicographic successor.
// Returns false when p is already the last permutation.
func nextPermutation(p []int) bool {
	// Find the rightmost ascent p[i] < p[i+1]
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}

	if i < 0 {
		return false
	}

	// Swap with the rightmost element larger than p[i]
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}

	p[i], p[j] = p[j], p[i]

	// Reverse the descending suffix
	for l, r := i+1, len(p)-1; l < r; l, r = l+1, r-1 {
		p[l], p[r] = p[r], p[l]
	}

	return true
}

// Factorial returns n! or -1 if it overflows int64
func Factorial(n int) int64 {
	result := int64(1)
	for i := 2; i <= n; i++ {
		if result > (1<<63-1)/int64(i) {
			return -1
		}

		result *= int64(i)
	}

	return result
}
