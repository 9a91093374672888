// ABOUTME: Greedy sequential packing of an ordering onto the sides of a medium
// ABOUTME: Reports the side partition and whether the ordering physically fits

package engine

import "albumseq/album"

// Partition is the result of packing one ordering onto a medium
type Partition struct {
	Sides    []album.Tracklist // Side index -> tracks on that side, in order
	Feasible bool              // False if some track could not be placed
}

// SideOf returns the side index holding the first track with the given title, or -1.
// An infeasible partition resolves nothing.
func (p Partition) SideOf(title string) int {
	if !p.Feasible {
		return -1
	}

	for side, tracks := range p.Sides {
		if tracks.IndexOf(title) >= 0 {
			return side
		}
	}

	return -1
}

// SideDurations returns the total duration of each side
func (p Partition) SideDurations() []float64 {
	durations := make([]float64, len(p.Sides))
	for i, side := range p.Sides {
		durations[i] = side.TotalDuration()
	}

	return durations
}

// Allocate packs the ordering onto the medium's sides without reordering.
// Each track goes on the current side if it fits, otherwise it starts the next side.
// When no side is left the ordering is infeasible and packing stops.
func Allocate(ordering album.Tracklist, medium album.Medium) Partition {
	if len(ordering) == 0 {
		return Partition{Sides: []album.Tracklist{}, Feasible: true}
	}

	sides := make([]album.Tracklist, 0, medium.Sides)
	current := make(album.Tracklist, 0, len(ordering))
	accumulated := 0.0

	for _, track := range ordering {
		// A track longer than a whole side can never be placed
		if track.Duration > medium.MaxDurationPerSide {
			return Partition{Sides: closeSide(sides, current), Feasible: false}
		}

		if accumulated+track.Duration <= medium.MaxDurationPerSide {
			current = append(current, track)
			accumulated += track.Duration

			continue
		}

		// Current side is full, open the next one if the medium has it
		if len(sides)+1 >= medium.Sides {
			return Partition{Sides: closeSide(sides, current), Feasible: false}
		}

		sides = append(sides, current)
		current = album.Tracklist{track}
		accumulated = track.Duration
	}

	return Partition{Sides: closeSide(sides, current), Feasible: true}
}

// Fits reports whether the ordering packs onto the medium
func Fits(ordering album.Tracklist, medium album.Medium) bool {
	return Allocate(ordering, medium).Feasible
}

func closeSide(sides []album.Tracklist, current album.Tracklist) []album.Tracklist {
	if len(current) == 0 {
		return sides
	}

	return append(sides, current)
}
