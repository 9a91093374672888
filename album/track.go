// ABOUTME: Defines the Track, Tracklist and Medium value types used by the sequencing engine
// ABOUTME: Provides validation for caller-supplied tracks and media before enumeration starts

// Package album holds the immutable entity model for album sequencing:
// tracks, orderings of tracks, physical media split into sides, and the
// weighted placement constraints that orderings are scored against.
package album

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidTrack is returned when a track has an empty title or a non-positive duration
	ErrInvalidTrack = errors.New("invalid track")
	// ErrInvalidMedium is returned when a medium has no sides or no capacity
	ErrInvalidMedium = errors.New("invalid medium")
)

// Track is a single audio track. Duration is in minutes.
type Track struct {
	Title    string
	Duration float64
	Path     string // Source file when imported from a playlist, never used for scoring
}

// Validate reports whether the track can be handed to the engine
func (t Track) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidTrack)
	}

	if math.IsNaN(t.Duration) || math.IsInf(t.Duration, 0) || t.Duration <= 0 {
		return fmt.Errorf("%w: %q has non-positive duration %v", ErrInvalidTrack, t.Title, t.Duration)
	}

	return nil
}

// String returns "Title (MM:SS)"
func (t Track) String() string {
	return fmt.Sprintf("%s (%s)", t.Title, FormatDuration(t.Duration))
}

// Tracklist is one ordering of tracks
type Tracklist []Track

// TotalDuration sums the durations of all tracks in minutes
func (tl Tracklist) TotalDuration() float64 {
	total := 0.0
	for _, t := range tl {
		total += t.Duration
	}

	return total
}

// IndexOf returns the index of the first track whose title matches, or -1.
// Titles are compared case-insensitively.
func (tl Tracklist) IndexOf(title string) int {
	for i, t := range tl {
		if SameTitle(t.Title, title) {
			return i
		}
	}

	return -1
}

// Titles returns the track titles in order
func (tl Tracklist) Titles() []string {
	titles := make([]string, len(tl))
	for i, t := range tl {
		titles[i] = t.Title
	}

	return titles
}

// Validate checks every track in the list
func (tl Tracklist) Validate() error {
	for i, t := range tl {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("track %d: %w", i+1, err)
		}
	}

	return nil
}

// Medium is a physical storage medium split into sides of equal capacity
type Medium struct {
	Name               string  // Bookkeeping only, never used for scoring
	Sides              int     // Number of sides, at least 1
	MaxDurationPerSide float64 // Capacity of each side in minutes
}

// Validate reports whether the medium can be handed to the engine
func (m Medium) Validate() error {
	if m.Sides < 1 {
		return fmt.Errorf("%w: %q needs at least one side, got %d", ErrInvalidMedium, m.Name, m.Sides)
	}

	if math.IsNaN(m.MaxDurationPerSide) || math.IsInf(m.MaxDurationPerSide, 0) || m.MaxDurationPerSide <= 0 {
		return fmt.Errorf("%w: %q has non-positive side capacity %v", ErrInvalidMedium, m.Name, m.MaxDurationPerSide)
	}

	return nil
}

// Capacity returns the total duration the medium can hold across all sides
func (m Medium) Capacity() float64 {
	return float64(m.Sides) * m.MaxDurationPerSide
}

// SameTitle is the single title matching policy shared by every constraint kind
func SameTitle(a, b string) bool {
	return strings.EqualFold(a, b)
}
