// ABOUTME: Parses and formats track durations expressed in minutes
// ABOUTME: Accepts "MM:SS" or decimal minutes and prints "MM:SS"

package album

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseDuration parses "MM:SS" or decimal minutes ("3.75") into minutes
func ParseDuration(s string) (float64, error) {
	s = strings.TrimSpace(s)

	if minStr, secStr, ok := strings.Cut(s, ":"); ok {
		minutes, errMin := strconv.ParseUint(minStr, 10, 32)
		seconds, errSec := strconv.ParseUint(secStr, 10, 32)

		if errMin == nil && errSec == nil {
			return float64(minutes) + float64(seconds)/60.0, nil
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: expected MM:SS or decimal minutes", s)
	}

	return v, nil
}

// FormatDuration formats minutes as zero-padded "MM:SS", rounding to the nearest second
func FormatDuration(minutes float64) string {
	if minutes < 0 || math.IsNaN(minutes) {
		minutes = 0
	}

	totalSeconds := uint64(math.Round(minutes * 60.0))

	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}

// ParseTrack parses "Title:Duration" where duration is "MM:SS" or decimal minutes.
// The title ends at the first colon.
func ParseTrack(s string) (Track, error) {
	title, duration, ok := strings.Cut(s, ":")
	if !ok {
		return Track{}, fmt.Errorf("%w: %q is not in Title:Duration format", ErrInvalidTrack, s)
	}

	d, err := ParseDuration(duration)
	if err != nil {
		return Track{}, fmt.Errorf("track %q: %w", s, err)
	}

	t := Track{Title: strings.TrimSpace(title), Duration: d}
	if err := t.Validate(); err != nil {
		return Track{}, err
	}

	return t, nil
}
