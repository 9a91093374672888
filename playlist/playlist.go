// ABOUTME: Handles reading and writing M3U8 playlist files
// ABOUTME: Parses #EXTINF durations on import and writes proposals back out as extended M3U

// Package playlist imports tracklists from M3U8 playlists and exports
// proposed orderings back to M3U8. Durations come from #EXTINF lines and
// titles from the audio files' own tags where they can be read.
package playlist

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"albumseq/album"
)

const (
	headerTag = "#EXTM3U"
	extinfTag = "#EXTINF:"
)

// Entry is one playlist line with the #EXTINF information that preceded it
type Entry struct {
	Path    string  // Path as written in the playlist (e.g., "Artist/Album/01 Song.flac")
	Seconds float64 // Duration from #EXTINF, -1 if missing or unknown
	Title   string  // Display title from #EXTINF, empty if missing
}

// ReadPlaylist reads an M3U8 playlist file.
// Comments other than #EXTINF are skipped; an #EXTINF applies to the next entry only.
func ReadPlaylist(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist: %w", err)
	}

	defer func() {
		_ = file.Close() // Explicitly ignore error for read-only file
	}()

	var (
		entries []Entry
		pending *Entry
	)

	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, extinfTag) {
			info := parseExtinf(line)
			pending = &info

			continue
		}

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry := Entry{Path: line, Seconds: -1}
		if pending != nil {
			entry.Seconds = pending.Seconds
			entry.Title = pending.Title
			pending = nil
		}

		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading playlist: %w", err)
	}

	return entries, nil
}

// parseExtinf parses "#EXTINF:245,Artist - Title" (attributes before the comma are ignored)
func parseExtinf(line string) Entry {
	info := Entry{Seconds: -1}

	rest := strings.TrimPrefix(line, extinfTag)
	durationPart, title, _ := strings.Cut(rest, ",")
	info.Title = strings.TrimSpace(title)

	// Duration may be followed by key="value" attributes
	fields := strings.Fields(durationPart)
	if len(fields) > 0 {
		if secs, err := strconv.ParseFloat(fields[0], 64); err == nil && secs > 0 {
			info.Seconds = secs
		}
	}

	return info
}

// WritePlaylist writes tracks as an extended M3U8 playlist.
// Tracks without a source path are written under their title.
// Creates a backup (.bak) of the existing file before overwriting
func WritePlaylist(path string, tracks album.Tracklist) (err error) {
	// Create backup if file exists
	if _, statErr := os.Stat(path); statErr == nil {
		backupPath := path + ".bak"
		if err := os.Rename(path, backupPath); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close playlist file: %w", closeErr)
		}
	}()

	writer := bufio.NewWriter(file)

	if _, err := writer.WriteString(headerTag + "\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, track := range tracks {
		location := track.Path
		if location == "" {
			location = track.Title
		}

		seconds := int(math.Round(track.Duration * 60))
		if _, err := fmt.Fprintf(writer, "%s%d,%s\n%s\n", extinfTag, seconds, track.Title, location); err != nil {
			return fmt.Errorf("failed to write track: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	return nil
}
