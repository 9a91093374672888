// ABOUTME: Resolves playlist entries into tracks with titles read from audio file tags
// ABOUTME: Reads tags concurrently and falls back to #EXTINF titles or file names

package playlist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"golang.org/x/sync/errgroup"

	"albumseq/album"
)

// ErrMissingDuration is returned when an entry has no usable #EXTINF duration
var ErrMissingDuration = errors.New("missing duration")

// TitleReader reads a track title from an audio file
type TitleReader func(fullPath string) (string, error)

// ReadTagTitle reads the title tag (ID3, Vorbis, MP4, ...) from the audio file
func ReadTagTitle(fullPath string) (string, error) {
	file, err := os.Open(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return "", fmt.Errorf("failed to read metadata: %w", err)
	}

	title := strings.TrimSpace(metadata.Title())
	if title == "" {
		return "", errors.New("file has no title tag")
	}

	return title, nil
}

// LoadTracks reads the playlist at path and resolves every entry into a track.
// Up to workers tag reads run at once (1 when workers <= 0). Track order follows the playlist.
func LoadTracks(ctx context.Context, path string, workers int, readTitle TitleReader) (album.Tracklist, error) {
	entries, err := ReadPlaylist(path)
	if err != nil {
		return nil, err
	}

	if readTitle == nil {
		readTitle = ReadTagTitle
	}

	baseDir := filepath.Dir(path)
	tracks := make(album.Tracklist, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i, entry := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			track, err := resolveEntry(entry, baseDir, readTitle)
			if err != nil {
				return fmt.Errorf("entry %d (%s): %w", i+1, entry.Path, err)
			}

			tracks[i] = track

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return tracks, nil
}

// resolveEntry picks the title from tags, then #EXTINF, then the file name
func resolveEntry(entry Entry, baseDir string, readTitle TitleReader) (album.Track, error) {
	if entry.Seconds <= 0 {
		return album.Track{}, ErrMissingDuration
	}

	// Relative paths are resolved against the playlist's directory
	fullPath := entry.Path
	if !filepath.IsAbs(fullPath) && baseDir != "" {
		fullPath = filepath.Join(baseDir, fullPath)
	}

	title, err := readTitle(fullPath)
	if err != nil || title == "" {
		title = entry.Title
	}

	if title == "" {
		base := filepath.Base(entry.Path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	track := album.Track{
		Title:    title,
		Duration: entry.Seconds / 60.0,
		Path:     entry.Path,
	}

	return track, track.Validate()
}
