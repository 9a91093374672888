// ABOUTME: Proposal browser configuration and injected dependencies
// ABOUTME: Defines input parameters for running the TUI

package tui

// Options contains configuration for running the TUI
type Options struct {
	ContextPath string // Context file to read and watch
	Tracklist   string // Tracklist name (case-insensitive)
	Medium      string // Medium name (case-insensitive)
	ExportPath  string // Where "e" writes the selected proposal
	Count       int    // Initial number of proposals
	MinScore    *int   // Initial minimum score, nil for none
	Workers     int    // Passed through to the ranking request
	BatchSize   int
	MaxTracks   int
}

// Dependencies holds all external dependencies for the TUI
// This allows for clean dependency injection and easy testing
type Dependencies struct {
	Rank          RankFunc
	LoadContext   ContextLoader
	WritePlaylist PlaylistWriter
	Debugf        DebugLogger
}

// withDefaults fills nil dependencies with no-ops where that is safe
func (d Dependencies) withDefaults() Dependencies {
	if d.Debugf == nil {
		d.Debugf = func(string, ...interface{}) {}
	}

	return d
}
