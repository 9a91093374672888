// ABOUTME: Function types and messages exchanged between the TUI and its dependencies
// ABOUTME: Allows clean separation and easy testing with fakes

package tui

import (
	"context"
	"time"

	"albumseq/album"
	"albumseq/engine"
	"albumseq/store"
)

// RankFunc ranks the orderings of a tracklist (engine.Rank in production)
type RankFunc func(ctx context.Context, req engine.Request) ([]engine.Result, error)

// ContextLoader reads the persisted context file
type ContextLoader func(path string) (*store.Context, error)

// PlaylistWriter exports a proposal to disk
type PlaylistWriter func(path string, tracks album.Tracklist) error

// DebugLogger writes to the debug log, a no-op when debugging is off
type DebugLogger func(format string, args ...interface{})

// Update is a progress snapshot from a ranking run
type Update struct {
	Progress engine.Progress
	Epoch    int
}

// rankDoneMsg carries the results of a finished ranking run
type rankDoneMsg struct {
	results []engine.Result
	active  []int // Indices into session.constraints that were enabled for this run
	err     error
	elapsed time.Duration
	epoch   int
}

// fileChangeMsg is sent when the context file changes on disk
type fileChangeMsg struct{}

// contextReloadedMsg is sent after the context file has been re-read
type contextReloadedMsg struct {
	ctx *store.Context
	err error
}
