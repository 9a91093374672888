// ABOUTME: Unit tests for TUI model behavior
// ABOUTME: Tests model initialization, request building, toggles, stale results and export

package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"albumseq/album"
	"albumseq/engine"
	"albumseq/store"
)

// createTestContext builds a context with one tracklist, one medium and two constraints
func createTestContext() *store.Context {
	c := store.New()
	c.Tracklists = []store.NamedTracklist{{
		Name: "demo",
		Tracks: album.Tracklist{
			{Title: "A", Duration: 2},
			{Title: "B", Duration: 3},
			{Title: "C", Duration: 4},
		},
	}}
	c.Media = []album.Medium{{Name: "vinyl", Sides: 2, MaxDurationPerSide: 6}}
	c.Constraints = []album.Constraint{
		{Kind: album.Adjacent{A: "A", B: "C"}, Weight: 10},
		{Kind: album.AtPosition{Title: "B", Position: 0}, Weight: 3},
	}

	return c
}

// createTestModel creates a model with fake dependencies for testing
func createTestModel(t *testing.T, rank RankFunc) (model, *[]album.Tracklist) {
	t.Helper()

	if rank == nil {
		rank = func(_ context.Context, _ engine.Request) ([]engine.Result, error) {
			return nil, nil
		}
	}

	var written []album.Tracklist

	deps := Dependencies{
		Rank: rank,
		LoadContext: func(_ string) (*store.Context, error) {
			return createTestContext(), nil
		},
		WritePlaylist: func(_ string, tracks album.Tracklist) error {
			written = append(written, tracks)

			return nil
		},
		Debugf: func(_ string, _ ...interface{}) {
			// Silent in tests
		},
	}

	opts := Options{
		ContextPath: "context.json",
		Tracklist:   "DEMO",
		Medium:      "Vinyl",
		ExportPath:  "out.m3u8",
		Count:       5,
	}

	sess, err := newSession(createTestContext(), opts.Tracklist, opts.Medium, nil)
	if err != nil {
		t.Fatalf("newSession failed: %v", err)
	}

	return initModel(sess, opts, deps), &written
}

func TestModelInitialization(t *testing.T) {
	m, _ := createTestModel(t, nil)

	if len(m.session.tracks) != 3 {
		t.Errorf("Expected 3 tracks, got %d", len(m.session.tracks))
	}

	if m.paramMgr.Len() != 2 {
		t.Errorf("Expected 2 parameters, got %d", m.paramMgr.Len())
	}

	for i, enabled := range m.session.enabled {
		if !enabled {
			t.Errorf("Constraint %d should start enabled", i)
		}
	}

	if m.focusedPanel != panelProposals {
		t.Errorf("Expected proposals panel focused, got %s", m.focusedPanel)
	}

	if !m.ranking {
		t.Error("Model should start ranking")
	}

	if m.settings.MinScore != minScoreOff {
		t.Errorf("Expected min score off, got %d", m.settings.MinScore)
	}
}

func TestNewSessionMissingNames(t *testing.T) {
	c := createTestContext()

	if _, err := newSession(c, "nope", "vinyl", nil); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for tracklist, got %v", err)
	}

	if _, err := newSession(c, "demo", "nope", nil); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for medium, got %v", err)
	}
}

func TestRequestUsesEnabledConstraints(t *testing.T) {
	m, _ := createTestModel(t, nil)
	m.session.enabled = []bool{false, true}
	m.settings.MinScore = 3

	req, active := m.request()

	if len(req.Constraints) != 1 || req.Constraints[0].Weight != 3 {
		t.Errorf("Expected only the AtPosition constraint, got %v", req.Constraints)
	}

	if len(active) != 1 || active[0] != 1 {
		t.Errorf("Expected active [1], got %v", active)
	}

	if req.MinScore == nil || *req.MinScore != 3 {
		t.Errorf("Expected min score 3, got %v", req.MinScore)
	}

	if req.Count != 5 {
		t.Errorf("Expected count 5, got %d", req.Count)
	}

	m.settings.MinScore = minScoreOff
	if req, _ := m.request(); req.MinScore != nil {
		t.Error("Min score off should send no threshold")
	}
}

func TestToggleUndoRedo(t *testing.T) {
	m, _ := createTestModel(t, nil)
	m.focusedPanel = panelConstraints
	startEpoch := m.rankEpoch

	if cmd := m.toggleConstraint(); cmd == nil {
		t.Fatal("Toggle should trigger a re-rank")
	}

	if m.session.enabled[0] {
		t.Error("Constraint 0 should be disabled after toggle")
	}

	if m.rankEpoch != startEpoch+1 {
		t.Errorf("Expected epoch %d, got %d", startEpoch+1, m.rankEpoch)
	}

	m.undo()

	if !m.session.enabled[0] {
		t.Error("Undo should re-enable constraint 0")
	}

	m.redo()

	if m.session.enabled[0] {
		t.Error("Redo should disable constraint 0 again")
	}

	if m.undoMgr.UndoSize() != 1 || m.undoMgr.RedoSize() != 0 {
		t.Errorf("Unexpected stack sizes: undo %d redo %d", m.undoMgr.UndoSize(), m.undoMgr.RedoSize())
	}
}

func TestUndoWithEmptyStack(t *testing.T) {
	m, _ := createTestModel(t, nil)

	if cmd := m.undo(); cmd != nil {
		t.Error("Undo with empty stack should not re-rank")
	}

	if m.statusMsg != "Nothing to undo" {
		t.Errorf("Unexpected status: %q", m.statusMsg)
	}
}

func TestStaleResultsIgnored(t *testing.T) {
	m, _ := createTestModel(t, nil)
	m.rankEpoch = 2

	stale := rankDoneMsg{
		results: []engine.Result{{Score: 99}},
		epoch:   1,
	}

	updated, _ := m.Update(stale)
	um := updated.(model)

	if len(um.results) != 0 {
		t.Error("Stale results should be ignored")
	}

	if !um.ranking {
		t.Error("Stale results should not end the current run")
	}

	current := rankDoneMsg{
		results: []engine.Result{{Score: 10}, {Score: 7}},
		active:  []int{0, 1},
		epoch:   2,
	}

	updated, _ = um.Update(current)
	um = updated.(model)

	if len(um.results) != 2 || um.ranking {
		t.Errorf("Expected 2 installed results, got %d (ranking=%v)", len(um.results), um.ranking)
	}
}

func TestRankErrorShown(t *testing.T) {
	m, _ := createTestModel(t, nil)

	updated, _ := m.Update(rankDoneMsg{err: engine.ErrTooManyTracks, epoch: m.rankEpoch})
	um := updated.(model)

	if !errors.Is(um.rankErr, engine.ErrTooManyTracks) {
		t.Errorf("Expected rank error to be kept, got %v", um.rankErr)
	}
}

func TestParamChangeReranks(t *testing.T) {
	m, _ := createTestModel(t, nil)
	m.focusedPanel = panelParams

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	um := updated.(model)

	if cmd == nil {
		t.Fatal("Increasing count should trigger a re-rank")
	}

	if um.settings.Count != 6 {
		t.Errorf("Expected count 6, got %d", um.settings.Count)
	}

	if um.rankEpoch != 1 {
		t.Errorf("Expected epoch 1, got %d", um.rankEpoch)
	}
}

func TestExportSelected(t *testing.T) {
	m, written := createTestModel(t, nil)

	m.exportSelected()

	if len(*written) != 0 {
		t.Error("Nothing should be exported without results")
	}

	ordering := album.Tracklist{{Title: "C", Duration: 4}, {Title: "A", Duration: 2}, {Title: "B", Duration: 3}}
	m.results = []engine.Result{{Score: 10, Ordering: ordering}}

	m.exportSelected()

	if len(*written) != 1 || (*written)[0][0].Title != "C" {
		t.Errorf("Expected selected proposal to be exported, got %v", *written)
	}
}

func TestContextReloadKeepsToggles(t *testing.T) {
	m, _ := createTestModel(t, nil)
	m.session.enabled = []bool{false, true}

	// Reload adds a new constraint in front
	c := createTestContext()
	c.Constraints = append([]album.Constraint{{Kind: album.OnSameSide{A: "A", B: "B"}, Weight: 1}}, c.Constraints...)

	updated, cmd := m.Update(contextReloadedMsg{ctx: c})
	um := updated.(model)

	if cmd == nil {
		t.Error("Reload should trigger a re-rank")
	}

	expected := []bool{true, false, true}
	for i, e := range expected {
		if um.session.enabled[i] != e {
			t.Errorf("Constraint %d: expected enabled=%v, got %v", i, e, um.session.enabled[i])
		}
	}
}

func TestContextReloadError(t *testing.T) {
	m, _ := createTestModel(t, nil)

	updated, cmd := m.Update(contextReloadedMsg{err: errors.New("boom")})
	um := updated.(model)

	if cmd != nil {
		t.Error("Failed reload should not re-rank")
	}

	if um.statusMsg == "" {
		t.Error("Failed reload should set a status message")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in       string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abc", 2, "ab"},
		{"Ünïcödé title", 8, "Ünïcö..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.maxLen); got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.expected)
		}
	}
}
