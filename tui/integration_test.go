// ABOUTME: Integration tests running the TUI commands against the real ranking engine
// ABOUTME: Executes Bubble Tea commands directly and feeds their messages back into Update

package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"albumseq/engine"
	"albumseq/store"
)

func TestRankCommandWithEngine(t *testing.T) {
	m, _ := createTestModel(t, engine.Rank)

	msg := m.startRank(m.ctx, m.rankEpoch)()

	done, ok := msg.(rankDoneMsg)
	if !ok {
		t.Fatalf("Expected rankDoneMsg, got %T", msg)
	}

	if done.err != nil {
		t.Fatalf("Rank failed: %v", done.err)
	}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	updated, _ = updated.(model).Update(done)
	um := updated.(model)

	if len(um.results) == 0 {
		t.Fatal("Expected proposals")
	}

	// A(2) C(4) adjacent fits one 6-minute side and scores 10
	if um.results[0].Score < 10 {
		t.Errorf("Expected best score >= 10, got %d", um.results[0].Score)
	}

	view := um.View()
	if !strings.Contains(view, "Side 1") || !strings.Contains(view, "score") {
		t.Errorf("View should list proposals with sides:\n%s", view)
	}
}

func TestRankCommandDisabledConstraints(t *testing.T) {
	m, _ := createTestModel(t, engine.Rank)
	m.session.enabled = []bool{false, false}

	done := m.startRank(m.ctx, m.rankEpoch)().(rankDoneMsg)

	for _, r := range done.results {
		if r.Score != 0 {
			t.Errorf("No constraints enabled, expected score 0, got %d", r.Score)
		}

		if len(r.Satisfied) != 0 {
			t.Errorf("Expected no satisfaction flags, got %v", r.Satisfied)
		}
	}
}

func TestRankCommandCancelled(t *testing.T) {
	m, _ := createTestModel(t, engine.Rank)
	m.cancel()

	done := m.startRank(m.ctx, m.rankEpoch)().(rankDoneMsg)

	if done.err == nil {
		t.Error("Expected an error from a cancelled run")
	}
}

func TestWaitForFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "context.json")

	if err := store.Save(path, createTestContext()); err != nil {
		t.Fatal(err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		t.Skipf("cannot watch temp dir: %v", err)
	}

	result := make(chan tea.Msg, 1)

	go func() {
		result <- waitForFileChange(watcher, path, func(string, ...interface{}) {})()
	}()

	// Unrelated files in the directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := store.Update(path, func(c *store.Context) error {
		c.Constraints = c.Constraints[:1]

		return nil
	}); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-result:
		if _, ok := msg.(fileChangeMsg); !ok {
			t.Errorf("Expected fileChangeMsg, got %T", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for file change")
	}
}

func TestWaitForFileChangeNilWatcher(t *testing.T) {
	if cmd := waitForFileChange(nil, "context.json", nil); cmd != nil {
		t.Error("Expected nil command without a watcher")
	}
}
