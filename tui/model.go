// ABOUTME: Terminal UI model and core state management
// ABOUTME: Bubble Tea model that re-ranks proposals as parameters and constraints change

// Package tui provides an interactive terminal browser for ranked album proposals.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"albumseq/album"
	"albumseq/engine"
	"albumseq/store"
)

// Panel identifiers
const (
	panelParams      = "params"
	panelConstraints = "constraints"
	panelProposals   = "proposals"
)

// Layout constants for UI dimensions
const (
	leftPanelWidth = 48 // Left panel width for parameters and constraints
	panelPadding   = 2  // Horizontal spacing between panels

	// UI chrome heights (elements that reduce available viewport space)
	titleHeight     = 2 // Panel title bars
	summaryHeight   = 1 // Tracklist/medium summary above proposals
	statusBarHeight = 1 // Bottom status bar
	helpHeight      = 1 // Help text line
	spacingHeight   = 2 // Vertical spacing between elements
	totalUIChrome   = titleHeight + summaryHeight + statusBarHeight + helpHeight + spacingHeight

	// Minimum viewport dimensions to ensure usability
	minViewportWidth  = 20
	minViewportHeight = 5
)

// Navigation and interaction constants
const (
	pageJumpSize          = 5               // Number of proposals to jump on PageUp/PageDown
	statusMessageDuration = 5 * time.Second // How long to show transient status messages
	maxUndoStackSize      = 50              // Maximum undo/redo history items
	maxCount              = 100             // Upper bound for the Count parameter
	maxMinScore           = 1000            // Upper bound for the Min score parameter
	minScoreOff           = -1              // Min score value meaning "no threshold"
	fileChangeDebounce    = 100 * time.Millisecond
)

// settings holds the values the parameters point to (heap allocated so pointers survive model copies)
type settings struct {
	Count    int
	MinScore int
}

// session is the tracklist, medium and constraints being sequenced
type session struct {
	tracks      album.Tracklist
	medium      album.Medium
	constraints []album.Constraint
	enabled     []bool
}

// model holds the TUI state
type model struct {
	// Dependencies
	rank          RankFunc
	loadContext   ContextLoader
	writePlaylist PlaylistWriter
	debugf        DebugLogger

	opts Options

	// Parameters
	settings *settings
	paramMgr *ParamManager

	// What is being ranked
	session session

	// Ranking state
	results     []engine.Result
	active      []int // session.constraints indices that produced results
	rankErr     error
	ranking     bool
	progress    engine.Progress
	rankElapsed time.Duration

	// Ranking lifecycle
	// Framework exception: Context stored in struct because Bubble Tea's Init/Update/View
	// pattern doesn't allow passing context through function parameters.
	ctx        context.Context    //nolint:containedctx // See framework exception above
	cancel     context.CancelFunc // Cancel function for ctx
	updateChan chan Update        // Progress snapshots from the running rank
	rankEpoch  int                // Increments on every re-rank to drop stale results

	// File watching
	watcher *fsnotify.Watcher // nil when the context file cannot be watched

	// UI state
	width        int
	height       int
	quitting     bool
	statusMsg    string    // Temporary status message (e.g., "Exported to ...")
	statusMsgAge time.Time // When status message was set
	focusedPanel string

	// Browsing
	constraintCursor int            // Selected constraint in the constraints panel
	cursorPos        int            // Selected proposal
	viewport         viewport.Model // Viewport for scrolling proposals
	undoMgr          *UndoManager   // Undo/redo history of constraint toggles
}

// Key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Toggle   key.Binding
	Reset    key.Binding
	Export   key.Binding
	Quit     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Undo     key.Binding
	Redo     key.Binding
	Tab      key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "navigate"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "decrease param"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "increase param"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle constraint"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset params"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export proposal"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("home/g", "first proposal"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("end/G", "last proposal"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "redo"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch panel"),
	),
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	paramStyle = lipgloss.NewStyle().
			Padding(0, 1)

	selectedParamStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("240")).
				Foreground(lipgloss.Color("15")).
				Bold(true).
				Padding(0, 1)

	proposalHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("11"))

	sideStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	satisfiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	unsatisfiedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("9"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240")).
			Foreground(lipgloss.Color("15"))
)

// Run starts the proposal browser with injected dependencies
func Run(opts Options, deps Dependencies) error {
	deps = deps.withDefaults()

	if deps.Rank == nil || deps.LoadContext == nil || deps.WritePlaylist == nil {
		return errors.New("tui: rank, context loader and playlist writer are required")
	}

	ctxFile, err := deps.LoadContext(opts.ContextPath)
	if err != nil {
		return err
	}

	sess, err := newSession(ctxFile, opts.Tracklist, opts.Medium, nil)
	if err != nil {
		return err
	}

	m := initModel(sess, opts, deps)

	// Watch the directory: saves replace the file by rename
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		deps.Debugf("[WATCHER] Failed to create watcher: %v", err)
	} else if err := watcher.Add(filepath.Dir(opts.ContextPath)); err != nil {
		deps.Debugf("[WATCHER] Failed to watch %s: %v", opts.ContextPath, err)
		_ = watcher.Close()
	} else {
		m.watcher = watcher
		defer func() { _ = watcher.Close() }()
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// newSession resolves the named tracklist and medium from the context.
// Enabled flags carry over from previous for constraints that still exist.
func newSession(c *store.Context, tracklistName, mediumName string, previous *session) (session, error) {
	named, err := c.Tracklist(tracklistName)
	if err != nil {
		return session{}, err
	}

	medium, err := c.Medium(mediumName)
	if err != nil {
		return session{}, err
	}

	sess := session{
		tracks:      named.Tracks,
		medium:      medium,
		constraints: c.Constraints,
		enabled:     make([]bool, len(c.Constraints)),
	}

	for i, constraint := range sess.constraints {
		sess.enabled[i] = true

		if previous == nil {
			continue
		}

		for j, old := range previous.constraints {
			if old.Kind == constraint.Kind {
				sess.enabled[i] = previous.enabled[j]

				break
			}
		}
	}

	return sess, nil
}

// initModel creates the initial model with injected dependencies
func initModel(sess session, opts Options, deps Dependencies) model {
	deps = deps.withDefaults()

	ctx, cancel := context.WithCancel(context.Background())

	initial := &settings{Count: opts.Count, MinScore: minScoreOff}
	if opts.MinScore != nil {
		initial.MinScore = *opts.MinScore
	}

	if initial.Count < 1 {
		initial.Count = 1
	}

	off := minScoreOff

	m := model{
		rank:          deps.Rank,
		loadContext:   deps.LoadContext,
		writePlaylist: deps.WritePlaylist,
		debugf:        deps.Debugf,

		opts:     opts,
		settings: initial,
		paramMgr: NewParamManager([]Parameter{
			{Name: "Count", Value: &initial.Count, Default: initial.Count, Min: 1, Max: maxCount, Step: 1},
			{Name: "Min score", Value: &initial.MinScore, Default: initial.MinScore, Min: minScoreOff, Max: maxMinScore, Step: 1, OffAt: &off},
		}),

		session: sess,

		ctx:    ctx,
		cancel: cancel,
		// Progress is sent non-blocking by the forwarder, a small buffer is enough
		updateChan: make(chan Update, 10),
		ranking:    true,

		viewport:     viewport.New(0, 0), // Width and height set on first WindowSizeMsg
		focusedPanel: panelProposals,
		undoMgr:      NewUndoManager(maxUndoStackSize),
	}

	return m
}

// Init initializes the model
func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.startRank(m.ctx, m.rankEpoch),
		waitForUpdate(m.updateChan),
		waitForFileChange(m.watcher, m.opts.ContextPath, m.debugf),
		tea.EnterAltScreen,
	)
}

// ========== Ranking ==========

// request builds the ranking request from the enabled constraints
func (m *model) request() (engine.Request, []int) {
	var (
		constraints []album.Constraint
		active      []int
	)

	for i, c := range m.session.constraints {
		if m.session.enabled[i] {
			constraints = append(constraints, c)
			active = append(active, i)
		}
	}

	req := engine.Request{
		Tracks:      m.session.tracks,
		Constraints: constraints,
		Medium:      m.session.medium,
		Count:       m.settings.Count,
		Workers:     m.opts.Workers,
		BatchSize:   m.opts.BatchSize,
		MaxTracks:   m.opts.MaxTracks,
	}

	if m.settings.MinScore != minScoreOff {
		minScore := m.settings.MinScore
		req.MinScore = &minScore
	}

	return req, active
}

// startRank runs the ranking in a goroutine and returns its results as a message
func (m *model) startRank(ctx context.Context, epoch int) tea.Cmd {
	req, active := m.request()
	rank := m.rank
	debugf := m.debugf
	updates := m.updateChan

	return func() tea.Msg {
		defer func() {
			if r := recover(); r != nil {
				debugf("[PANIC] startRank panic: %v", r)
				debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
				panic(r) // Re-panic after logging
			}
		}()

		// Forward progress tagged with this run's epoch
		progress := make(chan engine.Progress, 10)
		done := make(chan struct{})

		go func() {
			defer close(done)

			for p := range progress {
				select {
				case updates <- Update{Progress: p, Epoch: epoch}:
				default:
					// Channel full, skip update
				}
			}
		}()

		req.Progress = progress
		started := time.Now()

		results, err := rank(ctx, req)

		close(progress)
		<-done

		debugf("[TUI] Rank epoch %d finished: %d results, err=%v", epoch, len(results), err)

		return rankDoneMsg{
			results: results,
			active:  active,
			err:     err,
			elapsed: time.Since(started),
			epoch:   epoch,
		}
	}
}

// waitForUpdate waits for progress updates and returns them as messages
func waitForUpdate(updateChan <-chan Update) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updateChan
		if !ok {
			return nil
		}

		return update
	}
}

// rerank cancels the running rank and starts a new epoch
func (m *model) rerank() tea.Cmd {
	m.cancel()

	ctx, cancel := context.WithCancel(context.Background())
	m.ctx = ctx
	m.cancel = cancel
	m.rankEpoch++
	m.ranking = true
	m.progress = engine.Progress{}

	m.debugf("[TUI] Re-ranking with epoch %d (count %d, min score %d)", m.rankEpoch, m.settings.Count, m.settings.MinScore)

	return m.startRank(m.ctx, m.rankEpoch)
}

// ========== File watching ==========

// waitForFileChange returns a command that waits for the context file to change
func waitForFileChange(watcher *fsnotify.Watcher, path string, debugf DebugLogger) tea.Cmd {
	if watcher == nil {
		return nil
	}

	target := filepath.Clean(path)

	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}

				if filepath.Clean(event.Name) != target {
					continue
				}

				// Atomic saves show up as Create (rename onto the path) rather than Write
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					// Debounce: wait a bit for the writer to finish
					time.Sleep(fileChangeDebounce)

					return fileChangeMsg{}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}

				// Log error but continue watching
				debugf("[WATCHER] Error: %v", err)
			}
		}
	}
}

// reloadContext re-reads the context file in the background
func reloadContext(load ContextLoader, path string) tea.Cmd {
	return func() tea.Msg {
		c, err := load(path)

		return contextReloadedMsg{ctx: c, err: err}
	}
}

// ========== Helper Methods ==========

// increaseSelectedParam increases the selected parameter value and re-ranks
func (m *model) increaseSelectedParam() tea.Cmd {
	if m.paramMgr.Increase() {
		return m.rerank()
	}

	return nil
}

// decreaseSelectedParam decreases the selected parameter value and re-ranks
func (m *model) decreaseSelectedParam() tea.Cmd {
	if m.paramMgr.Decrease() {
		return m.rerank()
	}

	return nil
}

// resetToDefaults resets all parameters to their initial values and re-ranks
func (m *model) resetToDefaults() tea.Cmd {
	if m.paramMgr.ResetToDefaults() {
		m.setStatusMsg("Parameters reset")

		return m.rerank()
	}

	return nil
}

// setStatusMsg sets a transient status message with current timestamp
func (m *model) setStatusMsg(msg string) {
	m.statusMsg = msg
	m.statusMsgAge = time.Now()
}

// proposalHeight is the number of lines one proposal occupies in the viewport
func (m *model) proposalHeight() int {
	// Header line, one line per side, blank separator
	return 1 + m.session.medium.Sides + 1
}

// ensureCursorVisible adjusts viewport offset to keep the selected proposal visible
func (m *model) ensureCursorVisible() {
	vm := NewViewportManager(m.viewport.Height, m.proposalHeight(), m.cursorPos, len(m.results))
	m.viewport.SetYOffset(vm.CalculateOffset())
}

// constraintState snapshots the enabled flags for undo/redo
func (m *model) constraintState() ConstraintState {
	return ConstraintState{
		Enabled:   m.session.enabled,
		CursorPos: m.constraintCursor,
	}
}

// toggleConstraint flips the selected constraint and re-ranks
func (m *model) toggleConstraint() tea.Cmd {
	if m.constraintCursor >= len(m.session.constraints) {
		return nil
	}

	m.undoMgr.Push(m.constraintState())

	enabled := append([]bool(nil), m.session.enabled...)
	enabled[m.constraintCursor] = !enabled[m.constraintCursor]
	m.session.enabled = enabled

	state := "disabled"
	if enabled[m.constraintCursor] {
		state = "enabled"
	}

	m.setStatusMsg(fmt.Sprintf("Constraint %d %s (Undo: %d, Redo: %d)",
		m.constraintCursor, state, m.undoMgr.UndoSize(), m.undoMgr.RedoSize()))

	return m.rerank()
}

// undo restores the previous enabled set
func (m *model) undo() tea.Cmd {
	state, ok := m.undoMgr.Undo(m.constraintState())
	if !ok {
		m.setStatusMsg("Nothing to undo")

		return nil
	}

	m.restoreState(state)
	m.setStatusMsg(fmt.Sprintf("Undo (Undo: %d, Redo: %d)", m.undoMgr.UndoSize(), m.undoMgr.RedoSize()))

	return m.rerank()
}

// redo restores the next enabled set
func (m *model) redo() tea.Cmd {
	state, ok := m.undoMgr.Redo(m.constraintState())
	if !ok {
		m.setStatusMsg("Nothing to redo")

		return nil
	}

	m.restoreState(state)
	m.setStatusMsg(fmt.Sprintf("Redo (Undo: %d, Redo: %d)", m.undoMgr.UndoSize(), m.undoMgr.RedoSize()))

	return m.rerank()
}

func (m *model) restoreState(state ConstraintState) {
	m.session.enabled = state.Enabled
	m.constraintCursor = state.CursorPos
}

// exportSelected writes the selected proposal as a playlist
func (m *model) exportSelected() {
	if m.cursorPos >= len(m.results) {
		m.setStatusMsg("No proposal to export")

		return
	}

	result := m.results[m.cursorPos]

	if err := m.writePlaylist(m.opts.ExportPath, result.Ordering); err != nil {
		m.debugf("[TUI] Export failed: %v", err)
		m.setStatusMsg(fmt.Sprintf("Export failed: %v", err))

		return
	}

	m.debugf("[TUI] Exported proposal #%d to %s", m.cursorPos+1, m.opts.ExportPath)
	m.setStatusMsg(fmt.Sprintf("Exported proposal #%d to %s", m.cursorPos+1, m.opts.ExportPath))
}

// ========== Helpers ==========

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return string(runes[:maxLen])
	}

	return string(runes[:maxLen-3]) + "..."
}
