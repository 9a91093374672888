// ABOUTME: Event handling and state updates for the TUI
// ABOUTME: Implements the Bubble Tea Update() function and message handlers

package tui

import (
	"runtime/debug"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] Update panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Right panel width: total width - left panel - padding
		m.viewport.Width = max(msg.Width-leftPanelWidth-panelPadding, minViewportWidth)
		// Height: total height minus all UI chrome
		m.viewport.Height = max(msg.Height-totalUIChrome, minViewportHeight)

		m.viewport.YOffset = 0
		m.updateViewportContent()
		m.ensureCursorVisible()

		return m, nil

	case Update:
		if msg.Epoch == m.rankEpoch {
			m.progress = msg.Progress
		}

		return m, waitForUpdate(m.updateChan)

	case rankDoneMsg:
		return m.handleRankDone(msg), nil

	case fileChangeMsg:
		m.debugf("[WATCHER] %s changed, reloading", m.opts.ContextPath)

		return m, tea.Batch(
			reloadContext(m.loadContext, m.opts.ContextPath),
			waitForFileChange(m.watcher, m.opts.ContextPath, m.debugf),
		)

	case contextReloadedMsg:
		return m.handleContextReloaded(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleRankDone installs results from the current epoch and drops stale ones
func (m model) handleRankDone(msg rankDoneMsg) model {
	if msg.epoch != m.rankEpoch {
		m.debugf("[TUI] Ignoring stale results: epoch %d != current %d", msg.epoch, m.rankEpoch)

		return m
	}

	m.ranking = false
	m.rankElapsed = msg.elapsed

	if msg.err != nil {
		m.rankErr = msg.err
		m.results = nil
		m.cursorPos = 0
		m.updateViewportContent()

		return m
	}

	m.rankErr = nil
	m.results = msg.results
	m.active = msg.active

	if m.cursorPos >= len(m.results) {
		m.cursorPos = max(len(m.results)-1, 0)
	}

	m.updateViewportContent()
	m.ensureCursorVisible()

	return m
}

// handleContextReloaded swaps in the re-read context and re-ranks
func (m model) handleContextReloaded(msg contextReloadedMsg) (model, tea.Cmd) {
	if msg.err != nil {
		m.debugf("[WATCHER] Reload failed: %v", msg.err)
		m.setStatusMsg("Reload failed: " + msg.err.Error())

		return m, nil
	}

	sess, err := newSession(msg.ctx, m.opts.Tracklist, m.opts.Medium, &m.session)
	if err != nil {
		m.setStatusMsg("Reload failed: " + err.Error())

		return m, nil
	}

	// Toggle history refers to the old constraint list
	if len(sess.constraints) != len(m.session.constraints) {
		m.undoMgr.Clear()
	}

	m.session = sess
	m.constraintCursor = min(m.constraintCursor, max(len(sess.constraints)-1, 0))
	m.setStatusMsg("Context reloaded")

	return m, m.rerank()
}

// handleKey dispatches key presses
func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		m.cancel()

		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		m.handleTabKey()

	case key.Matches(msg, keys.Up):
		m.handleUpKey()

	case key.Matches(msg, keys.Down):
		m.handleDownKey()

	case key.Matches(msg, keys.PageUp):
		m.moveCursor(-pageJumpSize)

	case key.Matches(msg, keys.PageDown):
		m.moveCursor(pageJumpSize)

	case key.Matches(msg, keys.Home):
		m.moveCursor(-len(m.results))

	case key.Matches(msg, keys.End):
		m.moveCursor(len(m.results))

	case key.Matches(msg, keys.Left):
		if m.focusedPanel == panelParams {
			return m, m.decreaseSelectedParam()
		}

	case key.Matches(msg, keys.Right):
		if m.focusedPanel == panelParams {
			return m, m.increaseSelectedParam()
		}

	case key.Matches(msg, keys.Toggle):
		if m.focusedPanel == panelConstraints {
			return m, m.toggleConstraint()
		}

	case key.Matches(msg, keys.Reset):
		return m, m.resetToDefaults()

	case key.Matches(msg, keys.Export):
		m.exportSelected()

	case key.Matches(msg, keys.Undo):
		return m, m.undo()

	case key.Matches(msg, keys.Redo):
		return m, m.redo()
	}

	return m, nil
}

// handleTabKey cycles params -> constraints -> proposals
func (m *model) handleTabKey() {
	switch m.focusedPanel {
	case panelParams:
		m.focusedPanel = panelConstraints
	case panelConstraints:
		m.focusedPanel = panelProposals
	default:
		m.focusedPanel = panelParams
	}
}

// handleUpKey handles Up/k key press (context-aware navigation)
func (m *model) handleUpKey() {
	switch m.focusedPanel {
	case panelParams:
		m.paramMgr.SelectPrevious()
	case panelConstraints:
		if m.constraintCursor > 0 {
			m.constraintCursor--
		}
	default:
		m.moveCursor(-1)
	}
}

// handleDownKey handles Down/j key press (context-aware navigation)
func (m *model) handleDownKey() {
	switch m.focusedPanel {
	case panelParams:
		m.paramMgr.SelectNext()
	case panelConstraints:
		if m.constraintCursor < len(m.session.constraints)-1 {
			m.constraintCursor++
		}
	default:
		m.moveCursor(1)
	}
}

// moveCursor moves the proposal cursor by delta, clamped to the result list
func (m *model) moveCursor(delta int) {
	if len(m.results) == 0 {
		return
	}

	m.cursorPos = min(max(m.cursorPos+delta, 0), len(m.results)-1)
	m.updateViewportContent()
	m.ensureCursorVisible()
}
