// ABOUTME: Top-level layout for the TUI
// ABOUTME: Implements the Bubble Tea View() function joining the panels

package tui

import (
	"runtime/debug"

	"github.com/charmbracelet/lipgloss"
)

// View renders the TUI
func (m model) View() string {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] View panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	if m.quitting {
		return "Exiting...\n"
	}

	// Leave room for status bar and help
	panelHeight := m.height - (statusBarHeight + helpHeight + 1)

	leftPanelStyle := lipgloss.NewStyle().
		Width(leftPanelWidth).
		Height(panelHeight).
		Padding(0, 1)

	rightPanelWidth := max(m.width-leftPanelWidth-panelPadding, minViewportWidth*2)

	rightPanelStyle := lipgloss.NewStyle().
		Width(rightPanelWidth).
		Height(panelHeight).
		Padding(0, 1)

	left := m.renderParameters() + "\n" + m.renderConstraints()

	combined := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftPanelStyle.Render(left),
		rightPanelStyle.Render(m.renderProposals()),
	)

	return combined + "\n" + m.renderStatus() + "\n" + m.renderHelp()
}
