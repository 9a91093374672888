// ABOUTME: Rendering functions for TUI components
// ABOUTME: Formats parameters, constraint toggles, proposals and the status bar

package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"albumseq/album"
	"albumseq/engine"
)

// panelTitle marks the focused panel
func (m model) panelTitle(title, panel string) string {
	if m.focusedPanel == panel {
		title = "► " + title + " [FOCUSED]"
	}

	return titleStyle.Render(title)
}

// renderParameters renders the parameter control panel
func (m model) renderParameters() string {
	var s strings.Builder

	s.WriteString(m.panelTitle("Parameters", panelParams) + "\n\n")

	for i, param := range m.paramMgr.All() {
		// Fixed width formatting to prevent column misalignment
		prefix := "  "
		if i == m.paramMgr.Selected() {
			prefix = "► "
		}

		line := fmt.Sprintf("%s%-20s %6s", prefix, param.Name, param.Display())

		if i == m.paramMgr.Selected() && m.focusedPanel == panelParams {
			s.WriteString(selectedParamStyle.Render(line) + "\n")
		} else {
			s.WriteString(paramStyle.Render(line) + "\n")
		}
	}

	return s.String()
}

// renderConstraints renders the constraint list with enable toggles
func (m model) renderConstraints() string {
	var s strings.Builder

	s.WriteString(m.panelTitle("Constraints", panelConstraints) + "\n\n")

	if len(m.session.constraints) == 0 {
		s.WriteString(helpStyle.Render("  (none)") + "\n")

		return s.String()
	}

	for i, c := range m.session.constraints {
		box := "[ ]"
		if m.session.enabled[i] {
			box = "[x]"
		}

		line := fmt.Sprintf("%s %d %s", box, i, truncate(c.String(), leftPanelWidth-10))

		if i == m.constraintCursor && m.focusedPanel == panelConstraints {
			s.WriteString(selectedParamStyle.Render(line) + "\n")
		} else {
			s.WriteString(paramStyle.Render(line) + "\n")
		}
	}

	return s.String()
}

// renderProposals renders the ranked proposals with viewport scrolling
func (m model) renderProposals() string {
	var s strings.Builder

	s.WriteString(m.panelTitle("Proposals", panelProposals) + "\n\n")
	s.WriteString(helpStyle.Render(fmt.Sprintf("%d tracks (%s) on %s: %d × %s",
		len(m.session.tracks),
		album.FormatDuration(m.session.tracks.TotalDuration()),
		m.session.medium.Name,
		m.session.medium.Sides,
		album.FormatDuration(m.session.medium.MaxDurationPerSide),
	)) + "\n")

	switch {
	case m.rankErr != nil:
		s.WriteString(errorStyle.Render("Ranking failed: "+m.rankErr.Error()) + "\n")

		if errors.Is(m.rankErr, engine.ErrTooManyTracks) {
			s.WriteString(helpStyle.Render("Raise max_tracks in the config to search anyway") + "\n")
		}
	case len(m.results) == 0 && m.ranking:
		s.WriteString(helpStyle.Render("Ranking...") + "\n")
	case len(m.results) == 0:
		s.WriteString(helpStyle.Render("No ordering fits the medium with the current settings") + "\n")
	default:
		s.WriteString(m.viewport.View())
	}

	return s.String()
}

// updateViewportContent builds and sets the viewport content
// Renders ALL proposals - let viewport handle scrolling
func (m *model) updateViewportContent() {
	var content strings.Builder

	width := max(m.viewport.Width-12, 10)

	for i, result := range m.results {
		header := fmt.Sprintf("#%-3d score %-4d %s", i+1, result.Score, m.renderSatisfied(result))
		if i == m.cursorPos {
			header = cursorStyle.Render(header)
		} else {
			header = proposalHeaderStyle.Render(header)
		}

		content.WriteString(header + "\n")

		for side := range m.session.medium.Sides {
			if side < len(result.Sides) {
				tracks := result.Sides[side]
				line := fmt.Sprintf("  %s %s  %s",
					sideStyle.Render(fmt.Sprintf("Side %d", side+1)),
					album.FormatDuration(tracks.TotalDuration()),
					truncate(strings.Join(tracks.Titles(), ", "), width),
				)
				content.WriteString(line)
			}

			content.WriteString("\n")
		}

		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// renderSatisfied shows one mark per active constraint
func (m model) renderSatisfied(result engine.Result) string {
	marks := make([]string, 0, len(result.Satisfied))

	for _, ok := range result.Satisfied {
		if ok {
			marks = append(marks, satisfiedStyle.Render("✓"))
		} else {
			marks = append(marks, unsatisfiedStyle.Render("✗"))
		}
	}

	return strings.Join(marks, "")
}

// renderStatus renders the status bar
func (m model) renderStatus() string {
	// Show status message if recent
	if m.statusMsg != "" && time.Since(m.statusMsgAge) < statusMessageDuration {
		return statusStyle.Width(m.width).Render(m.statusMsg)
	}

	undoInfo := fmt.Sprintf("U:%d R:%d", m.undoMgr.UndoSize(), m.undoMgr.RedoSize())

	var state string

	if m.ranking {
		state = fmt.Sprintf("Ranking %d/%s orderings", m.progress.Evaluated, formatTotal(m.progress.Total))
	} else {
		state = fmt.Sprintf("%d proposals in %s", len(m.results), m.rankElapsed.Round(time.Millisecond))
	}

	proposal := "Proposal -/-"
	if len(m.results) > 0 {
		proposal = fmt.Sprintf("Proposal %d/%d", m.cursorPos+1, len(m.results))
	}

	status := fmt.Sprintf("%s | %s | %d/%d constraints | %s",
		proposal,
		state,
		countEnabled(m.session.enabled),
		len(m.session.constraints),
		undoInfo,
	)

	return statusStyle.Width(m.width).Render(status)
}

// renderHelp renders the help text
func (m model) renderHelp() string {
	return helpStyle.Render(" Tab: switch panel | ↑/↓/j/k: navigate | ←/→/h/l: adjust param | space: toggle constraint | u: undo | ctrl+r: redo | r: reset | e: export | q: quit")
}

func countEnabled(enabled []bool) int {
	n := 0

	for _, e := range enabled {
		if e {
			n++
		}
	}

	return n
}

func formatTotal(total int64) string {
	if total < 0 {
		return "?"
	}

	return fmt.Sprint(total)
}
