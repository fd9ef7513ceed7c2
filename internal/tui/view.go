package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/charliek/slotview/internal/viewer"
)

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.showHelp {
		return m.helpView()
	}
	return m.mainView()
}

// mainView renders the main TUI layout
func (m Model) mainView() string {
	st := m.state.Status()

	var sb strings.Builder
	sb.WriteString(m.header(st))
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(m.statusBar(st))
	sb.WriteString("\n")
	sb.WriteString(m.promptLine(st))
	return sb.String()
}

// header renders the file name and the saved slots
func (m Model) header(st viewer.Status) string {
	name := filepath.Base(m.path)
	if name == "." || name == "" {
		name = "slotview"
	}

	slots := st.SlotSummary(func(item string) string { return activeStyle.Render(item) })
	if len(st.Slots) == 0 {
		slots = dimStyle.Render(slots)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top, titleStyle.Render(name), "  ", slots)
	return headerStyle.Width(m.width).MaxHeight(1).Render(header)
}

// statusBar renders the mode, filter, follow flag and line counts
func (m Model) statusBar(st viewer.Status) string {
	var left string
	switch st.Mode {
	case viewer.ModeEnteringPattern:
		left = entryStyle.Render(st.Mode.String()) + fmt.Sprintf(" slot %s (Enter save, Esc cancel)", st.Target)
	default:
		if st.Active.IsNone() {
			left = st.Mode.String() + " | Filter: none"
		} else {
			left = st.Mode.String() + " | Filter: " + activeStyle.Render("slot "+st.Active.String()) + " (0 to clear)"
		}
	}

	followIndicator := "[FOLLOW]"
	if !st.Follow {
		followIndicator = "[PAUSED]"
	}
	right := fmt.Sprintf("%s %d/%d lines", followIndicator, st.Stats.Visible, st.Stats.Total)

	// Calculate widths
	leftWidth := m.width - lipgloss.Width(right) - 4
	if leftWidth < 0 {
		leftWidth = 0
	}

	leftPart := statusStyle.Width(leftWidth).MaxHeight(1).Render(left)
	rightPart := statusStyle.Render(right)

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPart, "  ", rightPart)
}

// promptLine renders the pattern prompt, the current notice or a key hint
func (m Model) promptLine(st viewer.Status) string {
	if st.Mode == viewer.ModeEnteringPattern {
		return m.textInput.View()
	}
	if st.Notice.Valid {
		text := truncate(st.Notice.Text, m.width-2)
		if st.Notice.Err {
			return errorStyle.Render(" " + text + " ")
		}
		return noticeStyle.Render(text)
	}
	return dimStyle.Render(truncate("0 all | 1-9 filter | / new pattern | alt+1-9 edit slot | ? help | q quit", m.width))
}

// helpView renders the help overlay
func (m Model) helpView() string {
	help := `
slotview - Log Viewer

Filtering:
  0          Show all lines
  1-9        Show lines matching the pattern in that slot
  /          Type a new pattern (saved to the first free slot)
  Alt+1-9    Edit the pattern in that slot
  Enter      Save the pattern and activate its slot
  Esc        Cancel pattern entry

Navigation:
  j/↓        Scroll down
  k/↑        Scroll up (pauses auto-follow)
  g/Home     Go to top (pauses auto-follow)
  G/End      Go to bottom (resumes auto-follow)
  PgUp/PgDn  Page up/down (Space pages down)
  F          Toggle auto-follow mode

Other:
  ?          Toggle help
  q/Ctrl+C   Quit

Press any key to close help...
`
	return helpStyle.Render(help)
}

// truncate shortens s to maxLen characters
func truncate(s string, maxLen int) string {
	if maxLen <= 3 {
		return s
	}
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
