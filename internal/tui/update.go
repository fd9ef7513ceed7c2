package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/charliek/slotview/internal/viewer"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
		m.updateViewport()

	case LinesMsg:
		if m.state.AppendLines(msg) {
			m.updateViewport()
		}

	case SourceErrMsg:
		m.state.ReportSourceError(msg.Err)
		cmds = append(cmds, m.noticeClearCmd())

	case noticeClearMsg:
		m.state.ClearNotice(msg.seq)
	}

	// Cursor blink while a pattern is being typed
	if m.state.Mode() == viewer.ModeEnteringPattern {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		m.showHelp = false
		return m, nil
	}

	wasEntering := m.state.Mode() == viewer.ModeEnteringPattern
	var cmds []tea.Cmd

	for _, k := range keysFromMsg(msg) {
		out := m.state.HandleKey(k)
		if out.Quit {
			m.logger.Debug("quit requested")
			return m, tea.Quit
		}
		cmds = append(cmds, m.applyOutcome(out))
	}

	cmds = append(cmds, m.syncPrompt(wasEntering))
	return m, tea.Batch(cmds...)
}

// applyOutcome updates the view for what a key changed in the state
func (m *Model) applyOutcome(out viewer.Outcome) tea.Cmd {
	if out.Rerender {
		m.updateViewport()
	}
	if out.Scroll != viewer.ScrollNone {
		m.scroll(out.Scroll)
	}
	if out.ToggleHelp {
		m.showHelp = !m.showHelp
	}
	if out.Notice {
		return m.noticeClearCmd()
	}
	return nil
}

// scroll moves the viewport. Reaching the bottom resumes follow.
func (m *Model) scroll(dir viewer.Scroll) {
	switch dir {
	case viewer.ScrollUp:
		m.viewport.LineUp(1)
	case viewer.ScrollDown:
		m.viewport.LineDown(1)
	case viewer.ScrollPageUp:
		m.viewport.HalfViewUp()
	case viewer.ScrollPageDown:
		m.viewport.HalfViewDown()
	case viewer.ScrollTop:
		m.viewport.GotoTop()
	case viewer.ScrollBottom:
		m.viewport.GotoBottom()
	}

	if (dir == viewer.ScrollDown || dir == viewer.ScrollPageDown) && m.viewport.AtBottom() {
		m.state.SetFollowing(true)
	}
}

// syncPrompt mirrors the entry buffer into the text input
func (m *Model) syncPrompt(wasEntering bool) tea.Cmd {
	_, text, entering := m.state.Entry()
	if !entering {
		if wasEntering {
			m.textInput.Blur()
			m.textInput.SetValue("")
		}
		return nil
	}

	m.textInput.SetValue(text)
	m.textInput.CursorEnd()
	if !wasEntering {
		return m.textInput.Focus()
	}
	return nil
}

// handleWindowSize handles window resize messages
func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	headerHeight := 1 // File name and slot list
	footerHeight := 2 // Status bar and prompt/notice line
	verticalMargins := headerHeight + footerHeight

	viewportHeight := msg.Height - verticalMargins
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, viewportHeight)
		m.viewport.YPosition = headerHeight
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = viewportHeight
	}
	m.textInput.Width = max(msg.Width-len(m.textInput.Prompt)-2, 1)
}

// updateViewport replaces the viewport content with the visible lines
func (m *Model) updateViewport() {
	visible := m.state.Visible()
	lines := make([]string, len(visible))
	for i, line := range visible {
		lines[i] = line.Text
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))

	if m.state.Following() {
		m.viewport.GotoBottom()
	}
}

// keysFromMsg translates a bubbletea key event into viewer keys. Pasted
// text arrives as one event carrying several runes.
func keysFromMsg(msg tea.KeyMsg) []viewer.Key {
	switch msg.Type {
	case tea.KeyRunes:
		keys := make([]viewer.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			keys = append(keys, viewer.Key{Type: viewer.KeyRune, Rune: r, Alt: msg.Alt && !msg.Paste})
		}
		return keys
	case tea.KeySpace:
		return []viewer.Key{{Type: viewer.KeyRune, Rune: ' ', Alt: msg.Alt}}
	case tea.KeyEnter:
		return []viewer.Key{{Type: viewer.KeyEnter}}
	case tea.KeyEsc:
		return []viewer.Key{{Type: viewer.KeyEscape}}
	case tea.KeyBackspace, tea.KeyCtrlH:
		return []viewer.Key{{Type: viewer.KeyBackspace}}
	case tea.KeyUp:
		return []viewer.Key{{Type: viewer.KeyUp}}
	case tea.KeyDown:
		return []viewer.Key{{Type: viewer.KeyDown}}
	case tea.KeyPgUp:
		return []viewer.Key{{Type: viewer.KeyPageUp}}
	case tea.KeyPgDown:
		return []viewer.Key{{Type: viewer.KeyPageDown}}
	case tea.KeyHome:
		return []viewer.Key{{Type: viewer.KeyHome}}
	case tea.KeyEnd:
		return []viewer.Key{{Type: viewer.KeyEnd}}
	case tea.KeyCtrlC:
		return []viewer.Key{{Type: viewer.KeyInterrupt}}
	}
	return []viewer.Key{{Type: viewer.KeyOther}}
}
