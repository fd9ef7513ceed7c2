package tui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	// Filter colors
	activeColor = lipgloss.Color("10") // Green
	entryColor  = lipgloss.Color("11") // Yellow

	// UI colors
	headerBg    = lipgloss.Color("235")
	statusBg    = lipgloss.Color("236")
	helpBg      = lipgloss.Color("234")
	errorColor  = lipgloss.Color("9")
	noticeColor = lipgloss.Color("14") // Cyan
	dimColor    = lipgloss.Color("8")
)

// Styles
var (
	// Header style
	headerStyle = lipgloss.NewStyle().
			Background(headerBg).
			Padding(0, 1)

	// File name in the header
	titleStyle = lipgloss.NewStyle().
			Bold(true)

	// Active slot in the slot summary and status bar
	activeStyle = lipgloss.NewStyle().
			Foreground(activeColor).
			Bold(true)

	// Mode label while a pattern is being typed
	entryStyle = lipgloss.NewStyle().
			Foreground(entryColor).
			Bold(true)

	// Status bar style
	statusStyle = lipgloss.NewStyle().
			Background(statusBg).
			Padding(0, 1)

	// Help overlay style
	helpStyle = lipgloss.NewStyle().
			Background(helpBg).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	// Error notice style
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(errorColor).
			Bold(true)

	// Informational notice style
	noticeStyle = lipgloss.NewStyle().
			Foreground(noticeColor)

	// Dim style for hints
	dimStyle = lipgloss.NewStyle().
			Foreground(dimColor)
)
