package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/charliek/slotview/internal/constants"
	"github.com/charliek/slotview/internal/logging"
	"github.com/charliek/slotview/internal/viewer"
)

// Options configures a Model
type Options struct {
	Path           string        // Shown in the header
	NoticeDuration time.Duration // How long status notices stay visible
	Logger         *logging.Logger
}

// Model is the bubbletea model for the viewer. All state changes go
// through the wrapped viewer.State from Update.
type Model struct {
	state  *viewer.State
	logger *logging.Logger

	// UI components
	viewport  viewport.Model
	textInput textinput.Model

	path           string
	noticeDuration time.Duration
	showHelp       bool

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewModel creates a new TUI model around state
func NewModel(state *viewer.State, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.Placeholder = "regular expression"
	ti.CharLimit = constants.PromptCharLimit

	if opts.NoticeDuration <= 0 {
		opts.NoticeDuration = constants.DefaultNoticeDuration
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return Model{
		state:          state,
		logger:         logger.With("component", "tui"),
		textInput:      ti,
		path:           opts.Path,
		noticeDuration: opts.NoticeDuration,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// State returns the wrapped viewer state
func (m Model) State() *viewer.State {
	return m.state
}

// LinesMsg carries lines read from the log file, in file order
type LinesMsg []string

// SourceErrMsg is sent when reading or following the log file fails
type SourceErrMsg struct {
	Err error
}

// noticeClearMsg is sent to clear a status notice after a delay
type noticeClearMsg struct {
	seq uint64
}

// noticeClearCmd returns a command that clears the current notice after a
// delay. A newer notice is not affected.
func (m Model) noticeClearCmd() tea.Cmd {
	n := m.state.Notice()
	if !n.Valid {
		return nil
	}
	seq := n.Seq
	return tea.Tick(m.noticeDuration, func(t time.Time) tea.Msg {
		return noticeClearMsg{seq: seq}
	})
}
