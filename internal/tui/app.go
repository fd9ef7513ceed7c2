package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/charliek/slotview/internal/logging"
	"github.com/charliek/slotview/internal/source"
	"github.com/charliek/slotview/internal/viewer"
)

// Follower is the log source feeding the viewer
type Follower interface {
	Run(ctx context.Context, emit func(source.Batch)) error
}

// Run starts the TUI application and blocks until the user quits.
// Lines from follower are delivered to the model in file order.
func Run(ctx context.Context, state *viewer.State, follower Follower, opts Options) error {
	model := NewModel(state, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	// Start a goroutine to forward log lines to the TUI
	go func() {
		defer close(done)
		forwardBatches(ctx, p, follower, model.logger)
	}()

	_, runErr := p.Run()

	// Cleanup: stop the follower and wait for it to exit
	cancel()
	<-done

	return runErr
}

// sender is the part of tea.Program used by forwardBatches
type sender interface {
	Send(msg tea.Msg)
}

// forwardBatches runs the follower and sends each batch to the program.
// It exits when the context is cancelled or the follower stops.
func forwardBatches(ctx context.Context, p sender, follower Follower, logger *logging.Logger) {
	err := follower.Run(ctx, func(b source.Batch) {
		if ctx.Err() != nil {
			return
		}
		if len(b.Lines) > 0 {
			p.Send(LinesMsg(b.Lines))
		}
		if b.Err != nil {
			p.Send(SourceErrMsg{Err: b.Err})
		}
	})
	if err != nil {
		logger.Debug("log source stopped", "error", err)
	}
}
