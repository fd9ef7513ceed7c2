package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliek/slotview/internal/constants"
	"github.com/charliek/slotview/internal/domain"
	"github.com/charliek/slotview/internal/source"
	"github.com/charliek/slotview/internal/viewer"
)

var scenarioLines = []string{"error: disk full", "info: ok", "error: network"}

// newTestModel creates a sized Model around a fresh viewer state.
// This reduces boilerplate in tests that need a basic model.
func newTestModel(t *testing.T, opts viewer.Options) Model {
	t.Helper()
	state, err := viewer.New(opts)
	require.NoError(t, err)

	model := NewModel(state, Options{Path: "/var/log/app.log", NoticeDuration: time.Second})
	newModel, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	return newModel.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys one at a time and returns the model and the last command
func press(m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(Model)
	}
	return m, cmd
}

func visibleText(m Model) []string {
	var out []string
	for _, l := range m.state.Visible() {
		out = append(out, l.Text)
	}
	return out
}

func TestNewModel(t *testing.T) {
	state, err := viewer.New(viewer.Options{})
	require.NoError(t, err)
	model := NewModel(state, Options{})

	assert.False(t, model.ready)
	assert.False(t, model.showHelp)
	assert.Equal(t, "Initializing...", model.View())
	assert.Nil(t, model.Init())
	assert.Same(t, state, model.State())
}

func TestModel_WindowSize(t *testing.T) {
	model := newTestModel(t, viewer.Options{})

	assert.True(t, model.ready)
	assert.Equal(t, 80, model.width)
	assert.Equal(t, 7, model.viewport.Height)

	newModel, _ := model.Update(tea.WindowSizeMsg{Width: 40, Height: 2})
	m := newModel.(Model)
	assert.Equal(t, 40, m.viewport.Width)
	assert.Equal(t, 1, m.viewport.Height)
}

func TestModel_LinesMsg(t *testing.T) {
	model := newTestModel(t, viewer.Options{})

	newModel, _ := model.Update(LinesMsg(scenarioLines))
	m := newModel.(Model)

	assert.Equal(t, 3, m.state.Total())
	assert.Equal(t, 3, m.viewport.TotalLineCount())
	assert.Contains(t, m.View(), "info: ok")
	assert.Contains(t, m.View(), "3/3 lines")
}

func TestModel_SelectSlotFiltersView(t *testing.T) {
	model := newTestModel(t, viewer.Options{Patterns: map[domain.Slot]string{1: "error"}})
	newModel, _ := model.Update(LinesMsg(scenarioLines))
	m := newModel.(Model)

	m, _ = press(m, runes("1"))
	assert.Equal(t, []string{"error: disk full", "error: network"}, visibleText(m))
	assert.Equal(t, 2, m.viewport.TotalLineCount())
	view := m.View()
	assert.NotContains(t, view, "info: ok")
	assert.Contains(t, view, "2/3 lines")
	assert.Contains(t, view, "Filter: slot 1")

	m, _ = press(m, runes("0"))
	assert.Equal(t, scenarioLines, visibleText(m))
	assert.Contains(t, m.View(), "Filter: none")
}

func TestModel_LinesArriveUnderActiveFilter(t *testing.T) {
	model := newTestModel(t, viewer.Options{
		Patterns:   map[domain.Slot]string{2: "warn"},
		ActiveSlot: 2,
	})

	newModel, _ := model.Update(LinesMsg{"warn: a", "info: b"})
	m := newModel.(Model)
	newModel, _ = m.Update(LinesMsg{"warn: c"})
	m = newModel.(Model)

	assert.Equal(t, []string{"warn: a", "warn: c"}, visibleText(m))
	assert.Equal(t, 2, m.viewport.TotalLineCount())
}

func TestModel_HandleKey_Quit(t *testing.T) {
	model := newTestModel(t, viewer.Options{})

	_, cmd := press(model, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	_, cmd = press(model, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_QuitStopsProcessingPastedKeys(t *testing.T) {
	model := newTestModel(t, viewer.Options{})

	m, cmd := press(model, runes("q/"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, viewer.ModeNormal, m.state.Mode())
}

func TestModel_PatternEntry(t *testing.T) {
	model := newTestModel(t, viewer.Options{})
	newModel, _ := model.Update(LinesMsg(scenarioLines))
	m := newModel.(Model)

	m, cmd := press(m, runes("/"))
	assert.Equal(t, viewer.ModeEnteringPattern, m.state.Mode())
	assert.True(t, m.textInput.Focused())
	assert.NotNil(t, cmd)

	m, _ = press(m, runes("e"), runes("r"), runes("x"), tea.KeyMsg{Type: tea.KeyBackspace}, runes("r"))
	assert.Equal(t, "err", m.textInput.Value())
	view := m.View()
	assert.Contains(t, view, "Search: ")
	assert.Contains(t, view, "PATTERN slot 1")

	m, cmd = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, viewer.ModeNormal, m.state.Mode())
	assert.False(t, m.textInput.Focused())
	assert.Empty(t, m.textInput.Value())
	assert.NotNil(t, cmd, "notice clear command expected")

	active, ok := m.state.Active().Slot()
	require.True(t, ok)
	assert.Equal(t, domain.Slot(1), active)
	assert.Equal(t, []string{"error: disk full", "error: network"}, visibleText(m))
	assert.Contains(t, m.View(), "slot 1 = err")
	assert.Contains(t, m.View(), "[1:'err']")
}

func TestModel_InvalidPatternShowsError(t *testing.T) {
	model := newTestModel(t, viewer.Options{Patterns: map[domain.Slot]string{1: "error"}, ActiveSlot: 1})
	newModel, _ := model.Update(LinesMsg(scenarioLines))
	m := newModel.(Model)

	m, _ = press(m, runes("/"), runes("["), tea.KeyMsg{Type: tea.KeyEnter})

	n := m.state.Notice()
	assert.True(t, n.Valid)
	assert.True(t, n.Err)
	assert.Contains(t, n.Text, "invalid pattern for slot 2")
	assert.Equal(t, domain.FilterSlot(1), m.state.Active())
	assert.Len(t, m.state.Patterns(), 1)
	assert.Equal(t, []string{"error: disk full", "error: network"}, visibleText(m))
}

func TestModel_PastedPatternIsNotAlt(t *testing.T) {
	model := newTestModel(t, viewer.Options{})

	m, _ := press(model, runes("/"), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a1|b"), Paste: true})
	assert.Equal(t, "a1|b", m.textInput.Value())
}

func TestModel_PastedPatternIsCapped(t *testing.T) {
	model := newTestModel(t, viewer.Options{})
	long := strings.Repeat("x", constants.MaxPatternLength+44)

	m, _ := press(model, runes("/"), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(long), Paste: true})
	_, text, _ := m.state.Entry()
	assert.Len(t, text, constants.MaxPatternLength)
	assert.Equal(t, text, m.textInput.Value())

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.state.Patterns(), 1)
	assert.Equal(t, long[:constants.MaxPatternLength], m.state.Patterns()[0].Expr)
}

func TestModel_AltDigitEditsSlot(t *testing.T) {
	model := newTestModel(t, viewer.Options{Patterns: map[domain.Slot]string{4: "timeout"}})

	m, _ := press(model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'4'}, Alt: true})
	target, text, entering := m.state.Entry()
	require.True(t, entering)
	assert.Equal(t, domain.Slot(4), target)
	assert.Equal(t, "timeout", text)
	assert.Equal(t, "timeout", m.textInput.Value())

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, viewer.ModeNormal, m.state.Mode())
	assert.Empty(t, m.textInput.Value())
}

func TestModel_HeaderListsSlots(t *testing.T) {
	model := newTestModel(t, viewer.Options{})
	assert.Contains(t, model.View(), viewer.NoSlotsText)

	model = newTestModel(t, viewer.Options{
		Patterns:   map[domain.Slot]string{1: "error", 3: "ok"},
		ActiveSlot: 3,
	})
	header := strings.SplitN(model.View(), "\n", 2)[0]
	assert.Contains(t, header, "app.log")
	assert.Contains(t, header, model.state.Status().SlotSummary(func(item string) string { return activeStyle.Render(item) }))
	assert.NotContains(t, header, viewer.NoSlotsText)
}

func TestModel_HelpToggle(t *testing.T) {
	model := newTestModel(t, viewer.Options{})

	m, _ := press(model, runes("?"))
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Edit the pattern in that slot")

	// Any key closes help without reaching the state
	m, _ = press(m, runes("/"))
	assert.False(t, m.showHelp)
	assert.Equal(t, viewer.ModeNormal, m.state.Mode())

	m, _ = press(m, runes("?"))
	_, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_ScrollAndFollow(t *testing.T) {
	model := newTestModel(t, viewer.Options{Follow: true})
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	newModel, _ := model.Update(LinesMsg(lines))
	m := newModel.(Model)

	assert.True(t, m.viewport.AtBottom())
	assert.Contains(t, m.View(), "[FOLLOW]")

	m, _ = press(m, runes("k"))
	assert.False(t, m.state.Following())
	assert.False(t, m.viewport.AtBottom())
	assert.Contains(t, m.View(), "[PAUSED]")

	// New lines do not move a paused view
	offset := m.viewport.YOffset
	newModel, _ = m.Update(LinesMsg{"line 50"})
	m = newModel.(Model)
	assert.Equal(t, offset, m.viewport.YOffset)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.True(t, m.state.Following())
	assert.True(t, m.viewport.AtBottom())

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, m.viewport.YOffset)
	assert.False(t, m.state.Following())

	m, _ = press(m, runes("G"), runes("k"), runes("j"))
	assert.True(t, m.viewport.AtBottom())
	assert.True(t, m.state.Following(), "scrolling back to the bottom resumes follow")
}

func TestModel_SourceErrMsg(t *testing.T) {
	model := newTestModel(t, viewer.Options{})
	newModel, _ := model.Update(LinesMsg(scenarioLines))
	m := newModel.(Model)

	srcErr := &domain.SourceError{Path: "/var/log/app.log", Err: errors.New("permission denied")}
	newModel, cmd := m.Update(SourceErrMsg{Err: srcErr})
	m = newModel.(Model)

	assert.NotNil(t, cmd)
	assert.True(t, m.state.Notice().Err)
	assert.Contains(t, m.View(), "permission denied")
	assert.Equal(t, 3, m.state.Total(), "buffer is kept after a source error")
}

func TestModel_NoticeClear(t *testing.T) {
	model := newTestModel(t, viewer.Options{})

	m, _ := press(model, runes("5"))
	first := m.state.Notice()
	require.True(t, first.Valid)

	m, _ = press(m, runes("6"))
	second := m.state.Notice()
	require.True(t, second.Valid)

	// The first notice's timer must not clear the newer one
	newModel, _ := m.Update(noticeClearMsg{seq: first.Seq})
	m = newModel.(Model)
	assert.True(t, m.state.Notice().Valid)

	newModel, _ = m.Update(noticeClearMsg{seq: second.Seq})
	m = newModel.(Model)
	assert.False(t, m.state.Notice().Valid)
	assert.Contains(t, m.View(), "? help")
}

func TestKeysFromMsg(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want []viewer.Key
	}{
		{"rune", runes("a"), []viewer.Key{viewer.RuneKey('a')}},
		{"alt digit", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}, Alt: true}, []viewer.Key{viewer.AltKey('3')}},
		{"paste", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab"), Paste: true}, []viewer.Key{viewer.RuneKey('a'), viewer.RuneKey('b')}},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, []viewer.Key{viewer.RuneKey(' ')}},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, []viewer.Key{{Type: viewer.KeyEnter}}},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, []viewer.Key{{Type: viewer.KeyEscape}}},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, []viewer.Key{{Type: viewer.KeyBackspace}}},
		{"pgdown", tea.KeyMsg{Type: tea.KeyPgDown}, []viewer.Key{{Type: viewer.KeyPageDown}}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, []viewer.Key{{Type: viewer.KeyInterrupt}}},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, []viewer.Key{{Type: viewer.KeyOther}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keysFromMsg(tt.msg))
		})
	}
}

type fakeSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (f *fakeSender) Send(msg tea.Msg) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
}

type fakeFollower struct {
	batches []source.Batch
	err     error
}

func (f *fakeFollower) Run(ctx context.Context, emit func(source.Batch)) error {
	for _, b := range f.batches {
		emit(b)
	}
	return f.err
}

func TestForwardBatches(t *testing.T) {
	srcErr := &domain.SourceError{Path: "app.log", Err: errors.New("boom")}
	follower := &fakeFollower{
		batches: []source.Batch{
			{Lines: []string{"a", "b"}},
			{Lines: []string{"c"}},
			{Err: srcErr},
		},
		err: srcErr,
	}
	p := &fakeSender{}

	model := NewModel(nil, Options{})
	forwardBatches(context.Background(), p, follower, model.logger)

	require.Len(t, p.msgs, 3)
	assert.Equal(t, LinesMsg{"a", "b"}, p.msgs[0])
	assert.Equal(t, LinesMsg{"c"}, p.msgs[1])
	assert.Equal(t, SourceErrMsg{Err: srcErr}, p.msgs[2])
}

func TestForwardBatches_Cancelled(t *testing.T) {
	follower := &fakeFollower{batches: []source.Batch{{Lines: []string{"a"}}}}
	p := &fakeSender{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	model := NewModel(nil, Options{})
	forwardBatches(ctx, p, follower, model.logger)

	assert.Empty(t, p.msgs)
}
