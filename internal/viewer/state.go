// Package viewer owns the viewer state: the line buffer, the pattern slots,
// the active filter and the input mode. All mutation happens through State
// methods called from a single event loop.
package viewer

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charliek/slotview/internal/constants"
	"github.com/charliek/slotview/internal/domain"
	"github.com/charliek/slotview/internal/logging"
	"github.com/charliek/slotview/internal/logs"
	"github.com/charliek/slotview/internal/patterns"
)

// Mode is the input mode of the state machine
type Mode int

const (
	ModeNormal Mode = iota
	ModeEnteringPattern
)

// String returns a short label for the mode
func (m Mode) String() string {
	if m == ModeEnteringPattern {
		return "PATTERN"
	}
	return "NORMAL"
}

// entry is the in-progress expression while in ModeEnteringPattern
type entry struct {
	target domain.Slot
	auto   bool // target chosen by '/', not by alt+digit
	buffer []rune
}

// Notice is a transient status message
type Notice struct {
	Text  string
	Err   bool
	Seq   uint64
	Valid bool
}

// Options configures a new State
type Options struct {
	Patterns   map[domain.Slot]string // Preset slot expressions
	ActiveSlot domain.Slot            // Slot to activate at start, 0 for none
	KeepBlank  bool                   // Keep whitespace-only lines
	Follow     bool                   // Start with auto-follow enabled
	Logger     *logging.Logger
}

// State is the single owned viewer state
type State struct {
	buffer *logs.Buffer
	store  *patterns.Store
	engine *logs.Engine

	active domain.ActiveFilter
	mode   Mode
	entry  entry

	keepBlank bool
	follow    bool

	notice    Notice
	noticeSeq uint64

	logger *logging.Logger
}

// New creates a State with the preset patterns compiled into their slots
func New(opts Options) (*State, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	store := patterns.NewStore()
	s := &State{
		buffer:    logs.NewBuffer(1024),
		store:     store,
		engine:    logs.NewEngine(store),
		keepBlank: opts.KeepBlank,
		follow:    opts.Follow,
		logger:    logger.With("component", "viewer"),
	}

	for slot := range opts.Patterns {
		if !slot.Valid() {
			return nil, fmt.Errorf("%w: %d", domain.ErrInvalidSlot, int(slot))
		}
	}
	for slot := domain.MinSlot; slot <= domain.MaxSlot; slot++ {
		expr, ok := opts.Patterns[slot]
		if !ok {
			continue
		}
		if err := store.Set(slot, expr); err != nil {
			return nil, err
		}
	}

	if opts.ActiveSlot != 0 {
		if !store.Has(opts.ActiveSlot) {
			return nil, fmt.Errorf("active slot %d: %w", int(opts.ActiveSlot), domain.ErrEmptySlot)
		}
		s.active = domain.FilterSlot(opts.ActiveSlot)
	}

	return s, nil
}

// AppendLines adds newly arrived lines in order and reports whether the
// visible view may have changed
func (s *State) AppendLines(lines []string) bool {
	grew := false
	for _, line := range lines {
		if !s.keepBlank && strings.TrimSpace(line) == "" {
			continue
		}
		s.buffer.Append(line)
		grew = true
	}
	return grew
}

// ReportSourceError records a log source failure on the status line
func (s *State) ReportSourceError(err error) {
	if err == nil {
		return
	}
	s.logger.Error("log source error", "error", err)
	s.setNotice("source: "+err.Error(), true)
}

// HandleKey applies a key press to the state machine
func (s *State) HandleKey(k Key) Outcome {
	if s.mode == ModeEnteringPattern {
		return s.handleEntryKey(k)
	}
	return s.handleNormalKey(k)
}

func (s *State) handleNormalKey(k Key) Outcome {
	switch k.Type {
	case KeyInterrupt:
		return Outcome{Quit: true}
	case KeyUp:
		return s.scroll(ScrollUp)
	case KeyDown:
		return s.scroll(ScrollDown)
	case KeyPageUp:
		return s.scroll(ScrollPageUp)
	case KeyPageDown:
		return s.scroll(ScrollPageDown)
	case KeyHome:
		return s.scroll(ScrollTop)
	case KeyEnd:
		return s.scroll(ScrollBottom)
	case KeyRune:
	default:
		return Outcome{}
	}

	if k.Alt {
		if slot, ok := domain.SlotFromRune(k.Rune); ok {
			return s.beginEntry(slot, false)
		}
		return Outcome{}
	}

	switch k.Rune {
	case 'q':
		return Outcome{Quit: true}
	case '0':
		return s.selectNone()
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		slot, _ := domain.SlotFromRune(k.Rune)
		return s.selectSlot(slot)
	case '/':
		return s.beginEntry(s.autoTarget(), true)
	case '?':
		return Outcome{ToggleHelp: true}
	case 'k':
		return s.scroll(ScrollUp)
	case 'j':
		return s.scroll(ScrollDown)
	case ' ':
		return s.scroll(ScrollPageDown)
	case 'g':
		return s.scroll(ScrollTop)
	case 'G':
		return s.scroll(ScrollBottom)
	case 'F':
		s.follow = !s.follow
		if s.follow {
			return Outcome{Scroll: ScrollBottom}
		}
		return Outcome{}
	}
	return Outcome{}
}

func (s *State) handleEntryKey(k Key) Outcome {
	switch k.Type {
	case KeyInterrupt:
		return Outcome{Quit: true}
	case KeyEscape:
		s.logger.Debug("pattern entry cancelled", "slot", int(s.entry.target))
		s.exitEntry()
		return Outcome{}
	case KeyEnter:
		return s.commit()
	case KeyBackspace:
		if n := len(s.entry.buffer); n > 0 {
			s.entry.buffer = s.entry.buffer[:n-1]
		}
		return Outcome{}
	case KeyRune:
		if k.Alt || k.Rune < ' ' || k.Rune == 0x7f {
			return Outcome{}
		}
		// The buffer never grows past what the store accepts
		n := utf8.RuneLen(k.Rune)
		if n < 0 || len(string(s.entry.buffer))+n > constants.MaxPatternLength {
			return Outcome{}
		}
		s.entry.buffer = append(s.entry.buffer, k.Rune)
		return Outcome{}
	}
	return Outcome{}
}

func (s *State) scroll(dir Scroll) Outcome {
	switch dir {
	case ScrollUp, ScrollPageUp, ScrollTop:
		s.follow = false
	case ScrollBottom:
		s.follow = true
	}
	return Outcome{Scroll: dir}
}

func (s *State) selectNone() Outcome {
	if s.active.IsNone() {
		return Outcome{}
	}
	s.active = domain.NoFilter
	return Outcome{Rerender: true}
}

// selectSlot activates slot. An unset slot keeps the current filter.
func (s *State) selectSlot(slot domain.Slot) Outcome {
	if !s.store.Has(slot) {
		s.setNotice(fmt.Sprintf("slot %s is empty (/ or alt+%s to set it)", slot, slot), false)
		return Outcome{Notice: true}
	}
	if cur, ok := s.active.Slot(); ok && cur == slot {
		return Outcome{}
	}
	s.active = domain.FilterSlot(slot)
	return Outcome{Rerender: true}
}

// autoTarget picks the slot a '/' entry writes to: the first free slot,
// else the active slot, else the last slot.
func (s *State) autoTarget() domain.Slot {
	if slot, ok := s.store.FirstFree(); ok {
		return slot
	}
	if slot, ok := s.active.Slot(); ok {
		return slot
	}
	return domain.MaxSlot
}

func (s *State) beginEntry(target domain.Slot, auto bool) Outcome {
	s.mode = ModeEnteringPattern
	s.entry = entry{target: target, auto: auto}
	if !auto {
		if p, ok := s.store.Get(target); ok {
			s.entry.buffer = []rune(p.Expr)
		}
	}
	return Outcome{}
}

func (s *State) exitEntry() {
	s.mode = ModeNormal
	s.entry = entry{}
}

func (s *State) commit() Outcome {
	e := s.entry
	s.exitEntry()

	expr := string(e.buffer)
	if strings.TrimSpace(expr) == "" {
		s.setNotice("empty pattern, nothing saved", false)
		return Outcome{Notice: true}
	}

	if e.auto {
		if slot, ok := s.store.Lookup(expr); ok {
			out := s.selectSlot(slot)
			s.setNotice(fmt.Sprintf("already in slot %s", slot), false)
			out.Notice = true
			return out
		}
	}

	if err := s.store.Set(e.target, expr); err != nil {
		s.logger.Warn("pattern rejected", "slot", int(e.target), "expr", expr, "error", err)
		s.setNotice(patternErrorText(err), true)
		return Outcome{Notice: true}
	}
	s.engine.Invalidate(e.target)
	s.logger.Info("pattern saved", "slot", int(e.target), "expr", expr)

	s.active = domain.FilterSlot(e.target)
	s.setNotice(fmt.Sprintf("slot %s = %s", e.target, expr), false)
	return Outcome{Rerender: true, Notice: true}
}

func patternErrorText(err error) string {
	var pe *domain.PatternError
	if errors.As(err, &pe) && pe.Err != nil {
		return fmt.Sprintf("invalid pattern for slot %s: %v", pe.Slot, pe.Err)
	}
	return err.Error()
}

func (s *State) setNotice(text string, isErr bool) {
	s.noticeSeq++
	s.notice = Notice{Text: text, Err: isErr, Seq: s.noticeSeq, Valid: true}
}

// ClearNotice removes the notice with the given sequence number. Newer
// notices are left in place.
func (s *State) ClearNotice(seq uint64) bool {
	if !s.notice.Valid || s.notice.Seq != seq {
		return false
	}
	s.notice = Notice{}
	return true
}

// Notice returns the current status notice
func (s *State) Notice() Notice {
	return s.notice
}

// Visible returns the lines visible under the active filter
func (s *State) Visible() []domain.LogLine {
	return s.engine.Render(s.buffer, s.active)
}

// Active returns the active filter
func (s *State) Active() domain.ActiveFilter {
	return s.active
}

// Mode returns the current input mode
func (s *State) Mode() Mode {
	return s.mode
}

// Entry returns the target slot and text being entered
func (s *State) Entry() (domain.Slot, string, bool) {
	if s.mode != ModeEnteringPattern {
		return 0, "", false
	}
	return s.entry.target, string(s.entry.buffer), true
}

// Following returns true if the view should stick to the newest line
func (s *State) Following() bool {
	return s.follow
}

// SetFollowing updates auto-follow, e.g. when the user scrolls back to the bottom
func (s *State) SetFollowing(follow bool) {
	s.follow = follow
}

// Patterns returns the set slots in ascending order
func (s *State) Patterns() []patterns.Pattern {
	return s.store.Slots()
}

// Total returns the number of buffered lines
func (s *State) Total() int {
	return s.buffer.Count()
}
