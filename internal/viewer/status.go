package viewer

import (
	"fmt"
	"strings"

	"github.com/charliek/slotview/internal/domain"
	"github.com/charliek/slotview/internal/patterns"
)

// Status is a snapshot of everything the status line shows
type Status struct {
	Mode   Mode
	Active domain.ActiveFilter
	Target domain.Slot // Slot being edited in ModeEnteringPattern
	Entry  string      // Text typed so far in ModeEnteringPattern
	Slots  []patterns.Pattern
	Stats  domain.LogStats
	Follow bool
	Notice Notice
}

// Status returns the current status snapshot
func (s *State) Status() Status {
	target, text, _ := s.Entry()
	return Status{
		Mode:   s.mode,
		Active: s.active,
		Target: target,
		Entry:  text,
		Slots:  s.store.Slots(),
		Stats: domain.LogStats{
			Visible: len(s.Visible()),
			Total:   s.buffer.Count(),
		},
		Follow: s.follow,
		Notice: s.notice,
	}
}

// NoSlotsText is the slot summary when no slot is set
const NoSlotsText = "no patterns (/ to add)"

// SlotSummary lists the set slots as [n:'expr']. The active slot's item is
// passed through highlight when highlight is not nil.
func (st Status) SlotSummary(highlight func(string) string) string {
	if len(st.Slots) == 0 {
		return NoSlotsText
	}
	active, hasActive := st.Active.Slot()
	parts := make([]string, 0, len(st.Slots))
	for _, p := range st.Slots {
		item := fmt.Sprintf("[%s:'%s']", p.Slot, p.Expr)
		if highlight != nil && hasActive && p.Slot == active {
			item = highlight(item)
		}
		parts = append(parts, item)
	}
	return strings.Join(parts, " ")
}
