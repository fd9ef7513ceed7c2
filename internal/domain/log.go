package domain

import "fmt"

// LogLine represents a single line read from the log source
type LogLine struct {
	Index int    `json:"index"` // Arrival ordinal, 0-based
	Text  string `json:"text"`
}

// Slot identifies one of the nine pattern slots (1-9)
type Slot int

const (
	// MinSlot is the lowest addressable slot
	MinSlot Slot = 1
	// MaxSlot is the highest addressable slot
	MaxSlot Slot = 9
)

// Valid returns true if the slot is within 1-9
func (s Slot) Valid() bool {
	return s >= MinSlot && s <= MaxSlot
}

// String returns the digit for the slot
func (s Slot) String() string {
	return fmt.Sprintf("%d", int(s))
}

// SlotFromRune converts a digit key to a slot. '0' and non-digits report false.
func SlotFromRune(r rune) (Slot, bool) {
	if r < '1' || r > '9' {
		return 0, false
	}
	return Slot(r - '0'), true
}

// ActiveFilter selects which lines are visible. The zero value shows all lines.
type ActiveFilter struct {
	slot Slot
}

// NoFilter shows every line
var NoFilter = ActiveFilter{}

// FilterSlot returns a filter backed by the given slot
func FilterSlot(s Slot) ActiveFilter {
	return ActiveFilter{slot: s}
}

// IsNone returns true if no slot is active
func (f ActiveFilter) IsNone() bool {
	return !f.slot.Valid()
}

// Slot returns the active slot and whether one is set
func (f ActiveFilter) Slot() (Slot, bool) {
	if f.IsNone() {
		return 0, false
	}
	return f.slot, true
}

// String returns "none" or the slot digit
func (f ActiveFilter) String() string {
	if f.IsNone() {
		return "none"
	}
	return f.slot.String()
}

// LogStats contains counts for the current view
type LogStats struct {
	Visible int
	Total   int
}
