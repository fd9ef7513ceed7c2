// Package patterns holds the nine numbered regular-expression slots.
package patterns

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/charliek/slotview/internal/constants"
	"github.com/charliek/slotview/internal/domain"
)

// Pattern is a compiled expression stored in a slot
type Pattern struct {
	Slot   domain.Slot
	Expr   string
	Regexp *regexp.Regexp
}

// Matches returns true if the pattern matches anywhere in line
func (p *Pattern) Matches(line string) bool {
	return p.Regexp.MatchString(line)
}

// Store holds up to nine patterns addressed by slot digit.
// It is owned by a single goroutine and is not safe for concurrent use.
type Store struct {
	slots       [domain.MaxSlot + 1]*Pattern
	generations [domain.MaxSlot + 1]uint64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// Compile validates and compiles expr for slot without storing it
func Compile(slot domain.Slot, expr string) (*Pattern, error) {
	if !slot.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidSlot, int(slot))
	}
	if strings.TrimSpace(expr) == "" {
		return nil, &domain.PatternError{Slot: slot, Expr: expr, Err: errors.New("empty expression")}
	}
	if len(expr) > constants.MaxPatternLength {
		return nil, &domain.PatternError{
			Slot: slot,
			Expr: expr,
			Err:  fmt.Errorf("pattern exceeds maximum length of %d characters", constants.MaxPatternLength),
		}
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &domain.PatternError{Slot: slot, Expr: expr, Err: err}
	}
	return &Pattern{Slot: slot, Expr: expr, Regexp: re}, nil
}

// Set compiles expr and stores it in slot. On failure the slot is left untouched.
func (s *Store) Set(slot domain.Slot, expr string) error {
	p, err := Compile(slot, expr)
	if err != nil {
		return err
	}
	s.slots[slot] = p
	s.generations[slot]++
	return nil
}

// Get returns the pattern in slot, if set
func (s *Store) Get(slot domain.Slot) (*Pattern, bool) {
	if !slot.Valid() || s.slots[slot] == nil {
		return nil, false
	}
	return s.slots[slot], true
}

// Has returns true if slot holds a pattern
func (s *Store) Has(slot domain.Slot) bool {
	_, ok := s.Get(slot)
	return ok
}

// Generation returns a counter that changes every time slot is overwritten
func (s *Store) Generation(slot domain.Slot) uint64 {
	if !slot.Valid() {
		return 0
	}
	return s.generations[slot]
}

// Lookup returns the slot already holding exactly expr
func (s *Store) Lookup(expr string) (domain.Slot, bool) {
	for slot := domain.MinSlot; slot <= domain.MaxSlot; slot++ {
		if p := s.slots[slot]; p != nil && p.Expr == expr {
			return slot, true
		}
	}
	return 0, false
}

// FirstFree returns the lowest empty slot
func (s *Store) FirstFree() (domain.Slot, bool) {
	for slot := domain.MinSlot; slot <= domain.MaxSlot; slot++ {
		if s.slots[slot] == nil {
			return slot, true
		}
	}
	return 0, false
}

// Slots returns the set patterns in ascending slot order
func (s *Store) Slots() []Pattern {
	result := make([]Pattern, 0, domain.MaxSlot)
	for slot := domain.MinSlot; slot <= domain.MaxSlot; slot++ {
		if p := s.slots[slot]; p != nil {
			result = append(result, *p)
		}
	}
	return result
}

// Len returns the number of set slots
func (s *Store) Len() int {
	n := 0
	for slot := domain.MinSlot; slot <= domain.MaxSlot; slot++ {
		if s.slots[slot] != nil {
			n++
		}
	}
	return n
}
