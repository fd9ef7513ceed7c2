package logs

import (
	"github.com/charliek/slotview/internal/domain"
)

// Buffer is an append-only sequence of log lines in arrival order.
// Lines are never reordered or dropped while the viewer runs.
// It is owned by the viewer state and is not safe for concurrent use.
type Buffer struct {
	lines []domain.LogLine
}

// NewBuffer creates an empty buffer with room for capacity lines
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{lines: make([]domain.LogLine, 0, capacity)}
}

// Append adds a line and returns it with its assigned ordinal
func (b *Buffer) Append(text string) domain.LogLine {
	line := domain.LogLine{Index: len(b.lines), Text: text}
	b.lines = append(b.lines, line)
	return line
}

// Lines returns all lines in arrival order. The returned slice must not be modified.
func (b *Buffer) Lines() []domain.LogLine {
	return b.lines[:len(b.lines):len(b.lines)]
}

// Since returns the lines appended at or after index start
func (b *Buffer) Since(start int) []domain.LogLine {
	if start < 0 {
		start = 0
	}
	if start >= len(b.lines) {
		return nil
	}
	return b.lines[start:len(b.lines):len(b.lines)]
}

// Count returns the current number of lines in the buffer
func (b *Buffer) Count() int {
	return len(b.lines)
}
