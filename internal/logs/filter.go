package logs

import (
	"github.com/charliek/slotview/internal/domain"
	"github.com/charliek/slotview/internal/patterns"
)

// PatternSource provides compiled patterns by slot
type PatternSource interface {
	Get(slot domain.Slot) (*patterns.Pattern, bool)
	Generation(slot domain.Slot) uint64
}

// Render returns the lines visible under the active filter.
// With no active filter, or when the active slot is unset, the whole buffer
// is returned unchanged. Otherwise the lines matching the slot's pattern are
// returned in buffer order.
func Render(lines []domain.LogLine, active domain.ActiveFilter, store PatternSource) []domain.LogLine {
	pattern, ok := activePattern(active, store)
	if !ok {
		return lines
	}
	return filterLines(lines, pattern, make([]domain.LogLine, 0, len(lines)))
}

func activePattern(active domain.ActiveFilter, store PatternSource) (*patterns.Pattern, bool) {
	slot, ok := active.Slot()
	if !ok {
		return nil, false
	}
	return store.Get(slot)
}

func filterLines(lines []domain.LogLine, pattern *patterns.Pattern, dst []domain.LogLine) []domain.LogLine {
	for _, line := range lines {
		if pattern.Matches(line.Text) {
			dst = append(dst, line)
		}
	}
	return dst
}

// slotCache holds the matches for one slot over the first scanned lines
type slotCache struct {
	generation uint64
	scanned    int
	matches    []domain.LogLine
}

// Engine renders filtered views with a per-slot cache so that a growing
// buffer only costs a scan of the new lines. Results are identical to Render.
type Engine struct {
	store  PatternSource
	caches map[domain.Slot]*slotCache
}

// NewEngine creates an engine reading patterns from store
func NewEngine(store PatternSource) *Engine {
	return &Engine{
		store:  store,
		caches: make(map[domain.Slot]*slotCache),
	}
}

// Render returns the visible lines of buf under active
func (e *Engine) Render(buf *Buffer, active domain.ActiveFilter) []domain.LogLine {
	pattern, ok := activePattern(active, e.store)
	if !ok {
		return buf.Lines()
	}

	gen := e.store.Generation(pattern.Slot)
	cache, ok := e.caches[pattern.Slot]
	if !ok || cache.generation != gen || cache.scanned > buf.Count() {
		cache = &slotCache{generation: gen, matches: []domain.LogLine{}}
		e.caches[pattern.Slot] = cache
	}

	if cache.scanned < buf.Count() {
		cache.matches = filterLines(buf.Since(cache.scanned), pattern, cache.matches)
		cache.scanned = buf.Count()
	}

	return cache.matches[:len(cache.matches):len(cache.matches)]
}

// Invalidate drops the cached matches for slot
func (e *Engine) Invalidate(slot domain.Slot) {
	delete(e.caches, slot)
}
