package viewer

// KeyType identifies the kind of key event delivered by the terminal
type KeyType int

const (
	KeyRune KeyType = iota
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyInterrupt // ctrl+c
	KeyOther
)

// Key is a single key press
type Key struct {
	Type KeyType
	Rune rune
	Alt  bool
}

// RuneKey returns a printable key press
func RuneKey(r rune) Key {
	return Key{Type: KeyRune, Rune: r}
}

// AltKey returns a printable key press with alt held
func AltKey(r rune) Key {
	return Key{Type: KeyRune, Rune: r, Alt: true}
}

// Scroll is a viewport movement requested by a key
type Scroll int

const (
	ScrollNone Scroll = iota
	ScrollUp
	ScrollDown
	ScrollPageUp
	ScrollPageDown
	ScrollTop
	ScrollBottom
)

// Outcome tells the caller what a key changed
type Outcome struct {
	Quit       bool   // Stop the viewer
	Rerender   bool   // Visible lines changed
	Scroll     Scroll // Viewport movement
	Notice     bool   // A new status notice was set
	ToggleHelp bool
}
