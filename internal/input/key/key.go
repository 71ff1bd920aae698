package key

// Code identifies a key on the keyboard.
// Character keys use CodeRune with the character stored in Key.Rune.
type Code uint16

const (
	// CodeNone represents no key.
	CodeNone Code = iota

	// Special keys
	CodeEscape
	CodeEnter
	CodeTab
	CodeBackspace
	CodeDelete
	CodeInsert
	CodeHome
	CodeEnd
	CodePageUp
	CodePageDown

	// Arrow keys
	CodeUp
	CodeDown
	CodeLeft
	CodeRight

	// Function keys
	CodeF1
	CodeF2
	CodeF3
	CodeF4
	CodeF5
	CodeF6
	CodeF7
	CodeF8
	CodeF9
	CodeF10
	CodeF11
	CodeF12

	// CodeRune is used for character keys (letters, digits, punctuation).
	// The character itself is stored in Key.Rune.
	CodeRune
)

// IsSpecial returns true if this is a special (non-character) code.
func (c Code) IsSpecial() bool {
	return c != CodeNone && c != CodeRune
}

// IsFunction returns true if this is a function key code (F1-F12).
func (c Code) IsFunction() bool {
	return c >= CodeF1 && c <= CodeF12
}

// IsArrow returns true if this is an arrow key code.
func (c Code) IsArrow() bool {
	return c >= CodeUp && c <= CodeRight
}

// Key returns a Key value for a special code with no modifiers.
func (c Code) Key() Key {
	return Key{Code: c}
}

// Key is a single input event: a code, a rune payload for character keys,
// and a modifier bitmask. Key is a comparable value and may be used as a
// map key or compared with ==.
type Key struct {
	Code Code
	Rune rune
	Mod  Mod
}

// Rune returns a Key for an unmodified character.
func Rune(r rune) Key {
	return Key{Code: CodeRune, Rune: r}
}

// Ctrl returns a Key for a control-modified character.
func Ctrl(r rune) Key {
	return Key{Code: CodeRune, Rune: r, Mod: ModCtrl}
}

// Alt returns a Key for an alt-modified character.
func Alt(r rune) Key {
	return Key{Code: CodeRune, Rune: r, Mod: ModAlt}
}

// IsRune returns true if this is a character key.
func (k Key) IsRune() bool {
	return k.Code == CodeRune && k.Rune != 0
}

// IsModified returns true if any modifier other than Shift is held.
// Shift on a character key is part of the character itself.
func (k Key) IsModified() bool {
	if k.IsRune() {
		return k.Mod&(ModCtrl|ModAlt|ModMeta) != 0
	}
	return k.Mod != ModNone
}

// IsEscape returns true for a bare Escape key.
func (k Key) IsEscape() bool {
	return k.Code == CodeEscape && k.Mod == ModNone
}

// IsEnter returns true for a bare Enter key.
func (k Key) IsEnter() bool {
	return k.Code == CodeEnter && k.Mod == ModNone
}

// IsBackspace returns true for a bare Backspace key.
func (k Key) IsBackspace() bool {
	return k.Code == CodeBackspace && k.Mod == ModNone
}

// With returns a copy of the key with the given modifier added.
func (k Key) With(mod Mod) Key {
	k.Mod = k.Mod.With(mod)
	return k
}
