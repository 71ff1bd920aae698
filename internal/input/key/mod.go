package key

// Mod is a bitmask of modifier keys.
type Mod uint8

const (
	// ModNone indicates no modifiers.
	ModNone Mod = 0

	// ModShift indicates the Shift key.
	ModShift Mod = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta
)

// Has returns true if m contains the given modifier.
func (m Mod) Has(mod Mod) bool {
	return m&mod != 0
}

// With returns m with the given modifier added.
func (m Mod) With(mod Mod) Mod {
	return m | mod
}

// Without returns m with the given modifier removed.
func (m Mod) Without(mod Mod) Mod {
	return m &^ mod
}

// prefix returns the notation prefix for the modifier set, e.g. "c-a-".
// Modifier order is fixed so that notation is canonical.
func (m Mod) prefix() string {
	if m == ModNone {
		return ""
	}
	var s string
	if m.Has(ModCtrl) {
		s += "c-"
	}
	if m.Has(ModAlt) {
		s += "a-"
	}
	if m.Has(ModShift) {
		s += "s-"
	}
	if m.Has(ModMeta) {
		s += "m-"
	}
	return s
}
