package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/modality/internal/input/key"
)

// specialKeys maps tcell named keys to key codes. Control-letter chords
// are handled separately because tcell folds some of them into named
// keys (tab is ctrl-i, enter is ctrl-m).
var specialKeys = map[tcell.Key]key.Code{
	tcell.KeyEscape:     key.CodeEscape,
	tcell.KeyEnter:      key.CodeEnter,
	tcell.KeyTab:        key.CodeTab,
	tcell.KeyBacktab:    key.CodeTab,
	tcell.KeyBackspace:  key.CodeBackspace,
	tcell.KeyBackspace2: key.CodeBackspace,
	tcell.KeyDelete:     key.CodeDelete,
	tcell.KeyInsert:     key.CodeInsert,
	tcell.KeyHome:       key.CodeHome,
	tcell.KeyEnd:        key.CodeEnd,
	tcell.KeyPgUp:       key.CodePageUp,
	tcell.KeyPgDn:       key.CodePageDown,
	tcell.KeyUp:         key.CodeUp,
	tcell.KeyDown:       key.CodeDown,
	tcell.KeyLeft:       key.CodeLeft,
	tcell.KeyRight:      key.CodeRight,
	tcell.KeyF1:         key.CodeF1,
	tcell.KeyF2:         key.CodeF2,
	tcell.KeyF3:         key.CodeF3,
	tcell.KeyF4:         key.CodeF4,
	tcell.KeyF5:         key.CodeF5,
	tcell.KeyF6:         key.CodeF6,
	tcell.KeyF7:         key.CodeF7,
	tcell.KeyF8:         key.CodeF8,
	tcell.KeyF9:         key.CodeF9,
	tcell.KeyF10:        key.CodeF10,
	tcell.KeyF11:        key.CodeF11,
	tcell.KeyF12:        key.CodeF12,
}

// ConvertKey translates a tcell key event into an editor key. The
// second result is false for events with no editor equivalent.
func ConvertKey(ev *tcell.EventKey) (key.Key, bool) {
	mods := convertMods(ev.Modifiers())

	if code, ok := specialKeys[ev.Key()]; ok {
		if ev.Key() == tcell.KeyBacktab {
			mods = mods.With(key.ModShift)
		}
		// tcell reports ctrl for the folded chords; the named key is
		// the canonical form.
		switch code {
		case key.CodeTab, key.CodeEnter, key.CodeEscape, key.CodeBackspace:
			mods = mods.Without(key.ModCtrl)
		}
		return key.Key{Code: code, Mod: mods}, true
	}

	if ev.Key() == tcell.KeyRune {
		// Shift is already reflected in the rune's case.
		return key.Key{Code: key.CodeRune, Rune: ev.Rune(), Mod: mods.Without(key.ModShift)}, true
	}

	// Control-letter chords arrive as dedicated key values.
	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		r := rune('a' + ev.Key() - tcell.KeyCtrlA)
		return key.Key{Code: key.CodeRune, Rune: r, Mod: mods.With(key.ModCtrl)}, true
	}
	switch ev.Key() {
	case tcell.KeyCtrlSpace:
		return key.Key{Code: key.CodeRune, Rune: ' ', Mod: mods.With(key.ModCtrl)}, true
	case tcell.KeyCtrlUnderscore:
		return key.Key{Code: key.CodeRune, Rune: '_', Mod: mods.With(key.ModCtrl)}, true
	}

	return key.Key{}, false
}

func convertMods(m tcell.ModMask) key.Mod {
	var mods key.Mod
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}
