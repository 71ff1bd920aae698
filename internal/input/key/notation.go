package key

import (
	"errors"
	"fmt"
	"strings"
)

// Notation errors.
var (
	ErrEmptySpec      = errors.New("key: empty key specification")
	ErrInvalidSpec    = errors.New("key: invalid key specification")
	ErrUnmatchedAngle = errors.New("key: unmatched '<' in key specification")
)

// codeNames maps special codes to their notation names.
var codeNames = map[Code]string{
	CodeEscape:    "esc",
	CodeEnter:     "ret",
	CodeTab:       "tab",
	CodeBackspace: "backspace",
	CodeDelete:    "del",
	CodeInsert:    "ins",
	CodeHome:      "home",
	CodeEnd:       "end",
	CodePageUp:    "pageup",
	CodePageDown:  "pagedown",
	CodeUp:        "up",
	CodeDown:      "down",
	CodeLeft:      "left",
	CodeRight:     "right",
	CodeF1:        "f1",
	CodeF2:        "f2",
	CodeF3:        "f3",
	CodeF4:        "f4",
	CodeF5:        "f5",
	CodeF6:        "f6",
	CodeF7:        "f7",
	CodeF8:        "f8",
	CodeF9:        "f9",
	CodeF10:       "f10",
	CodeF11:       "f11",
	CodeF12:       "f12",
}

// nameCodes is the inverse of codeNames, plus accepted aliases.
var nameCodes = map[string]Code{
	"esc":       CodeEscape,
	"escape":    CodeEscape,
	"ret":       CodeEnter,
	"return":    CodeEnter,
	"enter":     CodeEnter,
	"tab":       CodeTab,
	"backspace": CodeBackspace,
	"bs":        CodeBackspace,
	"del":       CodeDelete,
	"delete":    CodeDelete,
	"ins":       CodeInsert,
	"insert":    CodeInsert,
	"home":      CodeHome,
	"end":       CodeEnd,
	"pageup":    CodePageUp,
	"pgup":      CodePageUp,
	"pagedown":  CodePageDown,
	"pgdn":      CodePageDown,
	"up":        CodeUp,
	"down":      CodeDown,
	"left":      CodeLeft,
	"right":     CodeRight,
	"f1":        CodeF1,
	"f2":        CodeF2,
	"f3":        CodeF3,
	"f4":        CodeF4,
	"f5":        CodeF5,
	"f6":        CodeF6,
	"f7":        CodeF7,
	"f8":        CodeF8,
	"f9":        CodeF9,
	"f10":       CodeF10,
	"f11":       CodeF11,
	"f12":       CodeF12,
}

// namedRunes are characters that need a bracketed name, either because
// they collide with the notation syntax or are invisible.
var namedRunes = map[rune]string{
	' ': "space",
	'<': "lt",
	'>': "gt",
	'-': "minus",
}

var runeNames = map[string]rune{
	"space": ' ',
	"lt":    '<',
	"gt":    '>',
	"minus": '-',
}

// String renders the key in textual notation.
// Unmodified character keys render as the bare character; everything else
// renders bracketed: "<esc>", "<c-x>", "<a-f3>", "<space>".
func (k Key) String() string {
	if k.Code == CodeRune && k.Mod == ModNone {
		if name, ok := namedRunes[k.Rune]; ok && k.Rune != '-' {
			return "<" + name + ">"
		}
		if k.Rune == '-' {
			return "-"
		}
		return string(k.Rune)
	}

	var name string
	if k.Code == CodeRune {
		if n, ok := namedRunes[k.Rune]; ok {
			name = n
		} else {
			name = string(k.Rune)
		}
	} else if n, ok := codeNames[k.Code]; ok {
		name = n
	} else {
		name = fmt.Sprintf("code%d", k.Code)
	}

	return "<" + k.Mod.prefix() + name + ">"
}

// Sequence renders a key sequence as concatenated notation.
// This is the form macros are committed to registers in.
func Sequence(keys []Key) string {
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k.String())
	}
	return b.String()
}

// Parse parses a single key from its textual notation.
// The spec must contain exactly one key.
func Parse(spec string) (Key, error) {
	keys, err := ParseSequence(spec)
	if err != nil {
		return Key{}, err
	}
	if len(keys) != 1 {
		return Key{}, fmt.Errorf("%w: %q is not a single key", ErrInvalidSpec, spec)
	}
	return keys[0], nil
}

// ParseSequence parses concatenated key notation into a key sequence.
// Bare characters parse as unmodified rune keys; bracketed groups parse
// as named or modified keys.
func ParseSequence(s string) ([]Key, error) {
	if s == "" {
		return nil, ErrEmptySpec
	}

	var keys []Key
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '<' {
			keys = append(keys, Rune(r))
			continue
		}

		end := -1
		for j := i + 1; j < len(runes); j++ {
			if runes[j] == '>' {
				end = j
				break
			}
		}
		if end < 0 {
			return nil, ErrUnmatchedAngle
		}

		k, err := parseBracketed(string(runes[i+1 : end]))
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
		i = end
	}
	return keys, nil
}

// parseBracketed parses the inside of a <...> group: optional modifier
// prefixes (c-, a-, s-, m-) followed by a key name or single character.
func parseBracketed(inner string) (Key, error) {
	if inner == "" {
		return Key{}, fmt.Errorf("%w: empty <> group", ErrInvalidSpec)
	}

	parts := strings.Split(inner, "-")
	var mods Mod
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(p) {
		case "c":
			mods = mods.With(ModCtrl)
		case "a":
			mods = mods.With(ModAlt)
		case "s":
			mods = mods.With(ModShift)
		case "m":
			mods = mods.With(ModMeta)
		default:
			return Key{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
	}

	name := parts[len(parts)-1]
	if name == "" {
		return Key{}, fmt.Errorf("%w: missing key after modifiers in <%s>", ErrInvalidSpec, inner)
	}

	lower := strings.ToLower(name)
	if code, ok := nameCodes[lower]; ok {
		return Key{Code: code, Mod: mods}, nil
	}
	if r, ok := runeNames[lower]; ok {
		return Key{Code: CodeRune, Rune: r, Mod: mods}, nil
	}

	runes := []rune(name)
	if len(runes) != 1 {
		return Key{}, fmt.Errorf("%w: unknown key name %q", ErrInvalidSpec, name)
	}
	return Key{Code: CodeRune, Rune: runes[0], Mod: mods}, nil
}
