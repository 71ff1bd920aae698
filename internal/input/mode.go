package input

import (
	"strings"

	"github.com/dshills/modality/internal/input/key"
)

// Face names a display style for a piece of status text. Rendering
// backends map faces to concrete colors and attributes.
type Face string

const (
	FaceDefault     Face = "Default"
	FacePrompt      Face = "Prompt"
	FaceStatusMode  Face = "StatusMode"
	FaceInformation Face = "Information"
	FaceError       Face = "Error"
)

// DisplayAtom is a run of text rendered with a single face.
type DisplayAtom struct {
	Text string
	Face Face
}

// DisplayLine is a styled line of status text.
type DisplayLine []DisplayAtom

// String returns the unstyled text of the line.
func (d DisplayLine) String() string {
	var b strings.Builder
	for _, a := range d {
		b.WriteString(a.Text)
	}
	return b.String()
}

// InsertKind describes where an insertion places text relative to the
// current selection.
type InsertKind uint8

const (
	// InsertBefore inserts at the beginning of the selection.
	InsertBefore InsertKind = iota

	// InsertAfter inserts at the end of the selection.
	InsertAfter

	// InsertReplace replaces the selection.
	InsertReplace

	// InsertLineBegin inserts at the first non-blank of the line.
	InsertLineBegin

	// InsertLineEnd inserts at the end of the line.
	InsertLineEnd

	// InsertLineBelow opens a new line below and inserts there.
	InsertLineBelow

	// InsertLineAbove opens a new line above and inserts there.
	InsertLineAbove
)

var insertKindNames = map[InsertKind]string{
	InsertBefore:    "insert-before",
	InsertAfter:     "insert-after",
	InsertReplace:   "replace",
	InsertLineBegin: "line-begin",
	InsertLineEnd:   "line-end",
	InsertLineBelow: "line-below",
	InsertLineAbove: "line-above",
}

func (k InsertKind) String() string {
	if name, ok := insertKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// NormalParams carries the pending count and register accumulated in
// normal mode, passed to the command a key resolves to. A Count of zero
// means no count was given; a Register of zero means no register.
type NormalParams struct {
	Count    int
	Register rune
}

// ModeInfo describes the active mode for status-line display.
// NormalParams is non-nil only while normal mode is active.
type ModeInfo struct {
	ModeLine DisplayLine
	Params   *NormalParams
}

// CursorTarget says which UI element owns the cursor.
type CursorTarget uint8

const (
	// CursorBuffer places the cursor in the edited text.
	CursorBuffer CursorTarget = iota

	// CursorPrompt places the cursor on the prompt line.
	CursorPrompt
)

// mode is one entry of the handler's mode stack. Exactly one mode is
// active at a time; keys are routed to it until it pops itself.
type mode interface {
	name() string
	handleKey(k key.Key)
	onEnter()
	onLeave()
	modeLine() DisplayLine
	refresh()
}
