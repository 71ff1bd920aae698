package main

import (
	"strings"

	"github.com/dshills/modality/internal/input"
	"github.com/dshills/modality/internal/input/key"
	"github.com/dshills/modality/internal/term"
)

// editor is a small line editor built on the modal input engine. It
// implements the engine's TextSink and UI collaborators and owns the
// render loop state.
type editor struct {
	screen  *term.Screen
	handler *input.Handler

	lines [][]rune
	curX  int
	curY  int

	// active insert session
	insertCount int
	inserted    []rune

	infoVisible bool
	infoTitle   string
	infoContent string

	menuVisible  bool
	menuItems    []string
	menuSelected int

	status     string
	statusFace input.Face
	quit       bool
}

func newEditor(screen *term.Screen) *editor {
	return &editor{
		screen:     screen,
		lines:      [][]rune{nil},
		statusFace: input.FaceDefault,
	}
}

func (e *editor) line() []rune {
	return e.lines[e.curY]
}

func (e *editor) clampX() {
	if e.curX > len(e.line()) {
		e.curX = len(e.line())
	}
	if e.curX < 0 {
		e.curX = 0
	}
}

func (e *editor) setStatus(msg string, face input.Face) {
	e.status, e.statusFace = msg, face
}

// text returns the buffer contents.
func (e *editor) text() string {
	var b strings.Builder
	for i, line := range e.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(line))
	}
	return b.String()
}

// BeginInsert positions the cursor for the insertion kind.
func (e *editor) BeginInsert(kind input.InsertKind, count int) {
	e.insertCount = count
	e.inserted = nil

	switch kind {
	case input.InsertAfter:
		if e.curX < len(e.line()) {
			e.curX++
		}
	case input.InsertReplace:
		if e.curX < len(e.line()) {
			e.lines[e.curY] = append(e.line()[:e.curX], e.line()[e.curX+1:]...)
		}
	case input.InsertLineBegin:
		e.curX = 0
		for e.curX < len(e.line()) && e.line()[e.curX] == ' ' {
			e.curX++
		}
	case input.InsertLineEnd:
		e.curX = len(e.line())
	case input.InsertLineBelow:
		e.openLine(e.curY + 1)
	case input.InsertLineAbove:
		e.openLine(e.curY)
	}
}

func (e *editor) openLine(at int) {
	e.lines = append(e.lines, nil)
	copy(e.lines[at+1:], e.lines[at:])
	e.lines[at] = nil
	e.curY = at
	e.curX = 0
}

// InsertKey applies one insert-mode key to the buffer.
func (e *editor) InsertKey(k key.Key) {
	switch {
	case k.IsRune() && !k.IsModified():
		e.insertRune(k.Rune)
		e.inserted = append(e.inserted, k.Rune)
	case k.IsEnter():
		e.splitLine()
		e.inserted = append(e.inserted, '\n')
	case k.IsBackspace():
		e.deleteBefore()
		if n := len(e.inserted); n > 0 {
			e.inserted = e.inserted[:n-1]
		}
	case k == key.CodeDelete.Key():
		if e.curX < len(e.line()) {
			e.lines[e.curY] = append(e.line()[:e.curX], e.line()[e.curX+1:]...)
		}
	case k == key.CodeLeft.Key():
		e.moveX(-1)
	case k == key.CodeRight.Key():
		e.moveX(1)
	case k == key.CodeUp.Key():
		e.moveY(-1)
	case k == key.CodeDown.Key():
		e.moveY(1)
	case k == key.CodeHome.Key():
		e.curX = 0
	case k == key.CodeEnd.Key():
		e.curX = len(e.line())
	}
}

// InsertText applies pasted text.
func (e *editor) InsertText(text string) {
	for _, r := range text {
		if r == '\n' {
			e.splitLine()
		} else {
			e.insertRune(r)
		}
	}
}

// EndInsert applies the insertion count: the captured text is repeated
// count-1 further times.
func (e *editor) EndInsert() {
	captured := e.inserted
	e.inserted = nil
	for n := 1; n < e.insertCount; n++ {
		for _, r := range captured {
			if r == '\n' {
				e.splitLine()
			} else {
				e.insertRune(r)
			}
		}
	}
	e.insertCount = 0
	if e.curX > 0 {
		e.curX--
	}
}

func (e *editor) insertRune(r rune) {
	line := e.line()
	e.lines[e.curY] = append(line[:e.curX], append([]rune{r}, line[e.curX:]...)...)
	e.curX++
}

func (e *editor) splitLine() {
	line := e.line()
	rest := append([]rune(nil), line[e.curX:]...)
	e.lines[e.curY] = line[:e.curX]
	e.lines = append(e.lines, nil)
	copy(e.lines[e.curY+2:], e.lines[e.curY+1:])
	e.lines[e.curY+1] = rest
	e.curY++
	e.curX = 0
}

func (e *editor) deleteBefore() {
	if e.curX > 0 {
		e.lines[e.curY] = append(e.line()[:e.curX-1], e.line()[e.curX:]...)
		e.curX--
		return
	}
	if e.curY == 0 {
		return
	}
	prev := e.lines[e.curY-1]
	e.curX = len(prev)
	e.lines[e.curY-1] = append(prev, e.line()...)
	e.lines = append(e.lines[:e.curY], e.lines[e.curY+1:]...)
	e.curY--
}

func (e *editor) moveX(dx int) {
	e.curX += dx
	e.clampX()
}

func (e *editor) moveY(dy int) {
	e.curY += dy
	if e.curY < 0 {
		e.curY = 0
	}
	if e.curY >= len(e.lines) {
		e.curY = len(e.lines) - 1
	}
	e.clampX()
}

// ShowInfo implements the overlay UI.
func (e *editor) ShowInfo(title, content string) {
	e.infoTitle, e.infoContent, e.infoVisible = title, content, true
}

// HideInfo implements the overlay UI.
func (e *editor) HideInfo() {
	e.infoVisible = false
}

// ShowMenu implements the overlay UI.
func (e *editor) ShowMenu(items []string, selected int) {
	e.menuItems, e.menuSelected, e.menuVisible = items, selected, true
}

// HideMenu implements the overlay UI.
func (e *editor) HideMenu() {
	e.menuVisible = false
}

// search moves the cursor to the next occurrence of needle after the
// cursor, wrapping at the end. It reports whether a match was found.
func (e *editor) search(needle string) bool {
	if needle == "" {
		return false
	}
	n := len(e.lines)
	for i := 0; i <= n; i++ {
		y := (e.curY + i) % n
		line := string(e.lines[y])
		from := 0
		if i == 0 {
			from = e.curX + 1
			if from > len(line) {
				continue
			}
		}
		if idx := strings.Index(line[from:], needle); idx >= 0 {
			e.curY = y
			e.curX = len([]rune(line[:from+idx]))
			return true
		}
	}
	return false
}

// render redraws the whole screen: buffer, overlays, status rows.
func (e *editor) render() {
	w, h := e.screen.Size()
	if h < 3 {
		return
	}
	e.screen.Clear()

	textRows := h - 2
	top := 0
	if e.curY >= textRows {
		top = e.curY - textRows + 1
	}
	for row := 0; row < textRows && top+row < len(e.lines); row++ {
		e.screen.DrawText(0, row, string(e.lines[top+row]), input.FaceDefault)
	}

	if e.menuVisible {
		e.renderMenu(textRows)
	}
	if e.infoVisible {
		e.renderInfo(w, textRows)
	}

	// Status message row, then the mode line.
	e.screen.DrawText(0, h-2, e.status, e.statusFace)
	e.screen.FillRow(h-1, input.FaceDefault)
	e.screen.DrawLine(0, h-1, e.handler.ModeInfo().ModeLine)

	switch target, col := e.handler.CursorInfo(); target {
	case input.CursorPrompt:
		e.screen.ShowCursor(col, h-1)
	default:
		e.screen.ShowCursor(e.curX, e.curY-top)
	}

	e.screen.Show()
}

// renderMenu draws the completion or selection menu bottom-up above the
// status rows.
func (e *editor) renderMenu(bottom int) {
	for i := len(e.menuItems) - 1; i >= 0; i-- {
		row := bottom - (len(e.menuItems) - i)
		if row < 0 {
			break
		}
		face := input.FaceDefault
		if i == e.menuSelected {
			face = input.FaceInformation
		}
		e.screen.FillRow(row, face)
		e.screen.DrawText(0, row, e.menuItems[i], face)
	}
}

// renderInfo draws the info box in the top-right corner.
func (e *editor) renderInfo(w, maxRows int) {
	lines := strings.Split(e.infoContent, "\n")
	width := len([]rune(e.infoTitle))
	for _, l := range lines {
		if n := len([]rune(l)); n > width {
			width = n
		}
	}
	x := w - width - 1
	if x < 0 {
		x = 0
	}
	e.screen.DrawText(x, 0, e.infoTitle, input.FaceInformation)
	for i, l := range lines {
		if i+1 >= maxRows {
			break
		}
		e.screen.DrawText(x, i+1, l, input.FaceInformation)
	}
}
