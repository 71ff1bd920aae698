package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/modality/internal/input"
	"github.com/dshills/modality/internal/input/key"
)

// EventType discriminates Screen events.
type EventType uint8

const (
	// EventNone is an event with no editor equivalent.
	EventNone EventType = iota

	// EventKey carries a key press.
	EventKey

	// EventResize carries the new screen dimensions.
	EventResize

	// EventPaste carries bracketed-paste text.
	EventPaste

	// EventWake is posted by Wake to unblock Next, typically because a
	// deferred task deadline elapsed.
	EventWake

	// EventQuit means the event stream ended.
	EventQuit
)

// Event is a screen event in editor terms.
type Event struct {
	Type   EventType
	Key    key.Key
	Text   string
	Width  int
	Height int
}

// Screen owns the terminal.
type Screen struct {
	tc tcell.Screen
}

// New initializes the terminal screen with paste support enabled.
func New() (*Screen, error) {
	tc, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := tc.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	tc.EnablePaste()
	return &Screen{tc: tc}, nil
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.tc.Fini()
}

// Size returns the screen dimensions.
func (s *Screen) Size() (int, int) {
	return s.tc.Size()
}

// Next blocks for the next event. Events with no editor meaning are
// swallowed and the wait continues.
func (s *Screen) Next() Event {
	for {
		ev := s.tc.PollEvent()
		switch tev := ev.(type) {
		case nil:
			return Event{Type: EventQuit}
		case *tcell.EventKey:
			if k, ok := ConvertKey(tev); ok {
				return Event{Type: EventKey, Key: k}
			}
		case *tcell.EventResize:
			w, h := tev.Size()
			s.tc.Sync()
			return Event{Type: EventResize, Width: w, Height: h}
		case *tcell.EventPaste:
			if tev.Start() {
				if text, done := s.collectPaste(); done {
					return Event{Type: EventPaste, Text: text}
				}
				return Event{Type: EventQuit}
			}
		case *tcell.EventInterrupt:
			return Event{Type: EventWake}
		}
	}
}

// collectPaste gathers the key events between paste start and end.
func (s *Screen) collectPaste() (string, bool) {
	var text []rune
	for {
		switch tev := s.tc.PollEvent().(type) {
		case nil:
			return "", false
		case *tcell.EventKey:
			if tev.Key() == tcell.KeyRune {
				text = append(text, tev.Rune())
			} else if tev.Key() == tcell.KeyEnter {
				text = append(text, '\n')
			}
		case *tcell.EventPaste:
			if !tev.Start() {
				return string(text), true
			}
		}
	}
}

// Wake unblocks a pending Next from another goroutine.
func (s *Screen) Wake() {
	_ = s.tc.PostEvent(tcell.NewEventInterrupt(nil))
}

// faceStyles maps display faces to terminal styles.
var faceStyles = map[input.Face]tcell.Style{
	input.FaceDefault:     tcell.StyleDefault,
	input.FacePrompt:      tcell.StyleDefault.Foreground(tcell.ColorYellow),
	input.FaceStatusMode:  tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true),
	input.FaceInformation: tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow),
	input.FaceError:       tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed),
}

// Style resolves a face to its terminal style.
func Style(f input.Face) tcell.Style {
	if st, ok := faceStyles[f]; ok {
		return st
	}
	return tcell.StyleDefault
}

// Clear erases the whole screen.
func (s *Screen) Clear() {
	s.tc.Clear()
}

// Show flushes pending drawing to the terminal.
func (s *Screen) Show() {
	s.tc.Show()
}

// DrawText draws a string at (x, y) with the given face and returns the
// column after the last cell drawn.
func (s *Screen) DrawText(x, y int, text string, f input.Face) int {
	st := Style(f)
	for _, r := range text {
		s.tc.SetContent(x, y, r, nil, st)
		x++
	}
	return x
}

// DrawLine draws a styled display line at (x, y) and returns the column
// after the last cell drawn.
func (s *Screen) DrawLine(x, y int, line input.DisplayLine) int {
	for _, atom := range line {
		x = s.DrawText(x, y, atom.Text, atom.Face)
	}
	return x
}

// FillRow paints a full row with the given face's style.
func (s *Screen) FillRow(y int, f input.Face) {
	w, _ := s.tc.Size()
	st := Style(f)
	for x := 0; x < w; x++ {
		s.tc.SetContent(x, y, ' ', nil, st)
	}
}

// ShowCursor places the terminal cursor.
func (s *Screen) ShowCursor(x, y int) {
	s.tc.ShowCursor(x, y)
}

// HideCursor removes the terminal cursor.
func (s *Screen) HideCursor() {
	s.tc.HideCursor()
}
