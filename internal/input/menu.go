package input

import (
	"github.com/dshills/modality/internal/input/key"
)

// MenuEvent tells a menu callback why it is being invoked.
type MenuEvent uint8

const (
	// MenuSelect fires when the highlighted item changes.
	MenuSelect MenuEvent = iota

	// MenuValidate fires when an item is accepted.
	MenuValidate

	// MenuAbort fires when the menu is dismissed.
	MenuAbort
)

func (e MenuEvent) String() string {
	switch e {
	case MenuSelect:
		return "select"
	case MenuValidate:
		return "validate"
	case MenuAbort:
		return "abort"
	}
	return "unknown"
}

// MenuCallback receives menu lifecycle events with the index of the
// item concerned. On abort the index is the highlighted item at
// dismissal.
type MenuCallback func(selected int, event MenuEvent, c *Context)

// menuMode presents a list of items and routes selection keys.
type menuMode struct {
	h        *Handler
	items    []string
	selected int
	callback MenuCallback
}

// Menu pushes a menu mode over the given items. An empty item list is a
// no-op.
func (h *Handler) Menu(items []string, callback MenuCallback) {
	if len(items) == 0 {
		return
	}
	h.pushMode(&menuMode{h: h, items: items, callback: callback})
}

func (m *menuMode) name() string { return "menu" }

func (m *menuMode) onEnter() {
	if m.h.ctx.ui != nil {
		m.h.ctx.ui.ShowMenu(m.items, m.selected)
	}
	m.fire(MenuSelect)
}

func (m *menuMode) onLeave() {
	if m.h.ctx.ui != nil {
		m.h.ctx.ui.HideMenu()
	}
}

func (m *menuMode) handleKey(k key.Key) {
	switch {
	case k.IsEnter():
		m.finish(MenuValidate)
	case k.IsEscape():
		m.finish(MenuAbort)
	case k == key.CodeDown.Key() || k == key.CodeTab.Key() || k == key.Ctrl('n'):
		m.move(1)
	case k == key.CodeUp.Key() || k == key.CodeTab.Key().With(key.ModShift) || k == key.Ctrl('p'):
		m.move(-1)
	case k == key.CodeHome.Key():
		m.moveTo(0)
	case k == key.CodeEnd.Key():
		m.moveTo(len(m.items) - 1)
	}
}

func (m *menuMode) move(dir int) {
	n := len(m.items)
	m.moveTo(((m.selected+dir)%n + n) % n)
}

func (m *menuMode) moveTo(idx int) {
	if idx == m.selected {
		return
	}
	m.selected = idx
	if m.h.ctx.ui != nil {
		m.h.ctx.ui.ShowMenu(m.items, m.selected)
	}
	m.fire(MenuSelect)
}

func (m *menuMode) finish(ev MenuEvent) {
	h := m.h
	m.fire(ev)
	if h.current() == m {
		h.popMode(m)
	}
}

func (m *menuMode) fire(ev MenuEvent) {
	if m.callback != nil {
		m.callback(m.selected, ev, m.h.ctx)
	}
}

func (m *menuMode) modeLine() DisplayLine {
	return DisplayLine{
		{Text: "menu", Face: FaceStatusMode},
		{Text: " " + m.items[m.selected], Face: FacePrompt},
	}
}

func (m *menuMode) refresh() {
	if m.h.ctx.ui != nil {
		m.h.ctx.ui.ShowMenu(m.items, m.selected)
	}
}
