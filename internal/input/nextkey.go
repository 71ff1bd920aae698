package input

import "github.com/dshills/modality/internal/input/key"

// KeyCallback receives the single key captured by OnNextKey.
type KeyCallback func(k key.Key, c *Context)

// IdleCallback runs when a one-shot key handler has waited longer than
// the configured idle timeout without receiving its key. It is used to
// show delayed help for pending multi-key commands.
type IdleCallback func(c *Context)

// nextKeyMode captures exactly one key, hands it to the callback, then
// pops itself.
type nextKeyMode struct {
	h        *Handler
	modeName string
	callback KeyCallback
	idle     IdleCallback
	task     *deferredTask
}

// OnNextKey pushes a one-shot mode that routes the next key to callback
// and then pops. name labels the mode on the status line. idle, if
// non-nil, runs once if no key arrives within the idle timeout; the
// mode keeps waiting afterwards.
func (h *Handler) OnNextKey(name string, callback KeyCallback, idle IdleCallback) {
	h.pushMode(&nextKeyMode{h: h, modeName: name, callback: callback, idle: idle})
}

func (m *nextKeyMode) name() string { return m.modeName }

func (m *nextKeyMode) onEnter() {
	if m.idle == nil {
		return
	}
	if d := m.h.ctx.settings.IdleTimeout; d > 0 {
		m.task = m.h.schedule(d, func() {
			m.idle(m.h.ctx)
		})
	}
}

func (m *nextKeyMode) onLeave() {
	if m.task != nil {
		m.task.cancel()
		m.task = nil
	}
}

func (m *nextKeyMode) handleKey(k key.Key) {
	if m.task != nil {
		m.task.cancel()
		m.task = nil
	}
	h := m.h
	if m.callback != nil {
		m.callback(k, h.ctx)
	}
	// The callback may have replaced this mode (entered a prompt, reset
	// to normal); pop only if still active.
	if h.current() == m {
		h.popMode(m)
	}
}

func (m *nextKeyMode) modeLine() DisplayLine {
	return DisplayLine{{Text: m.modeName, Face: FaceStatusMode}}
}

func (m *nextKeyMode) refresh() {}
