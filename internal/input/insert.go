package input

import "github.com/dshills/modality/internal/input/key"

// insertMode feeds keys to the text sink until escape pops it. While
// the outermost insert session is active, every handled key is captured
// into the handler's last-insertion record.
type insertMode struct {
	h     *Handler
	kind  InsertKind
	count int
}

// Insert pushes insert mode. A count below one is treated as one; the
// sink applies the insertion count times on completion.
func (h *Handler) Insert(kind InsertKind, count int) {
	h.pushInsert(kind, count)
}

func (h *Handler) pushInsert(kind InsertKind, count int) *insertMode {
	if count < 1 {
		count = 1
	}
	m := &insertMode{h: h, kind: kind, count: count}
	h.pushMode(m)
	return m
}

func (m *insertMode) name() string { return "insert" }

func (m *insertMode) onEnter() {
	rec := &m.h.lastInsert
	rec.nesting++
	if rec.nesting == 1 {
		rec.kind = m.kind
		rec.count = m.count
		rec.keys = nil
		rec.hooksOff = m.h.ctx.HooksDisabled()
	}
	if m.h.ctx.sink != nil {
		m.h.ctx.sink.BeginInsert(m.kind, m.count)
	}
}

func (m *insertMode) handleKey(k key.Key) {
	if k.IsEscape() {
		m.h.popMode(m)
		return
	}
	rec := &m.h.lastInsert
	if rec.nesting == 1 {
		rec.keys = append(rec.keys, k)
	}
	if m.h.ctx.sink != nil {
		m.h.ctx.sink.InsertKey(k)
	}
}

func (m *insertMode) onLeave() {
	m.h.lastInsert.nesting--
	if m.h.ctx.sink != nil {
		m.h.ctx.sink.EndInsert()
	}
}

func (m *insertMode) modeLine() DisplayLine {
	return DisplayLine{{Text: "insert", Face: FaceStatusMode}}
}

func (m *insertMode) refresh() {}

// Paste sends content straight to the text sink without entering insert
// mode. When the outermost insert session is active the content is
// captured into the last-insertion record so repeat reproduces it.
func (h *Handler) Paste(content string) {
	if content == "" {
		return
	}
	rec := &h.lastInsert
	if rec.nesting == 1 {
		for _, r := range content {
			rec.keys = append(rec.keys, key.Rune(r))
		}
	}
	if h.ctx.sink != nil {
		h.ctx.sink.InsertText(content)
	}
}

// RepeatLastInsert replays the last completed insert session: it enters
// insert mode with the recorded kind and count, feeds the recorded keys
// through normal dispatch and closes the session. With no record, or
// while an insertion is still active, it does nothing.
func (h *Handler) RepeatLastInsert() {
	if h.lastInsert.nesting > 0 {
		return
	}
	if len(h.lastInsert.keys) == 0 {
		return
	}

	// The replayed insert overwrites the record as it captures, so work
	// from a copy.
	keys := make([]key.Key, len(h.lastInsert.keys))
	copy(keys, h.lastInsert.keys)
	kind := h.lastInsert.kind
	count := h.lastInsert.count

	if h.lastInsert.hooksOff {
		h.ctx.DisableHooks()
		defer h.ctx.EnableHooks()
	}

	m := h.pushInsert(kind, count)
	for _, k := range keys {
		h.HandleKey(k, true)
	}
	// Close the session unless a replayed key already left insert mode.
	if h.current() == m {
		h.HandleKey(key.CodeEscape.Key(), true)
	}
}
