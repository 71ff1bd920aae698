package input

import (
	"fmt"
	"unicode"

	"github.com/dshills/modality/internal/input/key"
)

// normalMode is the resting state of the handler and the permanent
// bottom of the mode stack. It accumulates a count prefix and a pending
// register, then resolves keys through the command table.
type normalMode struct {
	h      *Handler
	params NormalParams
}

func newNormalMode(h *Handler) *normalMode {
	return &normalMode{h: h}
}

func (m *normalMode) name() string { return "normal" }

func (m *normalMode) handleKey(k key.Key) {
	// Digits extend the count prefix. A leading zero is not a count,
	// so it can stay bound to a command.
	if k.IsRune() && !k.IsModified() && unicode.IsDigit(k.Rune) {
		if k.Rune != '0' || m.params.Count > 0 {
			m.params.Count = m.params.Count*10 + int(k.Rune-'0')
			return
		}
	}

	params := m.params
	m.params = NormalParams{}

	if m.h.ctx.commands != nil {
		if cmd, ok := m.h.ctx.commands.Lookup(k); ok {
			cmd(m.h.ctx, params)
			return
		}
	}
}

// setRegister stashes a register for the next command.
func (m *normalMode) setRegister(reg rune) {
	m.params.Register = reg
}

func (m *normalMode) onEnter() {}
func (m *normalMode) onLeave() {}

func (m *normalMode) modeLine() DisplayLine {
	line := DisplayLine{{Text: "normal", Face: FaceStatusMode}}
	if m.params.Count > 0 {
		line = append(line, DisplayAtom{Text: fmt.Sprintf(" %d", m.params.Count), Face: FacePrompt})
	}
	if m.params.Register != 0 {
		line = append(line, DisplayAtom{Text: fmt.Sprintf(" \"%c", m.params.Register), Face: FacePrompt})
	}
	if m.h.IsRecording() {
		line = append(line, DisplayAtom{
			Text: fmt.Sprintf(" recording (%c)", m.h.RecordingRegister()),
			Face: FaceInformation,
		})
	}
	return line
}

func (m *normalMode) refresh() {}

// SetPendingRegister stores reg as the register for the next
// normal-mode command. It targets the nearest normal mode on the
// stack, so a one-shot key handler capturing the register name can
// call it before popping.
func (h *Handler) SetPendingRegister(reg rune) {
	for i := len(h.stack) - 1; i >= 0; i-- {
		if n, ok := h.stack[i].(*normalMode); ok {
			n.setRegister(reg)
			return
		}
	}
}
