package input

import (
	"strings"

	"github.com/dshills/modality/internal/config"
	"github.com/dshills/modality/internal/input/complete"
	"github.com/dshills/modality/internal/input/key"
	"github.com/dshills/modality/internal/input/register"
)

// PromptEvent tells a prompt callback why it is being invoked.
type PromptEvent uint8

const (
	// PromptChange fires after every edit to the prompt line.
	PromptChange PromptEvent = iota

	// PromptAbort fires when the prompt is dismissed without
	// validating.
	PromptAbort

	// PromptValidate fires when the entered line is accepted.
	PromptValidate
)

func (e PromptEvent) String() string {
	switch e {
	case PromptChange:
		return "change"
	case PromptAbort:
		return "abort"
	case PromptValidate:
		return "validate"
	}
	return "unknown"
}

// PromptFlags adjust prompt behavior.
type PromptFlags uint8

const (
	// PromptPassword masks the entered text and disables history.
	PromptPassword PromptFlags = 1 << iota

	// PromptDropBlankPrefix skips history entries that start with a
	// blank during recall, the convention for transient commands.
	PromptDropBlankPrefix

	// PromptSearch marks the prompt as an incremental search, letting
	// the change callback drive live highlighting.
	PromptSearch
)

// PromptNone is the empty flag set.
const PromptNone PromptFlags = 0

// PromptCallback receives prompt lifecycle events. On validate it gets
// the entered line (or the empty-text fallback); on change the current
// line; on abort the line at dismissal. A non-nil error is reported to
// the session error callback.
type PromptCallback func(line string, event PromptEvent, c *Context) error

// Completer produces completion candidates for the prompt line. The
// cursor is a byte offset into text.
type Completer func(c *Context, text string, cursor int) complete.Completions

// promptMode implements line editing with history recall and
// completion menus.
type promptMode struct {
	h         *Handler
	label     string
	emptyText string
	face      Face
	flags     PromptFlags
	completer Completer
	callback  PromptCallback

	text   []rune
	cursor int

	historyReg rune
	history    []string
	histIdx    int
	stash      string

	comps    complete.Completions
	compText string
	compIdx  int
	menuOpen bool
}

// Prompt pushes a prompt mode. The label is displayed before the
// editable line; initial seeds the line; emptyText substitutes for an
// empty line on validation. historyReg selects the history register,
// register.Null for no history. completer and callback may be nil.
func (h *Handler) Prompt(label, initial, emptyText string, face Face, flags PromptFlags,
	historyReg rune, completer Completer, callback PromptCallback) {
	p := &promptMode{
		h:          h,
		label:      label,
		emptyText:  emptyText,
		face:       face,
		flags:      flags,
		completer:  completer,
		callback:   callback,
		text:       []rune(initial),
		historyReg: historyReg,
		compIdx:    -1,
	}
	p.cursor = len(p.text)
	h.pushMode(p)
}

// SetPromptFace recolors the text of the active prompt, letting an
// incremental-search callback mark a failing pattern. It has no effect
// when the active mode is not a prompt.
func (h *Handler) SetPromptFace(face Face) {
	if p, ok := h.current().(*promptMode); ok {
		p.face = face
	}
}

func (p *promptMode) name() string { return "prompt" }

func (p *promptMode) historyEnabled() bool {
	return p.flags&PromptPassword == 0 && p.historyReg != register.Null
}

func (p *promptMode) onEnter() {
	if p.historyEnabled() {
		p.history = p.h.ctx.registers.Get(p.historyReg)
	}
	p.histIdx = len(p.history)
}

func (p *promptMode) onLeave() {
	p.closeMenu()
}

func (p *promptMode) handleKey(k key.Key) {
	switch {
	case k.IsEnter():
		p.validate()
	case k.IsEscape():
		p.abort()
	case k == key.CodeTab.Key():
		p.cycleCompletion(1)
	case k == key.CodeTab.Key().With(key.ModShift):
		p.cycleCompletion(-1)
	case k == key.CodeUp.Key() || k == key.Ctrl('p'):
		p.historyPrev()
	case k == key.CodeDown.Key() || k == key.Ctrl('n'):
		p.historyNext()
	default:
		if p.edit(k) {
			p.changed()
		}
	}
}

// edit applies a line-editing key and reports whether the line or
// cursor changed.
func (p *promptMode) edit(k key.Key) bool {
	switch {
	case k.IsRune() && !k.IsModified():
		p.text = append(p.text[:p.cursor], append([]rune{k.Rune}, p.text[p.cursor:]...)...)
		p.cursor++
	case k.IsBackspace():
		if p.cursor == 0 {
			return false
		}
		p.text = append(p.text[:p.cursor-1], p.text[p.cursor:]...)
		p.cursor--
	case k == key.CodeDelete.Key():
		if p.cursor >= len(p.text) {
			return false
		}
		p.text = append(p.text[:p.cursor], p.text[p.cursor+1:]...)
	case k == key.CodeLeft.Key() || k == key.Ctrl('b'):
		if p.cursor == 0 {
			return false
		}
		p.cursor--
	case k == key.CodeRight.Key() || k == key.Ctrl('f'):
		if p.cursor >= len(p.text) {
			return false
		}
		p.cursor++
	case k == key.CodeHome.Key() || k == key.Ctrl('a'):
		p.cursor = 0
	case k == key.CodeEnd.Key() || k == key.Ctrl('e'):
		p.cursor = len(p.text)
	case k == key.Ctrl('u'):
		p.text = append([]rune(nil), p.text[p.cursor:]...)
		p.cursor = 0
	case k == key.Ctrl('k'):
		p.text = p.text[:p.cursor]
	case k == key.Ctrl('w'):
		start := p.cursor
		for start > 0 && p.text[start-1] == ' ' {
			start--
		}
		for start > 0 && p.text[start-1] != ' ' {
			start--
		}
		if start == p.cursor {
			return false
		}
		p.text = append(p.text[:start], p.text[p.cursor:]...)
		p.cursor = start
	default:
		return false
	}
	return true
}

// changed runs after every edit: it resets history navigation and any
// completion state, notifies the callback and refreshes the automatic
// completion menu.
func (p *promptMode) changed() {
	p.histIdx = len(p.history)
	p.clearCompletions()
	p.fireChange()
	if p.autoComplete() {
		p.refreshCompletions()
	}
}

func (p *promptMode) fireChange() {
	if p.callback == nil {
		return
	}
	if err := p.callback(string(p.text), PromptChange, p.h.ctx); err != nil {
		p.h.ctx.Error(err)
	}
}

func (p *promptMode) autoComplete() bool {
	return p.completer != nil &&
		p.h.ctx.settings.AutoComplete.Has(config.CompletePrompt) &&
		p.flags&PromptPassword == 0
}

// validate accepts the line: history is updated, the callback runs with
// PromptValidate, and the prompt pops unless the callback already
// changed the mode stack.
func (p *promptMode) validate() {
	line := string(p.text)
	if p.historyEnabled() {
		p.h.ctx.registers.AddHistory(p.historyReg, line)
	}
	if line == "" {
		line = p.emptyText
	}
	p.finish(line, PromptValidate)
}

func (p *promptMode) abort() {
	p.finish(string(p.text), PromptAbort)
}

func (p *promptMode) finish(line string, ev PromptEvent) {
	p.closeMenu()
	h := p.h
	if p.callback != nil {
		if err := p.callback(line, ev, h.ctx); err != nil {
			h.ctx.Error(err)
		}
	}
	// The callback may have pushed another mode or reset the stack; pop
	// only if this prompt is still active.
	if h.current() == p {
		h.popMode(p)
	}
}

// historyPrev recalls the previous history entry, skipping
// blank-prefixed entries when the prompt asks for that. The line being
// edited is stashed so navigating past the newest entry restores it.
func (p *promptMode) historyPrev() {
	if !p.historyEnabled() {
		return
	}
	if p.histIdx == len(p.history) {
		p.stash = string(p.text)
	}
	i := p.histIdx - 1
	for i >= 0 && p.skipEntry(p.history[i]) {
		i--
	}
	if i < 0 {
		return
	}
	p.histIdx = i
	p.setLine(p.history[i])
}

func (p *promptMode) historyNext() {
	if !p.historyEnabled() || p.histIdx >= len(p.history) {
		return
	}
	i := p.histIdx + 1
	for i < len(p.history) && p.skipEntry(p.history[i]) {
		i++
	}
	p.histIdx = i
	if i >= len(p.history) {
		p.setLine(p.stash)
		return
	}
	p.setLine(p.history[i])
}

func (p *promptMode) skipEntry(entry string) bool {
	return p.flags&PromptDropBlankPrefix != 0 && strings.HasPrefix(entry, " ")
}

// setLine replaces the prompt line, firing the change callback but
// keeping the history position.
func (p *promptMode) setLine(line string) {
	p.text = []rune(line)
	p.cursor = len(p.text)
	p.clearCompletions()
	p.fireChange()
}

// cycleCompletion selects the next or previous candidate, computing the
// candidate set on first use.
func (p *promptMode) cycleCompletion(dir int) {
	if p.completer == nil {
		return
	}
	if p.comps.Empty() {
		p.refreshCompletions()
		if p.comps.Empty() {
			return
		}
	}
	n := len(p.comps.Candidates)
	switch {
	case p.compIdx < 0 && dir > 0:
		p.compIdx = 0
	case p.compIdx < 0:
		p.compIdx = n - 1
	default:
		p.compIdx = ((p.compIdx+dir)%n + n) % n
	}
	p.applyCompletion()
}

func (p *promptMode) refreshCompletions() {
	text := string(p.text)
	p.comps = p.completer(p.h.ctx, text, len(string(p.text[:p.cursor])))
	p.compText = text
	p.compIdx = -1
	p.showMenu()
}

// applyCompletion substitutes the selected candidate into the token the
// completer marked in the text it was given.
func (p *promptMode) applyCompletion() {
	cand := p.comps.Candidates[p.compIdx].Text
	newText := p.compText[:p.comps.Start] + cand + p.compText[p.comps.End:]
	p.text = []rune(newText)
	p.cursor = len([]rune(p.compText[:p.comps.Start] + cand))
	p.fireChange()
	p.showMenu()
}

func (p *promptMode) clearCompletions() {
	p.comps = complete.Completions{}
	p.compText = ""
	p.compIdx = -1
	p.closeMenu()
}

func (p *promptMode) showMenu() {
	ui := p.h.ctx.ui
	if ui == nil {
		return
	}
	if p.comps.Empty() {
		p.closeMenu()
		return
	}
	items := make([]string, len(p.comps.Candidates))
	for i, c := range p.comps.Candidates {
		items[i] = c.Text
	}
	ui.ShowMenu(items, p.compIdx)
	p.menuOpen = true
}

func (p *promptMode) closeMenu() {
	if p.menuOpen && p.h.ctx.ui != nil {
		p.h.ctx.ui.HideMenu()
	}
	p.menuOpen = false
}

// cursorColumn is the rune column of the cursor on the prompt line,
// label included.
func (p *promptMode) cursorColumn() int {
	return len([]rune(p.label)) + p.cursor
}

func (p *promptMode) displayText() string {
	if p.flags&PromptPassword != 0 {
		return strings.Repeat("*", len(p.text))
	}
	return string(p.text)
}

func (p *promptMode) modeLine() DisplayLine {
	face := p.face
	if face == "" {
		face = FacePrompt
	}
	return DisplayLine{
		{Text: p.label, Face: FacePrompt},
		{Text: p.displayText(), Face: face},
	}
}

func (p *promptMode) refresh() {
	if p.menuOpen {
		p.showMenu()
	}
}
