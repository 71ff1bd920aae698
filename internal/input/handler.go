package input

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/modality/internal/config"
	"github.com/dshills/modality/internal/input/key"
	"github.com/dshills/modality/internal/input/register"
)

// Config configures a new Handler. Zero-value fields get sensible
// defaults; Sink, UI and Commands may be nil, in which case the
// corresponding effects are dropped.
type Config struct {
	// Settings holds the session tunables. Zero IdleTimeout,
	// HistoryMax and MaxRecursion fall back to the config.Default()
	// values, so a partially populated Settings stays usable.
	Settings config.Settings

	// Registers is the register store shared with the rest of the
	// editor. Nil creates a fresh store.
	Registers *register.Store

	// Sink receives inserted and pasted text.
	Sink TextSink

	// UI receives info and menu overlay requests.
	UI UI

	// Commands resolves normal-mode keys.
	Commands CommandTable

	// Name identifies the client in logs and the mode line.
	Name string

	// OnError receives non-fatal errors (failed callbacks, recursion
	// limit). Nil drops them.
	OnError func(error)

	// Clock overrides time.Now for deferred tasks. Tests inject a fake.
	Clock func() time.Time
}

// Handler owns the mode stack and dispatches keys to the active mode.
// It also records macros, remembers the last insertion for repeat, and
// schedules idle callbacks. All methods must be called from a single
// goroutine.
type Handler struct {
	ctx   *Context
	stack []mode
	depth int

	recordingReg   rune
	recordingDepth int
	recorded       []key.Key

	lastInsert insertion

	tasks []*deferredTask
	now   func() time.Time
}

// insertion is the record of the last completed insert session, used by
// RepeatLastInsert. The nesting counter guards against nested inserts
// during replay: only the outermost session (0 -> 1) captures keys.
type insertion struct {
	nesting  int
	kind     InsertKind
	count    int
	keys     []key.Key
	hooksOff bool
}

// normalizeSettings fills unusable zero values with the defaults, so a
// partially populated Settings cannot disable dispatch or history.
func normalizeSettings(s config.Settings) config.Settings {
	def := config.Default()
	if s == (config.Settings{}) {
		return def
	}
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = def.IdleTimeout
	}
	if s.HistoryMax <= 0 {
		s.HistoryMax = def.HistoryMax
	}
	if s.MaxRecursion <= 0 {
		s.MaxRecursion = def.MaxRecursion
	}
	return s
}

// NewHandler creates a handler with normal mode at the bottom of the
// stack.
func NewHandler(cfg Config) *Handler {
	cfg.Settings = normalizeSettings(cfg.Settings)
	if cfg.Registers == nil {
		cfg.Registers = register.NewStore()
	}
	if cfg.Name == "" {
		cfg.Name = "client"
	}

	h := &Handler{now: cfg.Clock}
	if h.now == nil {
		h.now = time.Now
	}
	h.ctx = &Context{
		handler:   h,
		settings:  cfg.Settings,
		registers: cfg.Registers,
		sink:      cfg.Sink,
		ui:        cfg.UI,
		commands:  cfg.Commands,
		name:      cfg.Name,
		sessionID: uuid.NewString(),
		onError:   cfg.OnError,
	}
	h.ctx.registers.SetHistoryMax(cfg.Settings.HistoryMax)

	bottom := newNormalMode(h)
	h.stack = []mode{bottom}
	bottom.onEnter()
	return h
}

// Context returns the session context.
func (h *Handler) Context() *Context {
	return h.ctx
}

// ModeName returns the name of the active mode.
func (h *Handler) ModeName() string {
	return h.current().name()
}

// ModeInfo describes the active mode for status display.
func (h *Handler) ModeInfo() ModeInfo {
	mi := ModeInfo{ModeLine: h.current().modeLine()}
	if n, ok := h.current().(*normalMode); ok {
		p := n.params
		mi.Params = &p
	}
	return mi
}

// CursorInfo reports which UI element owns the cursor and the column
// within it. The column is meaningful only for CursorPrompt.
func (h *Handler) CursorInfo() (CursorTarget, int) {
	if p, ok := h.current().(*promptMode); ok {
		return CursorPrompt, p.cursorColumn()
	}
	return CursorBuffer, 0
}

// Refresh lets the active mode redraw any transient UI after the
// underlying context changed.
func (h *Handler) Refresh() {
	h.current().refresh()
}

// HistoryEnabled reports whether the active mode is a prompt with
// history recall available.
func (h *Handler) HistoryEnabled() bool {
	if p, ok := h.current().(*promptMode); ok {
		return p.historyEnabled()
	}
	return false
}

func (h *Handler) current() mode {
	return h.stack[len(h.stack)-1]
}

// pushMode makes m the active mode.
func (h *Handler) pushMode(m mode) {
	h.stack = append(h.stack, m)
	m.onEnter()
}

// popMode removes m from the top of the stack. Popping a mode that is
// not the active one, or the bottom normal mode, is a bug in the
// caller and panics.
func (h *Handler) popMode(m mode) {
	if h.current() != m {
		panic(fmt.Sprintf("input: pop of mode %q which is not active (active %q)",
			m.name(), h.ModeName()))
	}
	if len(h.stack) == 1 {
		panic("input: pop of the bottom normal mode")
	}
	m.onLeave()
	h.stack = h.stack[:len(h.stack)-1]
}

// HandleKey routes a key to the active mode. Synthesized keys come from
// macro replay or programmatic insertion rather than the user; they
// follow the same dispatch path. Dispatch may nest (a command replaying
// a macro re-enters HandleKey); nesting beyond the configured bound is
// reported through the error callback and the key is dropped.
func (h *Handler) HandleKey(k key.Key, synthesized bool) {
	if h.depth >= h.ctx.settings.MaxRecursion {
		h.ctx.Error(fmt.Errorf("%w (depth %d)", ErrRecursionLimit, h.depth))
		return
	}
	h.depth++
	defer func() { h.depth-- }()

	// Record before dispatch so the command that stops the recording
	// can drop its own trigger key from the buffer.
	if h.recordingReg != register.Null && h.depth == h.recordingDepth {
		h.recorded = append(h.recorded, k)
	}

	h.current().handleKey(k)
}

// ResetNormalMode unwinds every mode pushed above the bottom normal
// mode, discarding prompts, menus and pending insertions.
func (h *Handler) ResetNormalMode() {
	for len(h.stack) > 1 {
		top := h.current()
		top.onLeave()
		h.stack = h.stack[:len(h.stack)-1]
	}
}

// Close tears the handler down, unwinding all pushed modes and
// cancelling pending tasks.
func (h *Handler) Close() {
	h.ResetNormalMode()
	for _, t := range h.tasks {
		t.cancel()
	}
	h.tasks = nil
}

// StartRecording begins recording keys into reg. Only one recording may
// be active at a time. Keys are captured at the dispatch depth where
// the recording started, so keys replayed by nested macros are not
// recorded twice.
func (h *Handler) StartRecording(reg rune) error {
	if h.recordingReg != register.Null {
		return ErrAlreadyRecording
	}
	if !register.IsValid(reg) {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, reg)
	}
	h.recordingReg = reg
	h.recorded = nil
	h.recordingDepth = h.depth
	if h.recordingDepth == 0 {
		// Started outside dispatch; capture top-level keys.
		h.recordingDepth = 1
	}
	return nil
}

// StopRecording commits the recorded keys to the target register and
// ends the recording.
func (h *Handler) StopRecording() error {
	if h.recordingReg == register.Null {
		return ErrNotRecording
	}
	var values []string
	if len(h.recorded) > 0 {
		values = []string{key.Sequence(h.recorded)}
	}
	err := h.ctx.registers.Set(h.recordingReg, values)
	h.recordingReg = register.Null
	h.recorded = nil
	h.recordingDepth = 0
	return err
}

// DropLastRecordedKey removes the most recently recorded key. The
// command bound to the stop-recording key calls this so its own trigger
// does not end up in the macro.
func (h *Handler) DropLastRecordedKey() {
	if h.recordingReg != register.Null && len(h.recorded) > 0 {
		h.recorded = h.recorded[:len(h.recorded)-1]
	}
}

// IsRecording reports whether a macro recording is in progress.
func (h *Handler) IsRecording() bool {
	return h.recordingReg != register.Null
}

// RecordingRegister returns the register being recorded into, or
// register.Null when not recording.
func (h *Handler) RecordingRegister() rune {
	return h.recordingReg
}

// ReplayMacro feeds the keys recorded in reg back through dispatch,
// count times. A count below one is treated as one. Replaying the
// register currently being recorded is rejected, since the replayed
// keys would be captured again and the macro would grow without bound.
func (h *Handler) ReplayMacro(reg rune, count int) error {
	if !register.IsValid(reg) {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, reg)
	}
	if h.recordingReg == reg {
		return fmt.Errorf("input: register %q is being recorded", reg)
	}
	content := h.ctx.registers.Main(reg)
	if content == "" {
		return nil
	}
	keys, err := key.ParseSequence(content)
	if err != nil {
		return fmt.Errorf("replaying macro %q: %w", reg, err)
	}
	if count < 1 {
		count = 1
	}
	for ; count > 0; count-- {
		for _, k := range keys {
			h.HandleKey(k, true)
		}
	}
	return nil
}
