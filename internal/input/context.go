package input

import (
	"github.com/dshills/modality/internal/config"
	"github.com/dshills/modality/internal/input/key"
	"github.com/dshills/modality/internal/input/register"
)

// TextSink receives the text produced by insert mode and paste. It is
// the handler's only view of the edited buffer.
type TextSink interface {
	// BeginInsert marks the start of an insertion session.
	BeginInsert(kind InsertKind, count int)

	// InsertKey applies one key of an active insertion. Non-rune keys
	// (arrows, delete, control chords) are interpreted by the sink.
	InsertKey(k key.Key)

	// InsertText applies pasted text verbatim.
	InsertText(text string)

	// EndInsert marks the end of an insertion session.
	EndInsert()
}

// UI receives transient overlay requests: informational boxes and
// selection menus. Showing while already shown replaces the content.
type UI interface {
	ShowInfo(title, content string)
	HideInfo()
	ShowMenu(items []string, selected int)
	HideMenu()
}

// CommandTable resolves a normal-mode key to the command it runs.
type CommandTable interface {
	Lookup(k key.Key) (Command, bool)
}

// Command is a normal-mode editing command.
type Command func(c *Context, params NormalParams)

// CommandMap is a CommandTable backed by a plain map.
type CommandMap map[key.Key]Command

// Lookup implements CommandTable.
func (m CommandMap) Lookup(k key.Key) (Command, bool) {
	cmd, ok := m[k]
	return cmd, ok
}

// Context bundles the session state shared by the handler and its
// modes: settings, registers, the text sink, the overlay UI and the
// normal-mode command table.
type Context struct {
	handler   *Handler
	settings  config.Settings
	registers *register.Store
	sink      TextSink
	ui        UI
	commands  CommandTable

	name      string
	sessionID string

	onError       func(error)
	hooksDepth    int
	autoInfoShown bool
}

// Handler returns the owning input handler.
func (c *Context) Handler() *Handler {
	return c.handler
}

// Settings returns the current session settings.
func (c *Context) Settings() config.Settings {
	return c.settings
}

// SetSettings replaces the session settings, typically after a
// configuration reload. Unusable zero values fall back to the
// defaults.
func (c *Context) SetSettings(s config.Settings) {
	c.settings = normalizeSettings(s)
	c.registers.SetHistoryMax(c.settings.HistoryMax)
}

// Registers returns the session register store.
func (c *Context) Registers() *register.Store {
	return c.registers
}

// Name returns the client name given at handler creation.
func (c *Context) Name() string {
	return c.name
}

// SessionID returns the unique id of this handler session.
func (c *Context) SessionID() string {
	return c.sessionID
}

// Error reports a non-fatal error to the session error callback. A nil
// error is ignored.
func (c *Context) Error(err error) {
	if err == nil {
		return
	}
	if c.onError != nil {
		c.onError(err)
	}
}

// DisableHooks increments the hook-suppression counter. Calls nest.
func (c *Context) DisableHooks() {
	c.hooksDepth++
}

// EnableHooks decrements the hook-suppression counter.
func (c *Context) EnableHooks() {
	if c.hooksDepth > 0 {
		c.hooksDepth--
	}
}

// HooksDisabled reports whether hooks are currently suppressed.
func (c *Context) HooksDisabled() bool {
	return c.hooksDepth > 0
}
