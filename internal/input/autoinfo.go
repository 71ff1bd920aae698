package input

import (
	"github.com/dshills/modality/internal/config"
	"github.com/dshills/modality/internal/input/key"
)

// ShouldShowInfo reports whether an informational overlay of the given
// class would be shown under the current settings.
func ShouldShowInfo(mask config.AutoInfo, c *Context) bool {
	return c != nil && c.ui != nil && c.settings.AutoInfo&mask != 0
}

// ShowAutoInfoIfn shows an informational overlay if the given class is
// enabled, and reports whether it did. Showing while an overlay is
// visible replaces it.
func ShowAutoInfoIfn(title, content string, mask config.AutoInfo, c *Context) bool {
	if !ShouldShowInfo(mask, c) {
		return false
	}
	c.ui.ShowInfo(title, content)
	c.autoInfoShown = true
	return true
}

// HideAutoInfoIfn hides the automatic overlay when hide is true and one
// is visible. Callers pass the ShouldShowInfo result for their class so
// an overlay shown by another class is left alone.
func HideAutoInfoIfn(c *Context, hide bool) {
	if hide && c.autoInfoShown {
		c.ui.HideInfo()
		c.autoInfoShown = false
	}
}

// OnNextKeyWithAutoInfo captures one key like Handler.OnNextKey, and
// shows the given help text if the key does not arrive before the idle
// timeout. The help is hidden again when the key arrives.
func OnNextKeyWithAutoInfo(c *Context, name string, callback KeyCallback, title, content string) {
	c.handler.OnNextKey(name, func(k key.Key, c *Context) {
		HideAutoInfoIfn(c, ShouldShowInfo(config.AutoInfoOnKey, c))
		callback(k, c)
	}, func(c *Context) {
		ShowAutoInfoIfn(title, content, config.AutoInfoOnKey, c)
	})
}
