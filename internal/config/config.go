package config

import (
	"fmt"
	"strings"
	"time"
)

// AutoInfo selects which informational classes show a transient overlay.
type AutoInfo uint8

const (
	// AutoInfoCommand shows info for prompt commands.
	AutoInfoCommand AutoInfo = 1 << iota

	// AutoInfoOnKey shows info while a one-shot key handler waits.
	AutoInfoOnKey

	// AutoInfoNormal shows info for normal-mode state.
	AutoInfoNormal
)

// AutoInfoNone disables all informational overlays.
const AutoInfoNone AutoInfo = 0

var autoInfoNames = []struct {
	bit  AutoInfo
	name string
}{
	{AutoInfoCommand, "command"},
	{AutoInfoOnKey, "onkey"},
	{AutoInfoNormal, "normal"},
}

// Has returns true if the mask contains the given class.
func (a AutoInfo) Has(bit AutoInfo) bool {
	return a&bit != 0
}

// String renders the mask as a comma-separated name list.
func (a AutoInfo) String() string {
	var parts []string
	for _, d := range autoInfoNames {
		if a.Has(d.bit) {
			parts = append(parts, d.name)
		}
	}
	return strings.Join(parts, ",")
}

// ParseAutoInfo parses a comma-separated name list into a mask.
// An empty string parses to AutoInfoNone.
func ParseAutoInfo(s string) (AutoInfo, error) {
	var mask AutoInfo
	for _, part := range splitNames(s) {
		found := false
		for _, d := range autoInfoNames {
			if part == d.name {
				mask |= d.bit
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("config: unknown autoinfo class %q", part)
		}
	}
	return mask, nil
}

// AutoComplete selects which modes request completions automatically.
type AutoComplete uint8

const (
	// CompleteInsert enables automatic completion in insert mode.
	CompleteInsert AutoComplete = 1 << iota

	// CompletePrompt enables automatic completion in prompt mode.
	CompletePrompt
)

// CompleteNone disables automatic completion.
const CompleteNone AutoComplete = 0

var autoCompleteNames = []struct {
	bit  AutoComplete
	name string
}{
	{CompleteInsert, "insert"},
	{CompletePrompt, "prompt"},
}

// Has returns true if the mask contains the given mode.
func (a AutoComplete) Has(bit AutoComplete) bool {
	return a&bit != 0
}

// String renders the mask as a comma-separated name list.
func (a AutoComplete) String() string {
	var parts []string
	for _, d := range autoCompleteNames {
		if a.Has(d.bit) {
			parts = append(parts, d.name)
		}
	}
	return strings.Join(parts, ",")
}

// ParseAutoComplete parses a comma-separated name list into a mask.
func ParseAutoComplete(s string) (AutoComplete, error) {
	var mask AutoComplete
	for _, part := range splitNames(s) {
		found := false
		for _, d := range autoCompleteNames {
			if part == d.name {
				mask |= d.bit
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("config: unknown autocomplete mode %q", part)
		}
	}
	return mask, nil
}

func splitNames(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Settings configures an input handler session.
type Settings struct {
	// AutoInfo controls transient informational overlays.
	AutoInfo AutoInfo

	// AutoComplete controls automatic completion requests.
	AutoComplete AutoComplete

	// IdleTimeout is how long a one-shot key handler waits before firing
	// its idle callback.
	IdleTimeout time.Duration

	// HistoryMax caps the length of prompt history registers.
	HistoryMax int

	// MaxRecursion bounds nested key dispatch (macro replay calling
	// replay, and similar). Exceeding it reports an error instead of
	// overflowing the stack.
	MaxRecursion int
}

// Default returns the default session settings.
func Default() Settings {
	return Settings{
		AutoInfo:     AutoInfoCommand | AutoInfoOnKey,
		AutoComplete: CompleteInsert | CompletePrompt,
		IdleTimeout:  50 * time.Millisecond,
		HistoryMax:   100,
		MaxRecursion: 128,
	}
}
