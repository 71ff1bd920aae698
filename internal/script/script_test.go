package script

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/modality/internal/config"
	"github.com/dshills/modality/internal/input/key"
)

func writeInit(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "init.lua")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunDeclarations(t *testing.T) {
	path := writeInit(t, `
modality.set("autoinfo", "normal")
modality.set("idle_timeout_ms", 120)
modality.macro("m", "ihello<esc>")
modality.map("H", "<home>")
`)

	res, err := Run(path, config.Default())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Settings.AutoInfo != config.AutoInfoNormal {
		t.Errorf("AutoInfo = %v", res.Settings.AutoInfo)
	}
	if res.Settings.IdleTimeout != 120*time.Millisecond {
		t.Errorf("IdleTimeout = %v", res.Settings.IdleTimeout)
	}
	if got := res.Macros['m']; got != "ihello<esc>" {
		t.Errorf("macro m = %q", got)
	}
	exp, ok := res.Mappings[key.Rune('H')]
	if !ok || len(exp) != 1 || exp[0] != key.CodeHome.Key() {
		t.Errorf("mapping H = %v, ok=%v", exp, ok)
	}
}

func TestRunMissingFile(t *testing.T) {
	base := config.Default()
	base.HistoryMax = 7

	res, err := Run(filepath.Join(t.TempDir(), "absent.lua"), base)
	if err != nil {
		t.Fatalf("missing init script should not error, got %v", err)
	}
	if res.Settings != base {
		t.Errorf("settings = %+v, want base unchanged", res.Settings)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax error", `modality.set(`},
		{"unknown option", `modality.set("bogus", 1)`},
		{"bad autoinfo", `modality.set("autoinfo", "nope")`},
		{"bad register", `modality.macro("toolong", "x")`},
		{"bad macro keys", `modality.macro("m", "<nosuchkey>")`},
		{"bad mapping", `modality.map("ab", "x")`},
	}

	for _, tt := range tests {
		path := writeInit(t, tt.content)
		if _, err := Run(path, config.Default()); err == nil {
			t.Errorf("%s: Run() should fail", tt.name)
		}
	}
}

func TestRunSandboxed(t *testing.T) {
	// io and os never open; code loading is stripped from base.
	for _, content := range []string{
		`io.open("/etc/passwd")`,
		`os.getenv("HOME")`,
		`load("return 1")()`,
	} {
		path := writeInit(t, content)
		if _, err := Run(path, config.Default()); err == nil {
			t.Errorf("%q: sandboxed call should fail", content)
		}
	}
}

func TestRunPureLuaStillWorks(t *testing.T) {
	path := writeInit(t, `
local keys = ""
for _, k in ipairs({"i", "h", "i"}) do keys = keys .. k end
modality.macro("g", keys .. "<esc>")
`)

	res, err := Run(path, config.Default())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := res.Macros['g']; got != "ihi<esc>" {
		t.Errorf("macro g = %q", got)
	}
}
