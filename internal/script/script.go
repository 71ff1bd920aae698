package script

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/modality/internal/config"
	"github.com/dshills/modality/internal/input/key"
	"github.com/dshills/modality/internal/input/register"
)

// InitResult is what an init script declared.
type InitResult struct {
	// Settings is the base configuration with the script's overrides
	// applied.
	Settings config.Settings

	// Macros maps registers to preloaded macro key sequences, in the
	// same notation recordings are stored in.
	Macros map[rune]string

	// Mappings maps a normal-mode key to the key sequence it expands
	// to.
	Mappings map[key.Key][]key.Key
}

// Run executes the init file at path and returns its declarations. A
// missing file is not an error and returns the base settings
// unchanged.
func Run(path string, base config.Settings) (*InitResult, error) {
	res := &InitResult{
		Settings: base,
		Macros:   make(map[rune]string),
		Mappings: make(map[key.Key][]key.Key),
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return res, nil
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibraries(L)
	registerModality(L, res)

	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("running init script %s: %w", path, err)
	}
	return res, nil
}

// openSafeLibraries opens only the libraries an init script needs.
// io, os and debug stay closed.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	// The base library drags in code-loading entry points; remove them.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// registerModality installs the `modality` table.
func registerModality(L *lua.LState, res *InitResult) {
	mod := L.NewTable()
	L.SetGlobal("modality", mod)

	L.SetFuncs(mod, map[string]lua.LGFunction{
		"set":   setOption(res),
		"macro": setMacro(res),
		"map":   setMapping(res),
	})
}

// setOption implements modality.set(name, value).
func setOption(res *InitResult) lua.LGFunction {
	return func(L *lua.LState) int {
		name := L.CheckString(1)
		switch name {
		case "autoinfo":
			mask, err := config.ParseAutoInfo(L.CheckString(2))
			if err != nil {
				L.RaiseError("%s", err)
			}
			res.Settings.AutoInfo = mask
		case "autocomplete":
			mask, err := config.ParseAutoComplete(L.CheckString(2))
			if err != nil {
				L.RaiseError("%s", err)
			}
			res.Settings.AutoComplete = mask
		case "idle_timeout_ms":
			res.Settings.IdleTimeout = time.Duration(L.CheckInt(2)) * time.Millisecond
		case "history_max":
			res.Settings.HistoryMax = L.CheckInt(2)
		case "max_recursion":
			res.Settings.MaxRecursion = L.CheckInt(2)
		default:
			L.RaiseError("unknown option %q", name)
		}
		return 0
	}
}

// setMacro implements modality.macro(register, keys).
func setMacro(res *InitResult) lua.LGFunction {
	return func(L *lua.LState) int {
		regStr := L.CheckString(1)
		keys := L.CheckString(2)

		regRunes := []rune(regStr)
		if len(regRunes) != 1 || !register.IsValid(regRunes[0]) {
			L.RaiseError("invalid macro register %q", regStr)
		}
		if _, err := key.ParseSequence(keys); err != nil {
			L.RaiseError("invalid macro keys %q: %s", keys, err)
		}
		res.Macros[regRunes[0]] = keys
		return 0
	}
}

// setMapping implements modality.map(key, expansion).
func setMapping(res *InitResult) lua.LGFunction {
	return func(L *lua.LState) int {
		from := L.CheckString(1)
		to := L.CheckString(2)

		fromKey, err := key.Parse(from)
		if err != nil {
			L.RaiseError("invalid mapping key %q: %s", from, err)
		}
		expansion, err := key.ParseSequence(to)
		if err != nil {
			L.RaiseError("invalid mapping expansion %q: %s", to, err)
		}
		res.Mappings[fromKey] = expansion
		return 0
	}
}

// DefaultPath returns the default location of the init script.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(configDir, "modality", "init.lua"), nil
}
