// Package script runs the user's init file in a restricted Lua state.
//
// The init file declares configuration through a single `modality`
// table: settings overrides, macro register preloads and normal-mode
// key mappings. The script runs once at startup; it cannot reach the
// filesystem, network or process environment.
package script
