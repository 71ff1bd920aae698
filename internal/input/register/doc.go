// Package register implements the single-character-addressed register store
// used for macros and prompt history.
//
// Registers hold lists of strings. Macro recordings are committed as a
// single value in key notation; history registers accumulate one entry per
// validated prompt line. The null register (rune 0) discards writes and
// reads empty, which callers use to disable history.
package register
