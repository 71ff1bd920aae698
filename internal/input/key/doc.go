// Package key defines the key value type consumed by the input dispatcher.
//
// A Key is an immutable, comparable value combining a key code, an optional
// rune payload for character keys, and a modifier bitmask. Keys can be
// rendered to and parsed from a compact textual notation ("a", "<esc>",
// "<c-x>", "<a-f1>") which is also the storage format for macro registers,
// so String and Parse are exact inverses for every representable key.
package key
