// Package input implements modal key dispatch for the editor.
//
// A Handler owns a stack of interaction modes. The bottom of the stack
// is always normal mode; transient modes (insert, prompt, menu,
// one-shot key handlers) are pushed on top and route every key to the
// topmost mode until they pop themselves. The handler also owns the
// macro recorder, the last-insertion record used for repeat, and a
// small deferred-task queue that drives idle timeouts.
//
// The handler is single-threaded: all methods must be called from the
// owning event loop.
package input
