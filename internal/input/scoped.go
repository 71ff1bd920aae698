package input

// ScopedForceNormal temporarily forces normal mode so a command
// sequence can run with normal-mode dispatch regardless of the mode the
// user was in. Release restores the previous state. If normal mode was
// already active nothing is pushed and Release is a no-op.
//
// Modes pushed and popped while the force is active are fine; Release
// finds its own normal mode even if other activity buried it.
type ScopedForceNormal struct {
	h      *Handler
	pushed mode
}

// ForceNormal pushes a fresh normal mode carrying the given pending
// parameters, unless normal mode is already active. The caller must
// call Release when done.
func (h *Handler) ForceNormal(params NormalParams) *ScopedForceNormal {
	s := &ScopedForceNormal{h: h}
	if _, ok := h.current().(*normalMode); !ok {
		m := newNormalMode(h)
		m.params = params
		h.pushMode(m)
		s.pushed = m
	}
	return s
}

// Release undoes ForceNormal. Calling it more than once is harmless.
func (s *ScopedForceNormal) Release() {
	if s.pushed == nil {
		return
	}
	h := s.h
	pushed := s.pushed
	s.pushed = nil

	if h.current() == pushed {
		h.popMode(pushed)
		return
	}
	// Buried under modes pushed during the forced scope; erase it in
	// place so those modes keep their position.
	for i := len(h.stack) - 1; i > 0; i-- {
		if h.stack[i] == pushed {
			pushed.onLeave()
			h.stack = append(h.stack[:i], h.stack[i+1:]...)
			return
		}
	}
}
