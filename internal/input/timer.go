package input

import "time"

// deferredTask is a callback scheduled to run at a deadline. Tasks are
// fired by the owning event loop via FireTimers; there is no background
// goroutine, which keeps the handler single-threaded.
type deferredTask struct {
	deadline time.Time
	fn       func()
	done     bool
}

func (t *deferredTask) cancel() {
	t.done = true
	t.fn = nil
}

// schedule queues fn to run after d.
func (h *Handler) schedule(d time.Duration, fn func()) *deferredTask {
	t := &deferredTask{deadline: h.now().Add(d), fn: fn}
	h.tasks = append(h.tasks, t)
	return t
}

// NextDeadline returns the earliest pending task deadline. The second
// result is false when no task is pending; the event loop can then
// block indefinitely on input.
func (h *Handler) NextDeadline() (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, t := range h.tasks {
		if t.done {
			continue
		}
		if !found || t.deadline.Before(earliest) {
			earliest = t.deadline
			found = true
		}
	}
	return earliest, found
}

// FireTimers runs every task whose deadline is at or before now and
// returns how many fired. Cancelled tasks are discarded. The event loop
// calls this when NextDeadline elapses without input.
func (h *Handler) FireTimers(now time.Time) int {
	var due []*deferredTask
	rest := h.tasks[:0]
	for _, t := range h.tasks {
		switch {
		case t.done:
		case !t.deadline.After(now):
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	h.tasks = rest

	fired := 0
	for _, t := range due {
		fn := t.fn
		t.cancel()
		if fn != nil {
			fn()
			fired++
		}
	}
	return fired
}
