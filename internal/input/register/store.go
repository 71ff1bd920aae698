package register

import (
	"fmt"
	"sync"
	"unicode"
)

// DefaultHistoryMax is the default cap on history register length.
const DefaultHistoryMax = 100

// Null is the null register: writes to it are discarded.
const Null rune = 0

// IsValid reports whether r can address a register.
// Letters, digits, and a small set of punctuation registers are allowed;
// punctuation registers are conventionally used for history (':', '/', '|').
func IsValid(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '"', ':', '/', '|', '@', '^', '.', '#', '_':
		return true
	}
	return false
}

// Store is a register store addressed by single runes.
// It is safe for concurrent use; persistence may run off the input thread.
type Store struct {
	mu         sync.Mutex
	regs       map[rune][]string
	historyMax int
}

// NewStore creates an empty register store.
func NewStore() *Store {
	return &Store{
		regs:       make(map[rune][]string),
		historyMax: DefaultHistoryMax,
	}
}

// SetHistoryMax sets the cap applied by AddHistory. Zero or negative
// restores the default.
func (s *Store) SetHistoryMax(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 {
		n = DefaultHistoryMax
	}
	s.historyMax = n
}

// Get returns a copy of the register's values.
// The null register and unset registers read empty.
func (s *Store) Get(reg rune) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.regs[reg]
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// Main returns the last value of the register, or "" if empty.
// For macro registers this is the most recent recording.
func (s *Store) Main(reg rune) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.regs[reg]
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

// Set replaces the register's values. Writes to the null register are
// discarded; invalid registers return an error.
func (s *Store) Set(reg rune, values []string) error {
	if reg == Null {
		return nil
	}
	if !IsValid(reg) {
		return fmt.Errorf("register: invalid register %q", reg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(values) == 0 {
		delete(s.regs, reg)
		return nil
	}
	saved := make([]string, len(values))
	copy(saved, values)
	s.regs[reg] = saved
	return nil
}

// Append adds a value to the end of the register.
func (s *Store) Append(reg rune, value string) error {
	if reg == Null {
		return nil
	}
	if !IsValid(reg) {
		return fmt.Errorf("register: invalid register %q", reg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[reg] = append(s.regs[reg], value)
	return nil
}

// AddHistory appends a history entry: an existing identical entry is moved
// to the end instead of duplicated, and the register is trimmed to the
// history cap. Empty entries and the null register are ignored.
func (s *Store) AddHistory(reg rune, entry string) {
	if reg == Null || entry == "" || !IsValid(reg) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.regs[reg]
	for i, v := range values {
		if v == entry {
			values = append(values[:i], values[i+1:]...)
			break
		}
	}
	values = append(values, entry)
	if len(values) > s.historyMax {
		values = values[len(values)-s.historyMax:]
	}
	s.regs[reg] = values
}

// Clear removes the register's contents.
func (s *Store) Clear(reg rune) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.regs, reg)
}

// Registers returns the registers that currently hold values.
func (s *Store) Registers() []rune {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]rune, 0, len(s.regs))
	for reg, values := range s.regs {
		if len(values) > 0 {
			out = append(out, reg)
		}
	}
	return out
}

// snapshot returns a deep copy of all registers, for persistence.
func (s *Store) snapshot() map[rune][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[rune][]string, len(s.regs))
	for reg, values := range s.regs {
		if len(values) == 0 {
			continue
		}
		copied := make([]string, len(values))
		copy(copied, values)
		out[reg] = copied
	}
	return out
}

// restore replaces all registers from a persisted snapshot.
func (s *Store) restore(regs map[rune][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.regs = make(map[rune][]string, len(regs))
	for reg, values := range regs {
		if !IsValid(reg) || len(values) == 0 {
			continue
		}
		copied := make([]string, len(values))
		copy(copied, values)
		s.regs[reg] = copied
	}
}
