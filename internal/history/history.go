// Package history keeps a bounded, newest-first log of retired job outcomes
// for the lifetime of the process.
package history

import (
	"sync"

	"github.com/1nis/Downloadix/internal/model"
)

// MaxEntries caps the history log; older entries beyond the cap are
// permanently discarded.
const MaxEntries = 50

// Store is a bounded, ordered log of retired job outcomes. Safe for
// concurrent use.
type Store struct {
	mu      sync.Mutex
	entries []model.HistoryEntry
}

// NewStore creates an empty history store
func NewStore() *Store {
	return &Store{}
}

// Add prepends entries to the log, keeping their given order at the front,
// then truncates to MaxEntries.
func (s *Store) Add(entries ...model.HistoryEntry) {
	if len(entries) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(append([]model.HistoryEntry{}, entries...), s.entries...)
	if len(s.entries) > MaxEntries {
		s.entries = s.entries[:MaxEntries]
	}
}

// List returns a copy of the log, newest first.
func (s *Store) List() []model.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Clear empties the log. Live jobs are unaffected.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}
