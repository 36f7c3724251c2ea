package memory

import (
	"context"
	"sync"

	"github.com/Qendolin/rfid-scan-logger/pkg/core/scanlog"
)

// Store keeps the whole log in process memory and rewrites it on every change.
// It is intended for use in tests and for sessions that should not persist.
type Store struct {
	mu      sync.Mutex
	entries []scanlog.Entry
	writes  int
}

func New() *Store {
	return &Store{}
}

func (s *Store) Name() string { return "memory" }

func (s *Store) ReplaceEntries(_ context.Context, entries []scanlog.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(make([]scanlog.Entry, 0, len(entries)), entries...)
	s.writes++
	return nil
}

func (s *Store) LoadEntries(_ context.Context) ([]scanlog.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]scanlog.Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *Store) ClearEntries(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.writes++
	return nil
}

// Writes returns how many times the store was rewritten or cleared.  Test-only helper.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
