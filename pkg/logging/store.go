package logging

import "sync"

// DefaultStoreCapacity bounds the number of entries kept for the UI.
const DefaultStoreCapacity = 4096

// LogStore holds the most recent log entries in memory for the UI. It is
// thread-safe. Once full, the oldest entries are dropped; level counts keep
// covering every entry ever added.
type LogStore struct {
	mu       sync.RWMutex
	entries  []LogEntry
	capacity int
	counts   map[LogLevel]int
	total    int
}

func newLogStore(capacity int) *LogStore {
	if capacity <= 0 {
		capacity = DefaultStoreCapacity
	}
	return &LogStore{
		entries:  make([]LogEntry, 0, 256),
		capacity: capacity,
		counts:   make(map[LogLevel]int),
	}
}

// Add appends a new entry to the store.
func (s *LogStore) Add(entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == s.capacity {
		copy(s.entries, s.entries[1:])
		s.entries = s.entries[:len(s.entries)-1]
	}
	s.entries = append(s.entries, entry)
	s.counts[entry.Level]++
	s.total++
}

// GetAll returns a copy of all retained log entries.
func (s *LogStore) GetAll() []LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entriesCopy := make([]LogEntry, len(s.entries))
	copy(entriesCopy, s.entries)
	return entriesCopy
}

// Count returns how many entries of level were ever added.
func (s *LogStore) Count(level LogLevel) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[level]
}

// Len returns the number of retained entries.
func (s *LogStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Total returns how many entries were ever added.
func (s *LogStore) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}
