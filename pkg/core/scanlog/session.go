package scanlog

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Qendolin/rfid-scan-logger/pkg/logging"
)

// Store is the persistence target of a session. What a store can do is
// expressed by the capability interfaces below; a store implementing none of
// them keeps the log in memory only.
type Store interface {
	// Name identifies the store in logs and the UI.
	Name() string
}

// Appender persists a single new entry incrementally.
type Appender interface {
	AppendEntry(ctx context.Context, e Entry) error
}

// Replacer rewrites the whole persisted log on every change.
type Replacer interface {
	ReplaceEntries(ctx context.Context, entries []Entry) error
}

// Loader returns a previously persisted log in chronological order.
type Loader interface {
	LoadEntries(ctx context.Context) ([]Entry, error)
}

// Clearer empties the persisted log.
type Clearer interface {
	ClearEntries(ctx context.Context) error
}

// Session owns the in-memory log of a run and mirrors it to one store.
type Session struct {
	// writeMu serializes mutations across store I/O; mu only guards entries
	// so readers never wait on the store.
	writeMu sync.Mutex
	mu      sync.Mutex
	entries []Entry
	store   Store
	format  Format
}

// NewSession creates an empty session persisting to store.
func NewSession(store Store, format Format) *Session {
	if format.TimeLayout == "" {
		format.TimeLayout = DefaultTimeLayout
	}
	return &Session{
		store:  store,
		format: format,
	}
}

// Store returns the session's persistence target.
func (s *Session) Store() Store { return s.store }

// Format returns the session's entry format.
func (s *Session) Format() Format { return s.format }

// Restore populates the session from a Loader store. It never writes back.
// Stores without the Loader capability restore nothing.
func (s *Session) Restore(ctx context.Context) (int, error) {
	loader, ok := s.store.(Loader)
	if !ok {
		return 0, nil
	}
	entries, err := loader.LoadEntries(ctx)
	if err != nil {
		return 0, fmt.Errorf("restoring log from %s: %w", s.store.Name(), err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	s.entries = append(make([]Entry, 0, len(entries)), entries...)
	s.mu.Unlock()
	logging.Infof("Session: Restored %d entries from %s.", len(entries), s.store.Name())
	return len(entries), nil
}

// Add records a scanned code. Surrounding whitespace is trimmed and blank
// codes are rejected with ErrEmptyCode. The entry is persisted first and only
// added to the log if persisting succeeded.
func (s *Session) Add(ctx context.Context, code string, at time.Time) (Entry, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Entry{}, ErrEmptyCode
	}
	entry := s.format.NewEntry(code, at)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	switch st := s.store.(type) {
	case Appender:
		if err := st.AppendEntry(ctx, entry); err != nil {
			return Entry{}, fmt.Errorf("appending entry to %s: %w", s.store.Name(), err)
		}
	case Replacer:
		next := append(s.Entries(), entry)
		if err := st.ReplaceEntries(ctx, next); err != nil {
			return Entry{}, fmt.Errorf("saving log to %s: %w", s.store.Name(), err)
		}
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()
	logging.Debugf("Session: Added entry '%s'.", s.format.Line(entry))
	return entry, nil
}

// Entries returns a copy of the log in chronological order.
func (s *Session) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries in the log.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Clear empties the log and, if the store supports it, the persisted log.
// The in-memory log is kept when clearing the store fails.
func (s *Session) Clear(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if clearer, ok := s.store.(Clearer); ok {
		if err := clearer.ClearEntries(ctx); err != nil {
			return fmt.Errorf("clearing %s: %w", s.store.Name(), err)
		}
	}
	s.mu.Lock()
	n := len(s.entries)
	s.entries = nil
	s.mu.Unlock()
	logging.Infof("Session: Cleared %d entries.", n)
	return nil
}

// Export writes every entry as one line, in chronological order, separated
// by newlines. An empty log yields ErrNothingToExport and writes nothing.
func (s *Session) Export(w io.Writer) error {
	entries := s.Entries()
	if len(entries) == 0 {
		return ErrNothingToExport
	}
	_, err := io.WriteString(w, s.format.Render(entries))
	return err
}

// Render joins the lines of entries with newlines, without a trailing one.
func (f Format) Render(entries []Entry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = f.Line(e)
	}
	return strings.Join(lines, "\n")
}
