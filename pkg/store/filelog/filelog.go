package filelog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/Qendolin/rfid-scan-logger/pkg/core/scanlog"
	"github.com/Qendolin/rfid-scan-logger/pkg/logging"
)

// Store appends each new entry to a user-selected text file, one line per
// entry. Until a file is selected, entries are not persisted at all.
type Store struct {
	mu     sync.Mutex
	path   string
	format scanlog.Format
}

// New creates a store that renders lines with format. No file is selected.
func New(format scanlog.Format) *Store {
	return &Store{format: format}
}

func (s *Store) Name() string {
	if p := s.Path(); p != "" {
		return "file " + p
	}
	return "file (none selected)"
}

// Path returns the selected file, or "" if none is selected.
func (s *Store) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Select makes path the append target after checking that it is an existing
// regular file the process may write to. The previous selection is kept on failure.
func (s *Store) Select(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return classify(fmt.Errorf("selecting %s: %w", path, err), scanlog.ErrFileUnavailable)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("selecting %s: %w: not a regular file", path, scanlog.ErrFileUnavailable)
	}

	// Verify write permission.
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return classify(fmt.Errorf("verifying write access to %s: %w", path, err), scanlog.ErrFileUnavailable)
	}
	if err := f.Close(); err != nil {
		return classify(fmt.Errorf("closing %s: %w", path, err), scanlog.ErrFileUnavailable)
	}

	s.mu.Lock()
	s.path = path
	s.mu.Unlock()
	logging.Infof("FileStore: Selected log file '%s' (%d bytes).", path, info.Size())
	return nil
}

// AppendEntry writes the entry's line at the end of the selected file. The
// file is opened and closed for every entry.
func (s *Store) AppendEntry(ctx context.Context, e scanlog.Entry) error {
	path := s.Path()
	if path == "" {
		logging.Debugf("FileStore: No log file selected, entry kept in memory only.")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.appendLine(path, s.format.Line(e)+"\n")
}

func (s *Store) appendLine(path, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil {
		return classify(fmt.Errorf("reading size of %s: %w", path, err), scanlog.ErrWriteFailed)
	}
	size := info.Size()

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return classify(fmt.Errorf("opening %s for writing: %w", path, err), scanlog.ErrWriteFailed)
	}

	if _, err := f.Seek(size, io.SeekStart); err != nil {
		_ = f.Close()
		return fmt.Errorf("seeking to end of %s: %w: %w", path, scanlog.ErrWriteFailed, err)
	}
	if _, err := io.WriteString(f, line); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing to %s: %w: %w", path, scanlog.ErrWriteFailed, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w: %w", path, scanlog.ErrWriteFailed, err)
	}
	return nil
}

// classify tags err with ErrPermissionDenied for permission failures and
// with fallback otherwise.
func classify(err error, fallback error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %w", scanlog.ErrPermissionDenied, err)
	}
	return fmt.Errorf("%w: %w", fallback, err)
}
