package scanlog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExportToDir writes the log to a new file in dir named after the export
// time and returns its path. No file is created when the log is empty.
func (s *Session) ExportToDir(dir string, now time.Time) (string, error) {
	var buf bytes.Buffer
	if err := s.Export(&buf); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory %s: %w: %w", dir, ErrWriteFailed, err)
	}
	f, path, err := createUnique(dir, s.format.ExportFileName(now))
	if err != nil {
		return "", fmt.Errorf("creating export in %s: %w: %w", dir, ErrWriteFailed, err)
	}
	_, err = f.Write(buf.Bytes())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("writing export %s: %w: %w", path, ErrWriteFailed, err)
	}
	return path, nil
}

// createUnique creates name in dir without replacing an existing file. A
// taken name gets a _1, _2, ... suffix before its extension.
func createUnique(dir, name string) (*os.File, string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 0; ; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s_%d%s", base, i, ext)
		}
		path := filepath.Join(dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, path, err
		}
	}
}
