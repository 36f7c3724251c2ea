package scanlog_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Qendolin/rfid-scan-logger/pkg/core/scanlog"
	"github.com/Qendolin/rfid-scan-logger/pkg/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 10, 17, 14, 3, 5, 0, time.Local)

// appendOnly records appended entries and can be told to fail.
type appendOnly struct {
	appended []scanlog.Entry
	fail     error
}

func (a *appendOnly) Name() string { return "append-only" }

func (a *appendOnly) AppendEntry(_ context.Context, e scanlog.Entry) error {
	if a.fail != nil {
		return a.fail
	}
	a.appended = append(a.appended, e)
	return nil
}

type failingReplacer struct{ memory.Store }

func (f *failingReplacer) ReplaceEntries(context.Context, []scanlog.Entry) error {
	return scanlog.ErrStorageUnavailable
}

func (f *failingReplacer) ClearEntries(context.Context) error {
	return scanlog.ErrStorageUnavailable
}

func TestFormatTimestampAndLine(t *testing.T) {
	f := scanlog.DefaultFormat()
	e := f.NewEntry("04A1B2C3", baseTime)

	assert.Equal(t, "17/10/2026 14:03:05", e.Timestamp)
	assert.Equal(t, "17/10/2026 14:03:05 04A1B2C3", f.Line(e))

	dashed := scanlog.Format{TimeLayout: scanlog.DefaultTimeLayout, Separator: " - "}
	assert.Equal(t, "17/10/2026 14:03:05 - 04A1B2C3", dashed.Line(e))
}

func TestExportFileName(t *testing.T) {
	f := scanlog.DefaultFormat()
	assert.Equal(t, "17_10_2026_14_03_05.txt", f.ExportFileName(baseTime))
}

func TestSessionAddKeepsSubmissionOrder(t *testing.T) {
	s := scanlog.NewSession(memory.New(), scanlog.DefaultFormat())
	ctx := context.Background()

	const n = 25
	for i := 0; i < n; i++ {
		_, err := s.Add(ctx, fmt.Sprintf("CODE%02d", i), baseTime.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}

	entries := s.Entries()
	require.Len(t, entries, n)
	assert.Equal(t, n, s.Len())
	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("CODE%02d", i), e.Code)
	}
}

func TestSessionAddTrimsAndRejectsBlank(t *testing.T) {
	s := scanlog.NewSession(memory.New(), scanlog.DefaultFormat())
	ctx := context.Background()

	for _, blank := range []string{"", "   ", "\t", " \n "} {
		_, err := s.Add(ctx, blank, baseTime)
		assert.ErrorIs(t, err, scanlog.ErrEmptyCode)
	}
	assert.Zero(t, s.Len())

	e, err := s.Add(ctx, "  ABC  ", baseTime)
	require.NoError(t, err)
	assert.Equal(t, "ABC", e.Code)
	assert.Equal(t, 1, s.Len())
}

func TestSessionAddUsesAppender(t *testing.T) {
	st := &appendOnly{}
	s := scanlog.NewSession(st, scanlog.DefaultFormat())

	_, err := s.Add(context.Background(), "A", baseTime)
	require.NoError(t, err)
	_, err = s.Add(context.Background(), "B", baseTime)
	require.NoError(t, err)

	require.Len(t, st.appended, 2)
	assert.Equal(t, "A", st.appended[0].Code)
	assert.Equal(t, "B", st.appended[1].Code)
}

func TestSessionAddUsesReplacer(t *testing.T) {
	st := memory.New()
	s := scanlog.NewSession(st, scanlog.DefaultFormat())
	ctx := context.Background()

	for _, code := range []string{"A", "B", "C"} {
		_, err := s.Add(ctx, code, baseTime)
		require.NoError(t, err)
	}

	stored, err := st.LoadEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.Entries(), stored)
}

func TestSessionAddFailureLeavesLogUnchanged(t *testing.T) {
	ctx := context.Background()

	st := &appendOnly{}
	s := scanlog.NewSession(st, scanlog.DefaultFormat())
	_, err := s.Add(ctx, "A", baseTime)
	require.NoError(t, err)

	st.fail = fmt.Errorf("disk full: %w", scanlog.ErrWriteFailed)
	_, err = s.Add(ctx, "B", baseTime)
	require.Error(t, err)
	assert.ErrorIs(t, err, scanlog.ErrWriteFailed)
	assert.Equal(t, 1, s.Len())

	rs := scanlog.NewSession(&failingReplacer{}, scanlog.DefaultFormat())
	_, err = rs.Add(ctx, "A", baseTime)
	assert.ErrorIs(t, err, scanlog.ErrStorageUnavailable)
	assert.Zero(t, rs.Len())
}

func TestSessionExport(t *testing.T) {
	s := scanlog.NewSession(memory.New(), scanlog.DefaultFormat())
	ctx := context.Background()

	var empty bytes.Buffer
	assert.ErrorIs(t, s.Export(&empty), scanlog.ErrNothingToExport)
	assert.Zero(t, empty.Len())

	codes := []string{"AAA", "BBB", "CCC"}
	for i, code := range codes {
		_, err := s.Add(ctx, code, baseTime.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, s.Export(&buf))
	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, len(codes))
	assert.Equal(t, "17/10/2026 14:03:05 AAA", lines[0])
	assert.Equal(t, "17/10/2026 14:04:05 BBB", lines[1])
	assert.Equal(t, "17/10/2026 14:05:05 CCC", lines[2])
}

func TestSessionExportToDir(t *testing.T) {
	dir := t.TempDir()
	s := scanlog.NewSession(memory.New(), scanlog.DefaultFormat())

	_, err := s.ExportToDir(dir, baseTime)
	assert.ErrorIs(t, err, scanlog.ErrNothingToExport)
	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = s.Add(context.Background(), "XYZ", baseTime)
	require.NoError(t, err)

	path, err := s.ExportToDir(dir, baseTime)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "17_10_2026_14_03_05.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "17/10/2026 14:03:05 XYZ", string(data))
}

func TestSessionExportToDirKeepsEarlierExport(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	s := scanlog.NewSession(memory.New(), scanlog.DefaultFormat())

	_, err := s.Add(ctx, "FIRST", baseTime)
	require.NoError(t, err)
	first, err := s.ExportToDir(dir, baseTime)
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx))
	_, err = s.Add(ctx, "SECOND", baseTime)
	require.NoError(t, err)
	second, err := s.ExportToDir(dir, baseTime)
	require.NoError(t, err)
	third, err := s.ExportToDir(dir, baseTime)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "17_10_2026_14_03_05_1.txt"), second)
	assert.Equal(t, filepath.Join(dir, "17_10_2026_14_03_05_2.txt"), third)
	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "17/10/2026 14:03:05 FIRST", string(data))
	data, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "17/10/2026 14:03:05 SECOND", string(data))
}

// blockingAppender holds every append until release is closed.
type blockingAppender struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingAppender) Name() string { return "blocking" }

func (b *blockingAppender) AppendEntry(context.Context, scanlog.Entry) error {
	close(b.started)
	<-b.release
	return nil
}

func TestSessionReadsDoNotWaitForStore(t *testing.T) {
	st := &blockingAppender{started: make(chan struct{}), release: make(chan struct{})}
	s := scanlog.NewSession(st, scanlog.DefaultFormat())

	added := make(chan error, 1)
	go func() {
		_, err := s.Add(context.Background(), "SLOW", baseTime)
		added <- err
	}()
	<-st.started

	read := make(chan int, 1)
	go func() { read <- len(s.Entries()) + s.Len() }()
	select {
	case n := <-read:
		assert.Zero(t, n)
	case <-time.After(time.Second):
		t.Fatal("Entries blocked while the store was writing")
	}

	close(st.release)
	require.NoError(t, <-added)
	assert.Equal(t, 1, s.Len())
}

func TestSessionClear(t *testing.T) {
	st := memory.New()
	s := scanlog.NewSession(st, scanlog.DefaultFormat())
	ctx := context.Background()

	_, err := s.Add(ctx, "A", baseTime)
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx))
	assert.Zero(t, s.Len())
	stored, err := st.LoadEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestSessionClearFailureKeepsLog(t *testing.T) {
	st := &failingReplacer{}
	s := scanlog.NewSession(st, scanlog.DefaultFormat())

	err := s.Clear(context.Background())
	assert.ErrorIs(t, err, scanlog.ErrStorageUnavailable)
}

func TestSessionRestoreDoesNotRewrite(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	first := scanlog.NewSession(st, scanlog.DefaultFormat())
	for _, code := range []string{"A", "B"} {
		_, err := first.Add(ctx, code, baseTime)
		require.NoError(t, err)
	}
	writes := st.Writes()

	second := scanlog.NewSession(st, scanlog.DefaultFormat())
	n, err := second.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, first.Entries(), second.Entries())
	assert.Equal(t, writes, st.Writes())
}

func TestSessionRestoreWithoutLoader(t *testing.T) {
	s := scanlog.NewSession(&appendOnly{}, scanlog.DefaultFormat())
	n, err := s.Restore(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "No entries to save.", scanlog.Describe(scanlog.ErrNothingToExport))
	wrapped := fmt.Errorf("appending: %w", errors.Join(scanlog.ErrWriteFailed, os.ErrClosed))
	assert.Equal(t, "Failed to write to file. See the log for details.", scanlog.Describe(wrapped))
	assert.Empty(t, scanlog.Describe(nil))
}
