package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesFileAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scan-logger.db")
	conn, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, conn.Close()) })

	var name string
	err = conn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='kv'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "kv", name)
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenMemory(ctx, "migrate_idempotent")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, Migrate(ctx, conn))

	var applied int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	ms, err := loadMigrations()
	require.NoError(t, err)
	assert.Equal(t, len(ms), applied)
}

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("0001_kv.sql")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = parseVersion("kv.sql")
	assert.Error(t, err)
	_, err = parseVersion("x1_kv.sql")
	assert.Error(t, err)
}

func TestWorkerRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenMemory(ctx, "worker_rollback")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	w := NewWorker(conn)
	t.Cleanup(w.Close)

	boom := errors.New("boom")
	err = w.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO kv(key, value, updated_at_ms) VALUES ('k', 'v', 0)`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM kv").Scan(&n))
	assert.Zero(t, n)
}

func TestWorkerDoAfterClose(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenMemory(ctx, "worker_closed")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	w := NewWorker(conn)
	w.Close()
	w.Close()

	err = w.Do(ctx, func(context.Context, *sql.Tx) error { return nil })
	assert.ErrorIs(t, err, ErrWorkerClosed)
}

func TestWorkerSkipsJobWithEndedContext(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenMemory(ctx, "worker_cancelled")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	w := NewWorker(conn)
	t.Cleanup(w.Close)

	// Hold the worker busy so the second job is queued before it runs.
	release := make(chan struct{})
	started := make(chan struct{})
	go w.Do(ctx, func(context.Context, *sql.Tx) error {
		close(started)
		<-release
		return nil
	})
	<-started

	jobCtx, cancel := context.WithCancel(ctx)
	result := make(chan error, 1)
	go func() {
		result <- w.Do(jobCtx, func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `INSERT INTO kv(key, value, updated_at_ms) VALUES ('k', 'v', 0)`)
			return err
		})
	}()
	require.Eventually(t, func() bool { return len(w.jobs) == 1 }, time.Second, time.Millisecond)
	cancel()
	close(release)

	assert.ErrorIs(t, <-result, context.Canceled)
	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM kv").Scan(&n))
	assert.Zero(t, n)
}

func TestWorkerCloseDrainsQueuedJobs(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenMemory(ctx, "worker_drain")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	w := NewWorker(conn)

	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			errs <- w.Do(ctx, func(context.Context, *sql.Tx) error { return nil })
		}()
	}
	w.Close()

	for i := 0; i < 10; i++ {
		err := <-errs
		if err != nil {
			assert.ErrorIs(t, err, ErrWorkerClosed)
		}
	}
}
