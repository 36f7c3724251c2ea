package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/Qendolin/rfid-scan-logger/pkg/core/scanlog"
	sqlitestore "github.com/Qendolin/rfid-scan-logger/pkg/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStore_LoadMissingKey(t *testing.T) {
	conn := openTestDB(t)
	st := sqlitestore.NewKVStore(conn, newTestWriter(t, conn), "")

	assert.Equal(t, sqlitestore.DefaultKey, st.Key())
	entries, err := st.LoadEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestKVStore_ReplaceThenLoad(t *testing.T) {
	conn := openTestDB(t)
	st := sqlitestore.NewKVStore(conn, newTestWriter(t, conn), "rfidLog")
	ctx := context.Background()

	want := []scanlog.Entry{
		{Timestamp: "17/10/2026 09:00:00", Code: "AAA"},
		{Timestamp: "17/10/2026 09:00:01", Code: "BBB"},
	}
	require.NoError(t, st.ReplaceEntries(ctx, want[:1]))
	require.NoError(t, st.ReplaceEntries(ctx, want))

	got, err := st.LoadEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	var rows int
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestKVStore_StoredValueIsCodeTimestampPairs(t *testing.T) {
	conn := openTestDB(t)
	st := sqlitestore.NewKVStore(conn, newTestWriter(t, conn), "")
	ctx := context.Background()

	require.NoError(t, st.ReplaceEntries(ctx, []scanlog.Entry{{Timestamp: "ts", Code: "c1"}}))

	var value string
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, sqlitestore.DefaultKey).Scan(&value))
	assert.JSONEq(t, `[{"code":"c1","timestamp":"ts"}]`, value)
}

func TestKVStore_Clear(t *testing.T) {
	conn := openTestDB(t)
	st := sqlitestore.NewKVStore(conn, newTestWriter(t, conn), "")
	ctx := context.Background()

	require.NoError(t, st.ReplaceEntries(ctx, []scanlog.Entry{{Timestamp: "ts", Code: "c1"}}))
	require.NoError(t, st.ClearEntries(ctx))

	entries, err := st.LoadEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestKVStore_KeysAreIndependent(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	a := sqlitestore.NewKVStore(conn, w, "a")
	b := sqlitestore.NewKVStore(conn, w, "b")
	ctx := context.Background()

	require.NoError(t, a.ReplaceEntries(ctx, []scanlog.Entry{{Timestamp: "ts", Code: "only-a"}}))
	require.NoError(t, b.ClearEntries(ctx))

	got, err := a.LoadEntries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "only-a", got[0].Code)
}

func TestKVStore_WriteAfterWorkerClosed(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	st := sqlitestore.NewKVStore(conn, w, "")
	w.Close()

	err := st.ReplaceEntries(context.Background(), nil)
	assert.ErrorIs(t, err, scanlog.ErrStorageUnavailable)
}

func TestKVStore_SessionReloadRestoresOrder(t *testing.T) {
	conn := openTestDB(t)
	st := sqlitestore.NewKVStore(conn, newTestWriter(t, conn), "")
	ctx := context.Background()
	at := time.Date(2026, 10, 17, 9, 0, 0, 0, time.Local)

	first := scanlog.NewSession(st, scanlog.DefaultFormat())
	for i, code := range []string{"A", "B", "C"} {
		_, err := first.Add(ctx, code, at.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}

	second := scanlog.NewSession(st, scanlog.DefaultFormat())
	n, err := second.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, first.Entries(), second.Entries())

	// Restoring must not duplicate what is stored.
	stored, err := st.LoadEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}
