package sqlite_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Qendolin/rfid-scan-logger/pkg/db"
)

// openTestDB returns a migrated in-memory database private to the test.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	name := "test_" + strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := db.OpenMemory(context.Background(), name)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// newTestWriter returns a db.Worker closed when the test finishes.
func newTestWriter(t *testing.T, conn *sql.DB) *db.Worker {
	t.Helper()

	w := db.NewWorker(conn)
	t.Cleanup(w.Close)
	return w
}
