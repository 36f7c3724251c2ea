package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Qendolin/rfid-scan-logger/pkg/core/scanlog"
	dbpkg "github.com/Qendolin/rfid-scan-logger/pkg/db"
)

// DefaultKey is the key the log is stored under.
const DefaultKey = "rfidLog"

// KVStore keeps the whole log as one JSON array under a single key of the kv
// table and rewrites it on every change.
type KVStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
	key    string
}

func NewKVStore(db *sql.DB, writer *dbpkg.Worker, key string) *KVStore {
	if key == "" {
		key = DefaultKey
	}
	return &KVStore{db: db, writer: writer, key: key}
}

func (s *KVStore) Name() string { return "local storage '" + s.key + "'" }

// Key returns the key the log is stored under.
func (s *KVStore) Key() string { return s.key }

func (s *KVStore) ReplaceEntries(ctx context.Context, entries []scanlog.Entry) error {
	if entries == nil {
		entries = []scanlog.Entry{}
	}
	value, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("ReplaceEntries encode: %w", err)
	}
	nowMs := time.Now().UTC().UnixMilli()

	err = s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO kv(key, value, updated_at_ms) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  value = excluded.value,
  updated_at_ms = excluded.updated_at_ms;
`, s.key, string(value), nowMs)
		return err
	})
	if err != nil {
		return fmt.Errorf("ReplaceEntries upsert %q: %w: %w", s.key, scanlog.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *KVStore) LoadEntries(ctx context.Context) ([]scanlog.Entry, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?;`, s.key).Scan(&value)
	if err == sql.ErrNoRows {
		return []scanlog.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("LoadEntries select %q: %w: %w", s.key, scanlog.ErrStorageUnavailable, err)
	}

	var entries []scanlog.Entry
	if err := json.Unmarshal([]byte(value), &entries); err != nil {
		return nil, fmt.Errorf("LoadEntries decode %q: %w: %w", s.key, scanlog.ErrStorageUnavailable, err)
	}
	if entries == nil {
		entries = []scanlog.Entry{}
	}
	return entries, nil
}

func (s *KVStore) ClearEntries(ctx context.Context) error {
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?;`, s.key)
		return err
	})
	if err != nil {
		return fmt.Errorf("ClearEntries delete %q: %w: %w", s.key, scanlog.ErrStorageUnavailable, err)
	}
	return nil
}
