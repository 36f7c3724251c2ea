package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Qendolin/rfid-scan-logger/pkg/core/scanlog"
	"github.com/Qendolin/rfid-scan-logger/pkg/db"
	"github.com/Qendolin/rfid-scan-logger/pkg/logging"
	"github.com/Qendolin/rfid-scan-logger/pkg/store/filelog"
	"github.com/Qendolin/rfid-scan-logger/pkg/store/memory"
	"github.com/Qendolin/rfid-scan-logger/pkg/store/sqlite"
)

// Backend is the store selected by the config together with the resources
// it holds open.
type Backend struct {
	Store scanlog.Store
	// File is set when the log is appended to a user-selected file.
	File *filelog.Store

	closers []func() error
}

// OpenBackend opens the store named by cfg.Store. Storage that cannot be
// used is not fatal: a pre-selected log file that fails is left unselected,
// and a database that cannot be opened is replaced by the memory store. In
// both cases the usable backend is returned together with the error.
func OpenBackend(ctx context.Context, cfg *Config) (*Backend, error) {
	b := &Backend{}
	switch cfg.Store {
	case StoreFile:
		b.File = filelog.New(cfg.Format())
		b.Store = b.File
		if cfg.LogFile != "" {
			if err := b.File.Select(cfg.LogFile); err != nil {
				return b, err
			}
		}
	case StoreKV:
		conn, err := db.Open(ctx, cfg.DBPath)
		if err != nil {
			b.Store = memory.New()
			logging.Errorf("App: Could not open %s, keeping scans in memory only: %v", cfg.DBPath, err)
			return b, fmt.Errorf("opening %s: %w: %w", cfg.DBPath, scanlog.ErrStorageUnavailable, err)
		}
		writer := db.NewWorker(conn)
		b.Store = sqlite.NewKVStore(conn, writer, cfg.Key)
		b.closers = append(b.closers,
			func() error { writer.Close(); return nil },
			conn.Close)
	case StoreMemory:
		b.Store = memory.New()
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
	logging.Infof("App: Using %s store: %s", cfg.Store, b.Store.Name())
	return b, nil
}

// Close releases the backend's resources in opening order.
func (b *Backend) Close() error {
	var errs []error
	for _, c := range b.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
