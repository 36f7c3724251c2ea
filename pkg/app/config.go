package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Qendolin/rfid-scan-logger/pkg/core/scanlog"
	"github.com/Qendolin/rfid-scan-logger/pkg/db"
	"github.com/Qendolin/rfid-scan-logger/pkg/store/sqlite"
	"github.com/pelletier/go-toml/v2"
	"github.com/titanous/json5"
)

// StoreKind selects where the scan log is persisted.
type StoreKind string

const (
	StoreFile   StoreKind = "file"
	StoreKV     StoreKind = "kv"
	StoreMemory StoreKind = "memory"
)

// Config holds all settings of a run. Values come from the defaults, an
// optional config file and finally the command line.
type Config struct {
	Store      StoreKind `json:"store" toml:"store"`
	LogFile    string    `json:"file" toml:"file"`
	DBPath     string    `json:"db" toml:"db"`
	Key        string    `json:"key" toml:"key"`
	Separator  string    `json:"separator" toml:"separator"`
	TimeLayout string    `json:"timeFormat" toml:"time_format"`
	ExportDir  string    `json:"exportDir" toml:"export_dir"`
	LogDir     string    `json:"logDir" toml:"log_dir"`
	Verbose    bool      `json:"verbose" toml:"verbose"`
}

// DefaultConfig returns the settings used when nothing else is given.
func DefaultConfig() *Config {
	return &Config{
		Store:      StoreKV,
		DBPath:     db.DefaultPath,
		Key:        sqlite.DefaultKey,
		Separator:  scanlog.DefaultSeparator,
		TimeLayout: scanlog.DefaultTimeLayout,
		ExportDir:  ".",
		LogDir:     ".",
	}
}

// LoadConfig reads the config file at path on top of the defaults. Files
// ending in .toml are decoded as TOML, everything else as JSON5.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = json5.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreKV, StoreMemory:
	default:
		return fmt.Errorf("unknown store %q (want file, kv or memory)", c.Store)
	}
	if strings.TrimSpace(c.TimeLayout) == "" {
		return fmt.Errorf("time format must not be empty")
	}
	if c.Store == StoreKV && c.DBPath == "" {
		return fmt.Errorf("kv store needs a database path")
	}
	if c.ExportDir == "" {
		c.ExportDir = "."
	}
	return nil
}

// Format returns the entry format described by the config.
func (c *Config) Format() scanlog.Format {
	return scanlog.Format{TimeLayout: c.TimeLayout, Separator: c.Separator}
}
