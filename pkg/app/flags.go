package app

import "github.com/spf13/pflag"

// Flags are the command-line overrides for Config. A flag only replaces the
// configured value when it was given explicitly.
type Flags struct {
	fs *pflag.FlagSet

	ConfigPath string
	store      string
	logFile    string
	dbPath     string
	key        string
	separator  string
	timeLayout string
	exportDir  string
	logDir     string
	verbose    bool
}

// RegisterFlags defines the configuration flags on fs.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	d := DefaultConfig()
	f := &Flags{fs: fs}
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "Path to a .json, .json5 or .toml config file.")
	fs.StringVar(&f.store, "store", string(d.Store), "Where the log is kept: file, kv or memory.")
	fs.StringVarP(&f.logFile, "file", "f", "", "Log file to append scans to (file store).")
	fs.StringVar(&f.dbPath, "db", d.DBPath, "SQLite database path (kv store).")
	fs.StringVar(&f.key, "key", d.Key, "Key the log is stored under (kv store).")
	fs.StringVar(&f.separator, "separator", d.Separator, "Text between timestamp and code.")
	fs.StringVar(&f.timeLayout, "time-format", d.TimeLayout, "Go time layout for timestamps.")
	fs.StringVar(&f.exportDir, "export-dir", d.ExportDir, "Directory exports are written to.")
	fs.StringVar(&f.logDir, "log-dir", d.LogDir, "Directory to store diagnostic log files.")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Enable verbose (debug) logging.")
	return f
}

// Resolve loads the config file, applies explicit flags and validates the result.
func (f *Flags) Resolve() (*Config, error) {
	cfg, err := LoadConfig(f.ConfigPath)
	if err != nil {
		return nil, err
	}
	f.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply copies every explicitly set flag into cfg.
func (f *Flags) Apply(cfg *Config) {
	if f.changed("store") {
		cfg.Store = StoreKind(f.store)
	}
	if f.changed("file") {
		cfg.LogFile = f.logFile
		if !f.changed("store") {
			cfg.Store = StoreFile
		}
	}
	if f.changed("db") {
		cfg.DBPath = f.dbPath
	}
	if f.changed("key") {
		cfg.Key = f.key
	}
	if f.changed("separator") {
		cfg.Separator = f.separator
	}
	if f.changed("time-format") {
		cfg.TimeLayout = f.timeLayout
	}
	if f.changed("export-dir") {
		cfg.ExportDir = f.exportDir
	}
	if f.changed("log-dir") {
		cfg.LogDir = f.logDir
	}
	if f.changed("verbose") {
		cfg.Verbose = f.verbose
	}
}

func (f *Flags) changed(name string) bool {
	flag := f.fs.Lookup(name)
	return flag != nil && flag.Changed
}
