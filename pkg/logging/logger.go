package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Logger is a central logger that writes to a store and an optional io.Writer.
type Logger struct {
	mu        sync.Mutex
	store     *LogStore
	writer    io.Writer
	goLog     *log.Logger
	debug     bool
	sessionID string
}

// NewLogger creates and initializes a new Logger instance.
func NewLogger() *Logger {
	l := &Logger{
		store:  newLogStore(DefaultStoreCapacity),
		writer: io.Discard, // Default to discarding output
	}
	l.goLog = log.New(l, "", 0) // The logger will write through our Write method
	return l
}

// Write implements the io.Writer interface. This allows the standard log package
// to write through our logger, which will then dispatch to the configured writer.
func (l *Logger) Write(p []byte) (n int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writer == nil {
		return len(p), nil
	}
	return l.writer.Write(p)
}

// SetWriter sets the output destination for the logger.
func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

// SetSessionID tags every following log line with id.
func (l *Logger) SetSessionID(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sessionID = id
}

// SessionID returns the identifier written into log lines.
func (l *Logger) SessionID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sessionID
}

// Store returns the internal LogStore.
func (l *Logger) Store() *LogStore {
	return l.store
}

// SetDebug enables or disables debug-level logging.
func (l *Logger) SetDebug(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = enable
}

func (l *Logger) IsDebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

// OpenFile creates dir if needed and opens a new, timestamped log file in it
// as the logger's writer. The caller closes the returned file.
func (l *Logger) OpenFile(dir, prefix string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %s: %w", dir, err)
	}
	name := fmt.Sprintf("%s-%s.log", prefix, time.Now().Format("2006-01-02_15-04-05"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o666)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	l.SetWriter(f)
	return f, nil
}

func (l *Logger) emit(level LogLevel, message string) {
	if level == LevelDebug && !l.IsDebugEnabled() {
		return
	}
	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
	}
	l.store.Add(entry)
	l.goLog.Println(entry.Format(l.SessionID()))
}

// log is the internal handler for variadic logging.
func (l *Logger) log(level LogLevel, v ...interface{}) {
	l.emit(level, strings.TrimSpace(fmt.Sprintln(v...)))
}

// logf is the internal handler for formatted logging.
func (l *Logger) logf(level LogLevel, format string, v ...interface{}) {
	l.emit(level, fmt.Sprintf(format, v...))
}

// Info logs an informational message.
func (l *Logger) Info(v ...interface{}) {
	l.log(LevelInfo, v...)
}

// Infof logs a formatted informational message.
func (l *Logger) Infof(format string, v ...interface{}) {
	l.logf(LevelInfo, format, v...)
}

// Warn logs a warning message.
func (l *Logger) Warn(v ...interface{}) {
	l.log(LevelWarn, v...)
}

// Warnf logs a formatted warning message.
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.logf(LevelWarn, format, v...)
}

// Error logs an error message.
func (l *Logger) Error(v ...interface{}) {
	l.log(LevelError, v...)
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.logf(LevelError, format, v...)
}

// Debug logs a debug message.
func (l *Logger) Debug(v ...interface{}) {
	l.log(LevelDebug, v...)
}

// Debugf logs a formatted debug message.
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.logf(LevelDebug, format, v...)
}

// ---- Global / Default Logger ----

var defaultLogger = NewLogger()

// SetDefault replaces the default logger instance.
func SetDefault(logger *Logger) {
	if logger != nil {
		defaultLogger = logger
	}
}

// Info logs an informational message using the default logger.
func Info(v ...interface{}) {
	defaultLogger.Info(v...)
}

// Infof logs a formatted informational message using the default logger.
func Infof(format string, v ...interface{}) {
	defaultLogger.Infof(format, v...)
}

// Warn logs a warning message using the default logger.
func Warn(v ...interface{}) {
	defaultLogger.Warn(v...)
}

// Warnf logs a formatted warning message using the default logger.
func Warnf(format string, v ...interface{}) {
	defaultLogger.Warnf(format, v...)
}

// Error logs an error message using the default logger.
func Error(v ...interface{}) {
	defaultLogger.Error(v...)
}

// Errorf logs a formatted error message using the default logger.
func Errorf(format string, v ...interface{}) {
	defaultLogger.Errorf(format, v...)
}

// Debug logs a debug message using the default logger.
func Debug(v ...interface{}) {
	defaultLogger.Debug(v...)
}

// Debugf logs a formatted debug message using the default logger.
func Debugf(format string, v ...interface{}) {
	defaultLogger.Debugf(format, v...)
}
