package logging

import (
	"fmt"
	"time"
)

// LogLevel defines the severity of a log entry.
type LogLevel int

// Enum for log levels. The order is important for filtering.
const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of a LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Color returns the tview color tag name used to highlight the level.
func (l LogLevel) Color() string {
	switch l {
	case LevelDebug:
		return "gray"
	case LevelWarn:
		return "yellow"
	case LevelError:
		return "red"
	default:
		return "white"
	}
}

// LogEntry represents a single, structured log message.
type LogEntry struct {
	Timestamp time.Time
	Level     LogLevel
	Message   string
}

// Format renders the entry as a single plain-text log line.
func (e LogEntry) Format(sessionID string) string {
	if sessionID == "" {
		return fmt.Sprintf("%s %-5s %s", e.Timestamp.Format("15:04:05.000"), e.Level, e.Message)
	}
	return fmt.Sprintf("%s %-5s [%s] %s", e.Timestamp.Format("15:04:05.000"), e.Level, sessionID, e.Message)
}
