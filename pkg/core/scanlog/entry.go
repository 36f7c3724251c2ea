package scanlog

import (
	"strings"
	"time"
)

const (
	// DefaultTimeLayout renders timestamps as DD/MM/YYYY HH:MM:SS.
	DefaultTimeLayout = "02/01/2006 15:04:05"
	// DefaultSeparator sits between the timestamp and the code of a line.
	DefaultSeparator = " "
)

// Entry is a single timestamped scan. Entries are never modified after creation.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Code      string `json:"code"`
}

// Format controls how entries are timestamped and rendered as text lines.
type Format struct {
	TimeLayout string
	Separator  string
}

// DefaultFormat returns the format used when nothing is configured.
func DefaultFormat() Format {
	return Format{TimeLayout: DefaultTimeLayout, Separator: DefaultSeparator}
}

// NewEntry timestamps a code. The code is stored as given.
func (f Format) NewEntry(code string, at time.Time) Entry {
	return Entry{Timestamp: f.Timestamp(at), Code: code}
}

// Timestamp formats t in local time.
func (f Format) Timestamp(t time.Time) string {
	layout := f.TimeLayout
	if layout == "" {
		layout = DefaultTimeLayout
	}
	return t.Local().Format(layout)
}

// Line renders an entry as "{timestamp}{separator}{code}".
func (f Format) Line(e Entry) string {
	return e.Timestamp + f.Separator + e.Code
}

var fileNameReplacer = strings.NewReplacer("/", "_", ":", "_", " ", "_")

// ExportFileName derives an export file name from the export time,
// e.g. "17_10_2026_14_03_05.txt".
func (f Format) ExportFileName(now time.Time) string {
	return fileNameReplacer.Replace(f.Timestamp(now)) + ".txt"
}
