package widgets

import (
	"fmt"
	"testing"
	"time"

	"github.com/Qendolin/rfid-scan-logger/pkg/core/scanlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanListNewestFirst(t *testing.T) {
	format := scanlog.DefaultFormat()
	at := time.Date(2026, 10, 17, 14, 3, 5, 0, time.Local)

	var entries []scanlog.Entry
	for i := 0; i < 5; i++ {
		entries = append(entries, format.NewEntry(fmt.Sprintf("CODE%d", i), at.Add(time.Duration(i)*time.Second)))
	}

	list := NewScanList("Scans")
	list.SetEntries(entries, format)

	lines := list.Lines()
	require.Len(t, lines, 5)
	assert.Equal(t, "17/10/2026 14:03:09 CODE4", lines[0])
	assert.Equal(t, "17/10/2026 14:03:05 CODE0", lines[4])
	assert.Equal(t, " Scans (5) ", list.GetTitle())
}

func TestScanListRerenderReplaces(t *testing.T) {
	format := scanlog.Format{TimeLayout: scanlog.DefaultTimeLayout, Separator: " - "}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)

	list := NewScanList("Scans")
	list.SetEntries([]scanlog.Entry{format.NewEntry("A", at), format.NewEntry("B", at)}, format)
	list.SetEntries([]scanlog.Entry{format.NewEntry("A", at)}, format)

	assert.Equal(t, []string{"02/01/2026 03:04:05 - A"}, list.Lines())

	list.SetEntries(nil, format)
	assert.Empty(t, list.Lines())
	assert.Equal(t, " Scans (0) ", list.GetTitle())
}

func TestMatchRows(t *testing.T) {
	rows := [][]string{
		{"10:00:00", "INFO", "App: started"},
		{"10:00:01", "ERROR", "FileStore: write failed"},
		{"10:00:02", "WARN", "App: slow"},
	}
	assert.Equal(t, []int{0, 1, 2}, matchRows(rows, ""))
	assert.Equal(t, []int{1}, matchRows(rows, "error"))
	assert.Equal(t, []int{0, 2}, matchRows(rows, " app: "))
	assert.Empty(t, matchRows(rows, "missing"))
}

func TestFilterTableHidesRows(t *testing.T) {
	ft := NewFilterTable("Time", "Level", "Message")
	ft.SetRows([][]string{
		{"10:00:00", "INFO", "one"},
		{"10:00:01", "WARN", "two"},
	}, nil)
	assert.Equal(t, 2, ft.VisibleRows())

	ft.Filter.SetText("warn")
	assert.Equal(t, 1, ft.VisibleRows())
	assert.Equal(t, "two", ft.Table.GetCell(1, 2).Text)
}
