package widgets

import (
	"fmt"

	"github.com/Qendolin/rfid-scan-logger/pkg/core/scanlog"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// ScanList shows the scan log newest first. It never takes focus away from
// the scan input, so it is drawn but not selectable.
type ScanList struct {
	*tview.List
	title string
}

func NewScanList(title string) *ScanList {
	l := &ScanList{
		List:  tview.NewList().ShowSecondaryText(false).SetWrapAround(false),
		title: title,
	}
	l.SetMainTextColor(tcell.ColorWhite).
		SetSelectedFocusOnly(true).
		SetHighlightFullLine(true)
	l.SetBorder(true).SetTitleAlign(tview.AlignLeft)
	l.SetEntries(nil, scanlog.DefaultFormat())
	return l
}

// SetEntries re-renders the list from entries in submission order.
func (l *ScanList) SetEntries(entries []scanlog.Entry, format scanlog.Format) {
	l.Clear()
	for i := len(entries) - 1; i >= 0; i-- {
		l.AddItem(tview.Escape(format.Line(entries[i])), "", 0, nil)
	}
	l.SetTitle(fmt.Sprintf(" %s (%d) ", l.title, len(entries)))
}

// Lines returns the rendered lines in display order.
func (l *ScanList) Lines() []string {
	lines := make([]string, l.GetItemCount())
	for i := range lines {
		lines[i], _ = l.GetItemText(i)
	}
	return lines
}
