package ui

import (
	"github.com/Qendolin/rfid-scan-logger/pkg/core/scanlog"
	"github.com/Qendolin/rfid-scan-logger/pkg/logging"
	"github.com/rivo/tview"
)

// ScanViewModel is a snapshot of the scan session for UI consumption.
type ScanViewModel struct {
	StoreName     string
	CanSelectFile bool   // the store appends to a user-selected file
	FilePath      string // selected file, "" when none
	Entries       []scanlog.Entry
	Format        scanlog.Format
}

// AppInterface defines methods the UI layer needs to access from the main App struct.
type AppInterface interface {
	// --- UI methods & Managers ---
	QueueUpdateDraw(f func()) *tview.Application
	Stop()
	Navigation() *NavigationManager
	Dialogs() *DialogManager
	Layout() *LayoutManager
	GetLogger() *logging.Logger
	GetFocus() tview.Primitive
	SetFocus(p tview.Primitive) *tview.Application

	// --- Core Logic ---
	GetViewModel() ScanViewModel

	// --- Actions ---
	SubmitScan(code string)
	SelectLogFile(path string)
	ExportLog()
	ClearLog()
}

