package ui

import "github.com/rivo/tview"

// Page IDs are constants used by the NavigationManager to identify pages.
const (
	PageScanID       = "scan_page"
	PageLogID        = "log_page"
	PageSelectFileID = "select_file_dialog"
)

type ActionPrompt struct {
	Input  string
	Action string
}

// Page is the interface that all UI pages must implement.
type Page interface {
	tview.Primitive
	GetActionPrompts() []ActionPrompt
	GetStatusPrimitive() *tview.TextView
}

// PageActivator defines an interface for pages that need to perform an action
// when they become the active page.
type PageActivator interface {
	OnPageActivated()
}
