package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Qendolin/rfid-scan-logger/pkg/logging"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// LayoutManager handles the overall visual structure of the application:
// a header with the page status and log counters, the pages and a footer
// with key hints.
type LayoutManager struct {
	app    AppInterface
	root   *tview.Flex
	header *tview.Flex
	status *tview.Flex
	footer *tview.TextView
	pages  *tview.Pages

	errorCounters    *tview.TextView
	prevErrorCount   int
	prevWarningCount int
}

// NewLayoutManager creates the layout and starts polling the log counters
// until ctx is done.
func NewLayoutManager(app AppInterface, ctx context.Context) *LayoutManager {
	lm := &LayoutManager{
		app:              app,
		pages:            tview.NewPages(),
		root:             tview.NewFlex().SetDirection(tview.FlexRow),
		header:           tview.NewFlex(),
		footer:           tview.NewTextView().SetDynamicColors(true),
		errorCounters:    tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignRight),
		prevErrorCount:   -1,
		prevWarningCount: -1,
	}
	lm.setupLayout()
	go lm.startErrorCounterPolling(ctx)
	return lm
}

// RootPrimitive returns the main primitive that should be set as the application's root.
func (lm *LayoutManager) RootPrimitive() tview.Primitive {
	return lm.root
}

// Pages returns the tview.Pages container for content.
func (lm *LayoutManager) Pages() *tview.Pages {
	return lm.pages
}

func (lm *LayoutManager) setupLayout() {
	lm.status = tview.NewFlex().SetDirection(tview.FlexRow)
	lm.SetHeader(nil)

	lm.header.AddItem(tview.NewBox(), 1, 0, false).
		AddItem(lm.status, 0, 1, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(lm.errorCounters, 26, 0, false).
		AddItem(tview.NewBox(), 1, 0, false)

	lm.root.SetBorder(true).
		SetTitle(" RFID Scan Logger ").
		SetTitleAlign(tview.AlignLeft)

	lm.root.AddItem(lm.header, 1, 0, false).
		AddItem(lm.pages, 0, 1, true).
		AddItem(lm.footer, 1, 0, false)

	lm.SetErrorCounters(0, 0)
}

func (lm *LayoutManager) startErrorCounterPolling(ctx context.Context) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	lastWarn, lastErr := 0, 0
	for {
		select {
		case <-ticker.C:
			logger := lm.app.GetLogger()
			if logger == nil {
				continue
			}
			warnCount := logger.Store().Count(logging.LevelWarn)
			errorCount := logger.Store().Count(logging.LevelError)
			// prevent unnecessary draws
			if warnCount == lastWarn && errorCount == lastErr {
				continue
			}
			lastWarn, lastErr = warnCount, errorCount
			go lm.app.QueueUpdateDraw(func() {
				lm.SetErrorCounters(warnCount, errorCount)
			})
		case <-ctx.Done():
			logging.Debugf("LayoutManager: Stopping error counter polling.")
			return
		}
	}
}

// SetErrorCounters updates the warning and error counters. Must be called
// on the UI thread.
func (lm *LayoutManager) SetErrorCounters(warnCount, errorCount int) {
	if lm.prevErrorCount == errorCount && lm.prevWarningCount == warnCount {
		return
	}
	lm.prevErrorCount = errorCount
	lm.prevWarningCount = warnCount

	lm.errorCounters.SetText(fmt.Sprintf("[yellow]Warnings: %s [red]Errors: %s",
		counterBadge(warnCount, tcell.ColorYellow), counterBadge(errorCount, tcell.ColorRed)))
}

func counterBadge(count int, color tcell.Color) string {
	if count == 0 {
		return "[white:black]0[-:-:-]"
	}
	return fmt.Sprintf("[black:%s]%d[-:-:-]", color.Name(), count)
}

// GlobalPrompts are the key hints shown on every page.
var GlobalPrompts = []ActionPrompt{{"Ctrl+C", "Quit"}, {"Ctrl+L", "Logs"}}

// SetFooter updates the key hints. nil hides them.
func (lm *LayoutManager) SetFooter(prompts []ActionPrompt) {
	if prompts == nil {
		lm.footer.SetText("")
		return
	}
	lm.footer.SetText(FormatPrompts(append(append([]ActionPrompt{}, GlobalPrompts...), prompts...)))
}

// FormatPrompts renders key hints as a single tagged line.
func FormatPrompts(prompts []ActionPrompt) string {
	parts := make([]string, len(prompts))
	for i, prompt := range prompts {
		parts[i] = fmt.Sprintf("[darkcyan::b]%s[-:-:-]: %s", prompt.Input, prompt.Action)
	}
	return strings.Join(parts, " | ")
}

// SetHeader replaces the status view in the header.
func (lm *LayoutManager) SetHeader(p *tview.TextView) {
	if p == nil {
		p = tview.NewTextView().SetDynamicColors(true)
	}
	lm.status.Clear()
	lm.status.AddItem(p, 0, 1, false)
}
