package pages

import (
	"context"
	"fmt"
	"time"

	"github.com/Qendolin/rfid-scan-logger/pkg/ui"
	"github.com/Qendolin/rfid-scan-logger/pkg/ui/widgets"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// LogPage lists the diagnostic log of this run.
type LogPage struct {
	*tview.Flex
	app        ui.AppInterface
	statusText *tview.TextView
	table      *widgets.FilterTable
}

// NewLogPage creates the log page. While ctx is alive it picks up new log
// entries periodically.
func NewLogPage(ctx context.Context, app ui.AppInterface) *LogPage {
	p := &LogPage{
		Flex:       tview.NewFlex().SetDirection(tview.FlexRow),
		app:        app,
		statusText: tview.NewTextView().SetDynamicColors(true),
		table:      widgets.NewFilterTable("Time", "Level", "Message"),
	}
	p.table.SetBorder(true).SetTitle(" Log ").SetTitleAlign(tview.AlignLeft)
	p.AddItem(p.table, 0, 1, true)

	p.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			go app.QueueUpdateDraw(app.Navigation().GoBack)
			return nil
		}
		return event
	})

	go p.poll(ctx)
	return p
}

func (p *LogPage) poll(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	last := -1
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger := p.app.GetLogger()
			if logger == nil {
				continue
			}
			if total := logger.Store().Total(); total != last {
				last = total
				go p.app.QueueUpdateDraw(p.refresh)
			}
		}
	}
}

// refresh rebuilds the table from the log store. Must run on the UI thread.
func (p *LogPage) refresh() {
	logger := p.app.GetLogger()
	if logger == nil {
		return
	}
	entries := logger.Store().GetAll()
	rows := make([][]string, len(entries))
	colors := make([]tcell.Color, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Timestamp.Format("15:04:05.000"), e.Level.String(), e.Message}
		colors[i] = tcell.GetColor(e.Level.Color())
	}
	p.table.SetRows(rows, colors)

	status := fmt.Sprintf("Diagnostic log: %d entries", len(entries))
	if id := logger.SessionID(); id != "" {
		status += fmt.Sprintf(", session [::b]%s[-:-:-]", id)
	}
	p.statusText.SetText(status)
}

// OnPageActivated implements ui.PageActivator.
func (p *LogPage) OnPageActivated() {
	p.refresh()
}

// GetActionPrompts returns the key actions for the log page.
func (p *LogPage) GetActionPrompts() []ui.ActionPrompt {
	return []ui.ActionPrompt{{Input: "ESC/Ctrl+L", Action: "Close Log"}, {Input: "Enter", Action: "Browse"}}
}

// GetStatusPrimitive returns the tview.Primitive that displays the page's status
func (p *LogPage) GetStatusPrimitive() *tview.TextView {
	return p.statusText
}
