package pages

import (
	"fmt"
	"strings"

	"github.com/Qendolin/rfid-scan-logger/pkg/ui"
	"github.com/Qendolin/rfid-scan-logger/pkg/ui/widgets"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// ScanPage holds the always-focused scan input, the action buttons and the
// scan list.
type ScanPage struct {
	*tview.Flex
	app        ui.AppInterface
	statusText *tview.TextView

	Input         *tview.InputField
	List          *widgets.ScanList
	canSelectFile bool
}

// NewScanPage creates a new ScanPage instance.
func NewScanPage(app ui.AppInterface) *ScanPage {
	vm := app.GetViewModel()
	p := &ScanPage{
		Flex:          tview.NewFlex().SetDirection(tview.FlexRow),
		app:           app,
		statusText:    tview.NewTextView().SetDynamicColors(true),
		List:          widgets.NewScanList("Scanned Codes"),
		canSelectFile: vm.CanSelectFile,
	}

	p.Input = tview.NewInputField().
		SetLabel("RFID Code: ").
		SetPlaceholder("Scan a tag or type a code and press Enter").
		SetFieldWidth(0)
	widgets.DefaultStyleInput(p.Input, p.maintainFocus)
	p.Input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			p.submit()
		}
	})

	buttons := tview.NewFlex().SetDirection(tview.FlexColumn)
	addButton := func(label string, action func()) {
		button := tview.NewButton(label).SetSelectedFunc(action)
		widgets.DefaultStyleButton(button)
		buttons.AddItem(button, len(label)+4, 0, false).AddItem(nil, 1, 0, false)
	}
	addButton("Add Entry", p.submit)
	if p.canSelectFile {
		addButton("Select File", p.promptLogFile)
	}
	addButton("Save", app.ExportLog)
	addButton("Clear", app.ClearLog)
	buttons.AddItem(nil, 0, 1, false)

	controls := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.Input, 1, 0, true).
		AddItem(nil, 1, 0, false).
		AddItem(buttons, 1, 0, false)
	controls.SetBorderPadding(1, 1, 1, 1)

	p.AddItem(controls, 5, 0, true).
		AddItem(p.List, 0, 1, false)

	p.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlO:
			if p.canSelectFile {
				p.promptLogFile()
			}
			return nil
		case tcell.KeyCtrlS:
			app.ExportLog()
			return nil
		case tcell.KeyCtrlK:
			app.ClearLog()
			return nil
		}
		return event
	})

	p.RefreshScans()
	return p
}

// submit forwards a non-blank input to the app and clears the field.
// Blank input is ignored and left in place.
func (p *ScanPage) submit() {
	code := strings.TrimSpace(p.Input.GetText())
	if code == "" {
		p.maintainFocus()
		return
	}
	p.Input.SetText("")
	p.app.SubmitScan(code)
	p.maintainFocus()
}

// maintainFocus puts focus back on the scan input on the next event loop
// iteration unless a dialog or another page is in front.
func (p *ScanPage) maintainFocus() {
	go p.app.QueueUpdateDraw(func() {
		nav := p.app.Navigation()
		if nav.HasModal() || nav.CurrentPageID() != ui.PageScanID {
			return
		}
		if p.app.GetFocus() != p.Input {
			p.app.SetFocus(p.Input)
		}
	})
}

func (p *ScanPage) promptLogFile() {
	vm := p.app.GetViewModel()
	p.app.Dialogs().ShowPromptDialog(ui.PageSelectFileID, "Select Log File",
		"Enter the path of an existing file. New scans are appended to it.",
		"Path: ", vm.FilePath,
		func(text string) {
			path := strings.Trim(strings.TrimSpace(text), "\"")
			if path == "" {
				p.app.Dialogs().ShowErrorDialog("Error", "The file path cannot be empty.", nil, p.maintainFocus)
				return
			}
			p.app.SelectLogFile(path)
		},
		p.maintainFocus)
}

// ResetInput clears the input and restores focus to it.
func (p *ScanPage) ResetInput() {
	p.Input.SetText("")
	p.maintainFocus()
}

// RefreshScans re-renders the list and status line from the view model.
func (p *ScanPage) RefreshScans() {
	vm := p.app.GetViewModel()
	p.List.SetEntries(vm.Entries, vm.Format)

	switch {
	case !vm.CanSelectFile:
		p.statusText.SetText(fmt.Sprintf("Saving to [::b]%s[-:-:-]", tview.Escape(vm.StoreName)))
	case vm.FilePath == "":
		p.statusText.SetText("[yellow]No log file selected.[-] Scans are kept in memory until you select one (Ctrl+O).")
	default:
		p.statusText.SetText(fmt.Sprintf("Appending to [::b]%s[-:-:-]", tview.Escape(vm.FilePath)))
	}
}

// OnPageActivated implements ui.PageActivator.
func (p *ScanPage) OnPageActivated() {
	p.RefreshScans()
	p.maintainFocus()
}

// GetActionPrompts returns the key actions for the scan page.
func (p *ScanPage) GetActionPrompts() []ui.ActionPrompt {
	prompts := []ui.ActionPrompt{{Input: "Enter", Action: "Add Entry"}}
	if p.canSelectFile {
		prompts = append(prompts, ui.ActionPrompt{Input: "Ctrl+O", Action: "Select File"})
	}
	return append(prompts,
		ui.ActionPrompt{Input: "Ctrl+S", Action: "Save"},
		ui.ActionPrompt{Input: "Ctrl+K", Action: "Clear"})
}

// GetStatusPrimitive returns the tview.Primitive that displays the page's status
func (p *ScanPage) GetStatusPrimitive() *tview.TextView {
	return p.statusText
}
