package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Qendolin/rfid-scan-logger/pkg/logging"
	"github.com/Qendolin/rfid-scan-logger/pkg/ui/widgets"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

type DialogManager struct {
	app AppInterface
}

func NewDialogManager(app AppInterface) *DialogManager {
	return &DialogManager{app: app}
}

// show opens box as a modal. The done handler runs on the UI thread after
// the modal was closed.
func (m *DialogManager) show(pageID, title string, box *widgets.MessageBox, done func(index int, label string)) {
	box.SetDoneFunc(func(index int, label string) {
		go m.app.QueueUpdateDraw(func() {
			m.app.Navigation().CloseModal()
			if done != nil {
				done(index, label)
			}
		})
	})
	box.SetTitle(" " + title + " ").SetTitleAlign(tview.AlignLeft)
	m.app.Navigation().ShowModal(pageID, NewModalPage(box))
}

// ShowErrorDialog displays a modal dialog with an error message. The error
// chain, if any, is listed below the message.
func (m *DialogManager) ShowErrorDialog(title, message string, err error, onDismiss func()) {
	box := widgets.NewMessageBox().SetMessage(message).AddButtons("Dismiss")
	if err != nil {
		box.SetDetails(tview.Escape(formatErrorChain(err)))
	}
	box.SetColors(tcell.ColorWhite, tcell.ColorDarkRed)
	m.show("error_dialog", title, box, func(int, string) {
		if onDismiss != nil {
			onDismiss()
		}
	})
}

// ShowQuitDialog displays a confirmation dialog before quitting.
func (m *DialogManager) ShowQuitDialog() {
	box := widgets.NewMessageBox().
		SetMessage("Are you sure you want to quit?").
		AddButtons("Cancel", "Quit")
	m.show("quit_dialog", "Quit", box, func(index int, _ string) {
		if index == 1 {
			logging.Info("App: Quitting.")
			m.app.Stop()
		}
	})
}

// ShowQuestionDialog asks a yes/no question. Cancelling counts as No.
func (m *DialogManager) ShowQuestionDialog(title, question, details string, onYes func(), onNo func()) {
	box := widgets.NewMessageBox().
		SetMessage(question).
		SetDetails(details).
		AddButtons("No", "Yes")
	m.show("yes_no_dialog", title, box, func(_ int, label string) {
		if label == "Yes" {
			if onYes != nil {
				onYes()
			}
		} else if onNo != nil {
			onNo()
		}
	})
}

// ShowInfoDialog displays a modal dialog with a neutral informational message.
func (m *DialogManager) ShowInfoDialog(title, message, details string, onDismiss func()) {
	box := widgets.NewMessageBox().
		SetMessage(message).
		SetDetails(details).
		AddButtons("OK")
	m.show("info_dialog", title, box, func(int, string) {
		if onDismiss != nil {
			onDismiss()
		}
	})
}

// ShowPromptDialog asks for a single line of text. onSubmit receives the
// entered text; onCancel runs when the dialog is dismissed without it.
func (m *DialogManager) ShowPromptDialog(pageID, title, message, label, initial string, onSubmit func(text string), onCancel func()) {
	box := widgets.NewMessageBox().
		SetMessage(message).
		SetInput(label, initial, "").
		AddButtons("Cancel", "OK")
	m.show(pageID, title, box, func(index int, _ string) {
		if index == 1 {
			if onSubmit != nil {
				onSubmit(box.InputText())
			}
		} else if onCancel != nil {
			onCancel()
		}
	})
}

// ModalPage wraps a message box to conform to the Page interface.
type ModalPage struct {
	*widgets.MessageBox
}

// NewModalPage creates a new ModalPage.
func NewModalPage(box *widgets.MessageBox) *ModalPage {
	return &ModalPage{MessageBox: box}
}

// GetActionPrompts returns an empty list as modals have their own buttons.
func (p *ModalPage) GetActionPrompts() []ActionPrompt {
	return []ActionPrompt{}
}

// GetStatusPrimitive returns nil; modals keep an empty status line.
func (p *ModalPage) GetStatusPrimitive() *tview.TextView {
	return nil
}

// formatErrorChain unwraps a chain of Go errors and formats them
// into a multi-line string, with each level of the error on a new line.
// Errors wrapping several causes are followed along their last one.
func formatErrorChain(err error) string {
	var b strings.Builder
	indent := ""
	for err != nil {
		next := unwrapCause(err)
		msg := err.Error()
		if next != nil {
			nextMsg := next.Error()
			if i := strings.LastIndex(msg, nextMsg); i > 0 {
				msg = strings.TrimSuffix(strings.TrimSpace(msg[:i]), ":")
			}
		}
		fmt.Fprintf(&b, "%s- %s", indent, msg)
		if next != nil {
			b.WriteRune('\n')
		}
		indent += " "
		err = next
	}
	return b.String()
}

func unwrapCause(err error) error {
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		if errs := multi.Unwrap(); len(errs) > 0 {
			return errs[len(errs)-1]
		}
		return nil
	}
	return errors.Unwrap(err)
}
