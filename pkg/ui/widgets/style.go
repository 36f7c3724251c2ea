package widgets

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

var (
	DefaultButtonStyle         = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	DefaultButtonActiveStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorBlue).Underline(true)
	DefaultButtonDisabledStyle = tcell.StyleDefault.Foreground(tcell.ColorLightGray).Background(tcell.ColorDarkGray)
)

func DefaultStyleButton(button *tview.Button) {
	button.SetStyle(DefaultButtonStyle)
	button.SetActivatedStyle(DefaultButtonActiveStyle)
	button.SetDisabledStyle(DefaultButtonDisabledStyle)
}

// DefaultStyleInput highlights the field while it holds focus. onBlur, if
// set, runs after the field lost focus.
func DefaultStyleInput(field *tview.InputField, onBlur func()) {
	field.SetFieldTextColor(tcell.ColorBlack).
		SetPlaceholderTextColor(tcell.ColorGray).
		SetFieldBackgroundColor(tcell.ColorSlateGray)
	field.SetFocusFunc(func() {
		field.SetFieldBackgroundColor(tcell.ColorBlue)
	})
	field.SetBlurFunc(func() {
		field.SetFieldBackgroundColor(tcell.ColorSlateGray)
		if onBlur != nil {
			onBlur()
		}
	})
}
