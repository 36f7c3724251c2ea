package widgets

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// MessageBox is a centered dialog window with a message, optional
// left-aligned details, an optional single-line input and a row of buttons.
// It sizes itself to its content on every draw.
type MessageBox struct {
	*tview.Flex

	message *tview.TextView
	details *tview.TextView
	input   *tview.InputField
	buttons *tview.Form

	minWidth int
	maxWidth int

	done func(buttonIndex int, buttonLabel string)
}

// NewMessageBox returns an empty message box.
func NewMessageBox() *MessageBox {
	m := &MessageBox{
		Flex:     tview.NewFlex().SetDirection(tview.FlexRow),
		message:  tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter),
		details:  tview.NewTextView().SetDynamicColors(true).SetWordWrap(false),
		buttons:  tview.NewForm().SetButtonsAlign(tview.AlignCenter),
		minWidth: 40,
		maxWidth: 100,
	}
	m.SetBorder(true).SetBorderPadding(1, 1, 1, 1)
	m.buttons.SetBorderPadding(1, 0, 0, 0)
	m.buttons.SetCancelFunc(func() { m.finish(-1, "") })

	m.AddItem(m.message, 1, 0, false).
		AddItem(m.details, 0, 0, false).
		AddItem(m.buttons, 2, 0, true)
	return m
}

func (m *MessageBox) finish(index int, label string) {
	if m.done != nil {
		m.done(index, label)
	}
}

// SetMessage sets the centered main text.
func (m *MessageBox) SetMessage(text string) *MessageBox {
	m.message.SetText(text)
	return m
}

// SetDetails sets the left-aligned text below the message.
func (m *MessageBox) SetDetails(text string) *MessageBox {
	m.details.SetText(text)
	return m
}

// SetInput adds a single-line input above the buttons. Enter in the input
// presses the last button, Escape cancels.
func (m *MessageBox) SetInput(label, text, placeholder string) *MessageBox {
	if m.input == nil {
		m.input = tview.NewInputField()
		DefaultStyleInput(m.input, nil)
		m.input.SetDoneFunc(func(key tcell.Key) {
			switch key {
			case tcell.KeyEnter:
				if n := m.buttons.GetButtonCount(); n > 0 {
					m.finish(n-1, m.buttons.GetButton(n-1).GetLabel())
				}
			case tcell.KeyEscape:
				m.finish(-1, "")
			}
		})
		m.RemoveItem(m.buttons)
		m.AddItem(m.input, 2, 0, true).
			AddItem(m.buttons, 2, 0, false)
	}
	m.input.SetLabel(label).SetText(text).SetPlaceholder(placeholder).SetFieldWidth(0)
	m.input.SetBorderPadding(1, 0, 0, 0)
	return m
}

// InputText returns the current text of the input, or "" without one.
func (m *MessageBox) InputText() string {
	if m.input == nil {
		return ""
	}
	return m.input.GetText()
}

// AddButtons appends buttons. Their index is passed to the done func.
func (m *MessageBox) AddButtons(labels ...string) *MessageBox {
	for _, label := range labels {
		index := m.buttons.GetButtonCount()
		m.buttons.AddButton(label, func() { m.finish(index, label) })
		DefaultStyleButton(m.buttons.GetButton(index))
	}
	return m
}

// SetDoneFunc sets the handler called when a button is pressed or the box is
// cancelled. Cancelling reports index -1.
func (m *MessageBox) SetDoneFunc(handler func(buttonIndex int, buttonLabel string)) *MessageBox {
	m.done = handler
	return m
}

// SetColors sets the text and background color of the whole box.
func (m *MessageBox) SetColors(text, background tcell.Color) *MessageBox {
	m.SetBackgroundColor(background)
	m.SetBorderColor(text).SetTitleColor(text)
	for _, tv := range []*tview.TextView{m.message, m.details} {
		tv.SetTextColor(text).SetBackgroundColor(background)
	}
	m.buttons.SetBackgroundColor(background)
	if m.input != nil {
		m.input.SetLabelColor(text).SetBackgroundColor(background)
	}
	return m
}

// Draw sizes and centers the box on the screen, then draws it.
func (m *MessageBox) Draw(screen tcell.Screen) {
	screenWidth, screenHeight := screen.Size()

	detailsText := m.details.GetText(true)
	width := screenWidth * 2 / 5
	for _, line := range strings.Split(detailsText, "\n") {
		width = max(width, tview.TaggedStringWidth(line)+4)
	}
	buttonsWidth := 0
	for i := 0; i < m.buttons.GetButtonCount(); i++ {
		buttonsWidth += tview.TaggedStringWidth(m.buttons.GetButton(i).GetLabel()) + 6
	}
	width = max(min(max(width, m.minWidth), m.maxWidth), buttonsWidth+4)
	width = min(width, screenWidth)

	inner := max(width-4, 1)
	messageHeight := wrappedHeight(m.message.GetText(true), inner)
	detailsHeight := wrappedHeight(detailsText, inner)
	if messageHeight > 0 && detailsHeight > 0 {
		detailsHeight++
		m.details.SetBorderPadding(1, 0, 0, 0)
	} else {
		m.details.SetBorderPadding(0, 0, 0, 0)
	}
	m.ResizeItem(m.message, messageHeight, 0)
	m.ResizeItem(m.details, detailsHeight, 0)

	height := messageHeight + detailsHeight + 2 + 4
	if m.input != nil {
		height += 2
	}
	height = min(height, screenHeight)

	m.SetRect((screenWidth-width)/2, (screenHeight-height)/2, width, height)
	m.Flex.Draw(screen)
}

func wrappedHeight(text string, width int) int {
	if text == "" {
		return 0
	}
	return len(tview.WordWrap(text, width))
}
