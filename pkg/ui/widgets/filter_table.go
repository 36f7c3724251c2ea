package widgets

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// FilterTable is a read-only table with a filter input above it. Rows whose
// cells do not contain the filter text (case-insensitive) are hidden.
type FilterTable struct {
	*tview.Flex
	Table  *tview.Table
	Filter *tview.InputField

	headers []string
	rows    [][]string
	colors  []tcell.Color
}

// NewFilterTable creates a table with the given column headers. The last
// column takes the remaining width.
func NewFilterTable(headers ...string) *FilterTable {
	ft := &FilterTable{
		Flex:    tview.NewFlex().SetDirection(tview.FlexRow),
		Table:   tview.NewTable().SetSelectable(true, false).SetFixed(1, 0),
		Filter:  tview.NewInputField().SetLabel("Filter: ").SetPlaceholder("type to filter..."),
		headers: headers,
	}
	DefaultStyleInput(ft.Filter, nil)
	ft.Filter.SetChangedFunc(func(string) { ft.refresh() })

	ft.AddItem(ft.Filter, 1, 0, true).
		AddItem(ft.Table, 0, 1, false)
	ft.refresh()
	return ft
}

// Focus delegates to the filter input. Enter or Down moves into the table.
func (ft *FilterTable) Focus(delegate func(p tview.Primitive)) {
	ft.Filter.SetDoneFunc(func(key tcell.Key) {
		if (key == tcell.KeyEnter || key == tcell.KeyDown) && ft.Table.GetRowCount() > 1 {
			delegate(ft.Table)
		}
	})
	delegate(ft.Filter)
}

// SetRows replaces the table content. colors, if given, tints each row.
func (ft *FilterTable) SetRows(rows [][]string, colors []tcell.Color) {
	ft.rows = rows
	ft.colors = colors
	ft.refresh()
}

// VisibleRows returns the number of rows matching the current filter.
func (ft *FilterTable) VisibleRows() int {
	return ft.Table.GetRowCount() - 1
}

func (ft *FilterTable) refresh() {
	ft.Table.Clear()
	for col, header := range ft.headers {
		ft.Table.SetCell(0, col, tview.NewTableCell(header).
			SetSelectable(false).
			SetTextColor(tcell.ColorYellow).
			SetAttributes(tcell.AttrBold).
			SetExpansion(lastColumnExpansion(col, len(ft.headers))))
	}

	for _, i := range matchRows(ft.rows, ft.Filter.GetText()) {
		tableRow := ft.Table.GetRowCount()
		for col, text := range ft.rows[i] {
			cell := tview.NewTableCell(tview.Escape(text)).
				SetExpansion(lastColumnExpansion(col, len(ft.rows[i])))
			if i < len(ft.colors) {
				cell.SetTextColor(ft.colors[i])
			}
			ft.Table.SetCell(tableRow, col, cell)
		}
	}
	ft.Table.ScrollToEnd()
}

func lastColumnExpansion(col, count int) int {
	if col == count-1 {
		return 1
	}
	return 0
}

// matchRows returns the indices of rows containing query in any cell.
func matchRows(rows [][]string, query string) []int {
	query = strings.ToLower(strings.TrimSpace(query))
	matched := make([]int, 0, len(rows))
	for i, row := range rows {
		if query == "" {
			matched = append(matched, i)
			continue
		}
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), query) {
				matched = append(matched, i)
				break
			}
		}
	}
	return matched
}
