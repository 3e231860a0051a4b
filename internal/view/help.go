// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of smarttable

package view

import (
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// HelpBind represents a single keybinding.
type HelpBind struct {
	Key  string
	Desc string
}

// Help displays the keybindings and commands.
type Help struct {
	*tview.Table
	closeFn func()
}

// NewHelp creates a new help view.
func NewHelp() *Help {
	h := &Help{
		Table: tview.NewTable(),
	}
	h.build()
	return h
}

// SetCloseFn sets the callback when help is closed.
func (h *Help) SetCloseFn(fn func()) {
	h.closeFn = fn
}

func (h *Help) build() {
	h.SetBorder(true)
	h.SetTitle(" Help ")
	h.SetTitleAlign(tview.AlignCenter)
	h.SetBorderColor(tcell.ColorYellow)
	h.SetBackgroundColor(tcell.ColorDefault)
	h.SetSelectable(false, false)

	h.populateHelp()

	h.SetInputCapture(func(evt *tcell.EventKey) *tcell.EventKey {
		switch evt.Key() {
		case tcell.KeyEsc, tcell.KeyEnter:
			h.close()
			return nil
		}
		if evt.Rune() == '?' || evt.Rune() == 'q' {
			h.close()
			return nil
		}
		return evt
	})
}

func (h *Help) close() {
	if h.closeFn != nil {
		h.closeFn()
	}
}

// helpColumns returns the help sections and their bindings.
func helpColumns() ([]string, [][]HelpBind) {
	table := []HelpBind{
		{"<1-9>", "Sort Column"},
		{"</>", "Search"},
		{"<space>", "Select"},
		{"<C-a>", "Select All"},
		{"<C-u>", "Unselect All"},
		{"<n>", "Next Page"},
		{"<p>", "Prev Page"},
		{"<C-r>", "Reload"},
	}
	rows := []HelpBind{
		{"<j>", "Down"},
		{"<k>", "Up"},
		{"<g>", "Top"},
		{"<G>", "Bottom"},
		{"<enter>", "View"},
		{"<e>", "Edit"},
		{"<C-d>", "Delete"},
	}
	general := []HelpBind{
		{"<:>", "Command"},
		{"<?>", "Help"},
		{"<esc>", "Back"},
		{"<q>", "Quit"},
	}
	commands := []HelpBind{
		{":page <n>", "Go To Page"},
		{":sort <col>", "Sort"},
		{":search <txt>", "Search"},
		{":select <mode>", "Selection Mode"},
		{":col add|rm|mv", "Columns"},
		{":reload", "Reload"},
		{":quit", "Quit"},
	}

	return []string{"TABLE", "ROWS", "GENERAL", "COMMANDS"}, [][]HelpBind{table, rows, general, commands}
}

func (h *Help) populateHelp() {
	headers, columns := helpColumns()

	maxRows := 0
	for _, col := range columns {
		if len(col) > maxRows {
			maxRows = len(col)
		}
	}

	// Each section takes a key, a description and a spacer column.
	colWidth := 3
	for colIdx, col := range columns {
		baseCol := colIdx * colWidth

		header := tview.NewTableCell(headers[colIdx]).
			SetTextColor(tcell.ColorAqua).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false)
		h.SetCell(0, baseCol, header)

		for rowIdx, bind := range col {
			row := rowIdx + 1
			keyCell := tview.NewTableCell(bind.Key).
				SetTextColor(tcell.ColorYellow).
				SetSelectable(false)
			h.SetCell(row, baseCol, keyCell)

			descCell := tview.NewTableCell(bind.Desc).
				SetTextColor(tcell.ColorWhite).
				SetSelectable(false).
				SetExpansion(1)
			h.SetCell(row, baseCol+1, descCell)
		}

		if colIdx < len(columns)-1 {
			for row := 0; row <= maxRows; row++ {
				spacer := tview.NewTableCell("").
					SetSelectable(false).
					SetExpansion(1)
				h.SetCell(row, baseCol+2, spacer)
			}
		}
	}

	footer := tview.NewTableCell("<esc> to close").
		SetTextColor(tcell.ColorGray).
		SetSelectable(false)
	h.SetCell(maxRows+2, 0, footer)
}
