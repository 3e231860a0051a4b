// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of smarttable

package ui

import (
	"fmt"
	"sort"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/smarttable/smarttable/internal/model"
)

const (
	menuFmt     = " [yellow::b]<%s>[white::-] %s "
	menuMaxRows = 3
)

// Menu presents the key hints of the top component.
type Menu struct {
	*tview.Table
}

// NewMenu returns a new menu.
func NewMenu() *Menu {
	m := &Menu{
		Table: tview.NewTable(),
	}
	m.SetBackgroundColor(tcell.ColorDefault)
	m.SetBorderPadding(0, 0, 1, 1)

	return m
}

// HydrateMenu populate menu ui from hints.
func (m *Menu) HydrateMenu(hh MenuHints) {
	m.Clear()
	for row, cells := range LayoutHints(hh, menuMaxRows) {
		for col, text := range cells {
			c := tview.NewTableCell(text)
			c.SetBackgroundColor(tcell.ColorDefault)
			m.SetCell(row, col, c)
		}
	}
}

// LayoutHints lays the visible hints out column first, maxRows per column.
// Hints sharing a description show once.
func LayoutHints(hh MenuHints, maxRows int) [][]string {
	vv := make(MenuHints, 0, len(hh))
	seen := make(map[string]struct{}, len(hh))
	for _, h := range hh {
		if !h.Visible || h.Mnemonic == "" || h.Description == "" {
			continue
		}
		if _, ok := seen[h.Description]; ok {
			continue
		}
		seen[h.Description] = struct{}{}
		vv = append(vv, h)
	}
	sort.Sort(vv)
	if len(vv) == 0 || maxRows < 1 {
		return nil
	}

	rows := maxRows
	if len(vv) < rows {
		rows = len(vv)
	}
	cols := (len(vv) + rows - 1) / rows
	out := make([][]string, rows)
	for r := range out {
		out[r] = make([]string, cols)
	}
	for i, h := range vv {
		out[i%rows][i/rows] = fmt.Sprintf(menuFmt, h.Mnemonic, h.Description)
	}

	return out
}

// StackPushed notifies a component was added.
func (m *Menu) StackPushed(c model.Component) {
	m.hydrate(c)
}

// StackPopped notifies a component was removed.
func (m *Menu) StackPopped(_, top model.Component) {
	if top == nil {
		m.Clear()
		return
	}
	m.hydrate(top)
}

// StackTop notifies the top component.
func (m *Menu) StackTop(t model.Component) {
	m.hydrate(t)
}

func (m *Menu) hydrate(c model.Component) {
	if h, ok := c.(Hinter); ok {
		m.HydrateMenu(h.Hints())
	}
}
