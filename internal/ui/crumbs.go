// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of smarttable

package ui

import (
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/smarttable/smarttable/internal/model"
)

// Crumbs represents user breadcrumbs.
type Crumbs struct {
	*tview.TextView

	names []string
}

// NewCrumbs returns a new breadcrumb view.
func NewCrumbs() *Crumbs {
	c := &Crumbs{
		TextView: tview.NewTextView(),
	}
	c.SetBackgroundColor(tcell.ColorDefault)
	c.SetTextAlign(tview.AlignLeft)
	c.SetBorderPadding(0, 0, 1, 1)
	c.SetDynamicColors(true)

	return c
}

// StackPushed indicates a new item was added.
func (c *Crumbs) StackPushed(comp model.Component) {
	c.names = append(c.names, comp.Name())
	c.refresh()
}

// StackPopped indicates an item was deleted.
func (c *Crumbs) StackPopped(_, _ model.Component) {
	if len(c.names) > 0 {
		c.names = c.names[:len(c.names)-1]
	}
	c.refresh()
}

// StackTop indicates the top of the stack.
func (*Crumbs) StackTop(model.Component) {}

// Path returns the crumbs in push order.
func (c *Crumbs) Path() []string {
	return c.names
}

func (c *Crumbs) refresh() {
	c.Clear()
	last := len(c.names) - 1
	for i, crumb := range c.names {
		crumb = strings.ReplaceAll(strings.ToLower(crumb), " ", "")
		if i == last {
			_, _ = fmt.Fprintf(c, "[yellow:black:b] <%s> [-:-:-] ", crumb)
		} else {
			_, _ = fmt.Fprintf(c, "[gray::-] <%s> [-:-:-] ", crumb)
		}
	}
}
