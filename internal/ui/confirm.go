// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of smarttable

package ui

import (
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const confirmPage = "confirm-dialog"

// ConfirmFunc is called when user confirms action.
type ConfirmFunc func()

// Confirm represents a yes/no modal over a set of pages.
type Confirm struct {
	*tview.Modal
	dangerous bool
	onConfirm ConfirmFunc
	onCancel  func()
	pages     *tview.Pages
}

// NewConfirm creates a new confirmation dialog.
func NewConfirm(pages *tview.Pages) *Confirm {
	c := &Confirm{
		Modal: tview.NewModal(),
		pages: pages,
	}
	c.SetBackgroundColor(tcell.ColorDefault)
	c.AddButtons([]string{"Yes", "No"})
	c.SetDoneFunc(c.handleButton)
	c.updateStyle()

	return c
}

// SetMessage sets the confirmation message.
func (c *Confirm) SetMessage(msg string) *Confirm {
	c.Modal.SetText(msg)
	return c
}

// SetDangerous styles the dialog for destructive operations.
func (c *Confirm) SetDangerous(dangerous bool) *Confirm {
	c.dangerous = dangerous
	c.updateStyle()
	return c
}

// SetOnConfirm sets the callback for when user confirms.
func (c *Confirm) SetOnConfirm(fn ConfirmFunc) *Confirm {
	c.onConfirm = fn
	return c
}

// SetOnCancel sets the callback for when user cancels.
func (c *Confirm) SetOnCancel(fn func()) *Confirm {
	c.onCancel = fn
	return c
}

// Show displays the dialog.
func (c *Confirm) Show() {
	if c.pages != nil {
		c.pages.AddPage(confirmPage, c, true, true)
	}
}

// Dismiss removes the dialog.
func (c *Confirm) Dismiss() {
	if c.pages != nil {
		c.pages.RemovePage(confirmPage)
	}
}

func (c *Confirm) handleButton(buttonIndex int, _ string) {
	c.Dismiss()

	switch buttonIndex {
	case 0:
		if c.onConfirm != nil {
			c.onConfirm()
		}
	default:
		if c.onCancel != nil {
			c.onCancel()
		}
	}
}

func (c *Confirm) updateStyle() {
	bg := tcell.ColorBlue
	if c.dangerous {
		bg = tcell.ColorRed
	}
	c.SetTextColor(tcell.ColorWhite)
	c.SetButtonBackgroundColor(bg)
	c.SetButtonTextColor(tcell.ColorWhite)
}
