// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of smarttable

package ui

import (
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	promptIdle   = "[gray::]:help for commands[-::]"
	promptCursor = "[black:white] [-:-]"
)

// CmdIndicator accepts a one line command.
type CmdIndicator struct {
	*tview.TextView

	text      string
	active    bool
	activeFn  func(bool)
	executeFn func(string)
}

// NewCmdIndicator creates a new command indicator.
func NewCmdIndicator() *CmdIndicator {
	c := &CmdIndicator{
		TextView: tview.NewTextView(),
	}
	c.SetDynamicColors(true)
	c.SetBackgroundColor(tcell.ColorDefault)
	c.SetTextColor(tcell.ColorWhite)
	c.refresh()

	return c
}

// SetActiveFn sets the callback when active state changes.
func (c *CmdIndicator) SetActiveFn(fn func(bool)) {
	c.activeFn = fn
}

// SetExecuteFn sets the callback when command is executed.
func (c *CmdIndicator) SetExecuteFn(fn func(string)) {
	c.executeFn = fn
}

// Activate enters command mode.
func (c *CmdIndicator) Activate() {
	c.text = ""
	c.active = true
	c.refresh()
	if c.activeFn != nil {
		c.activeFn(true)
	}
}

// Deactivate exits command mode.
func (c *CmdIndicator) Deactivate() {
	c.active = false
	c.text = ""
	c.refresh()
	if c.activeFn != nil {
		c.activeFn(false)
	}
}

// IsActive returns whether input mode is active.
func (c *CmdIndicator) IsActive() bool {
	return c.active
}

// Text returns the current input text.
func (c *CmdIndicator) Text() string {
	return c.text
}

// HandleKey processes keyboard input when active.
func (c *CmdIndicator) HandleKey(evt *tcell.EventKey) *tcell.EventKey {
	if !c.active {
		return evt
	}

	switch evt.Key() {
	case tcell.KeyEsc:
		c.Deactivate()
		return nil

	case tcell.KeyEnter:
		text := c.text
		c.Deactivate()
		if c.executeFn != nil && text != "" {
			c.executeFn(text)
		}
		return nil

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(c.text); len(r) > 0 {
			c.text = string(r[:len(r)-1])
			c.refresh()
		}
		return nil

	case tcell.KeyRune:
		c.text += string(evt.Rune())
		c.refresh()
		return nil
	}

	return evt
}

func (c *CmdIndicator) refresh() {
	if !c.active {
		c.TextView.SetText(promptIdle)
		return
	}
	c.TextView.SetText(":" + tview.Escape(c.text) + promptCursor)
}
