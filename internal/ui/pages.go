package ui

import (
	"fmt"

	"github.com/derailed/tview"
	"github.com/smarttable/smarttable/internal/model"
)

// Pages represents a stack of view pages.
type Pages struct {
	*tview.Pages
	*model.Stack
}

// NewPages returns a new pages manager
func NewPages() *Pages {
	p := Pages{
		Pages: tview.NewPages(),
		Stack: model.NewStack(),
	}
	p.Stack.AddListener(&p)

	return &p
}

// Current returns the top component.
func (p *Pages) Current() Component {
	c, _ := p.Top().(Component)
	return c
}

// StackSize returns the stack depth
func (p *Pages) StackSize() int {
	return len(p.Peek())
}

// StackPushed notifies a new component was pushed.
func (p *Pages) StackPushed(c model.Component) {
	prim, ok := c.(tview.Primitive)
	if !ok {
		return
	}
	p.AddPage(componentID(c), prim, true, true)
}

// StackPopped notifies a component was removed.
func (p *Pages) StackPopped(o, _ model.Component) {
	p.RemovePage(componentID(o))
}

// StackTop notifies the top component.
func (p *Pages) StackTop(top model.Component) {
	if top == nil {
		return
	}
	p.SwitchToPage(componentID(top))
}

func componentID(c model.Component) string {
	return fmt.Sprintf("%s-%p", c.Name(), c)
}
