package model

import (
	"sync"
)

// Component represents a stackable view.
type Component interface {
	Name() string
	Stop()
}

// StackListener tracks stack changes.
type StackListener interface {
	// StackPushed notifies c was pushed.
	StackPushed(c Component)

	// StackPopped notifies old was popped, top is nil once empty.
	StackPopped(old, top Component)

	// StackTop notifies the current top.
	StackTop(top Component)
}

// Stack tracks the views of an application, last pushed on top. Pushing
// stops the view it covers.
type Stack struct {
	components []Component
	listeners  []StackListener
	mx         sync.RWMutex
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// AddListener registers a listener and hands it the current top.
func (s *Stack) AddListener(l StackListener) {
	s.mx.Lock()
	s.listeners = append(s.listeners, l)
	top := s.top()
	s.mx.Unlock()

	if top != nil {
		l.StackTop(top)
	}
}

// RemoveListener unregisters a listener.
func (s *Stack) RemoveListener(l StackListener) {
	s.mx.Lock()
	defer s.mx.Unlock()

	for i, lis := range s.listeners {
		if lis == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// Push stops the current top and puts c over it.
func (s *Stack) Push(c Component) {
	s.mx.Lock()
	covered := s.top()
	s.components = append(s.components, c)
	ll := s.listenersCopy()
	s.mx.Unlock()

	if covered != nil {
		covered.Stop()
	}
	for _, l := range ll {
		l.StackPushed(c)
		l.StackTop(c)
	}
}

// Pop stops and removes the top component.
func (s *Stack) Pop() (Component, bool) {
	s.mx.Lock()
	n := len(s.components)
	if n == 0 {
		s.mx.Unlock()
		return nil, false
	}
	c := s.components[n-1]
	s.components[n-1] = nil
	s.components = s.components[:n-1]
	top := s.top()
	ll := s.listenersCopy()
	s.mx.Unlock()

	c.Stop()
	for _, l := range ll {
		l.StackPopped(c, top)
		if top != nil {
			l.StackTop(top)
		}
	}

	return c, true
}

// Top returns the top component or nil.
func (s *Stack) Top() Component {
	s.mx.RLock()
	defer s.mx.RUnlock()

	return s.top()
}

// Empty returns true when nothing is stacked.
func (s *Stack) Empty() bool {
	s.mx.RLock()
	defer s.mx.RUnlock()

	return len(s.components) == 0
}

// IsLast returns true when a single component is stacked.
func (s *Stack) IsLast() bool {
	s.mx.RLock()
	defer s.mx.RUnlock()

	return len(s.components) == 1
}

// Peek returns a copy of the stacked components, bottom first.
func (s *Stack) Peek() []Component {
	s.mx.RLock()
	defer s.mx.RUnlock()

	cc := make([]Component, len(s.components))
	copy(cc, s.components)
	return cc
}

// Names returns the stacked component names, bottom first.
func (s *Stack) Names() []string {
	s.mx.RLock()
	defer s.mx.RUnlock()

	ss := make([]string, 0, len(s.components))
	for _, c := range s.components {
		ss = append(ss, c.Name())
	}
	return ss
}

func (s *Stack) top() Component {
	if len(s.components) == 0 {
		return nil
	}
	return s.components[len(s.components)-1]
}

func (s *Stack) listenersCopy() []StackListener {
	ll := make([]StackListener, len(s.listeners))
	copy(ll, s.listeners)
	return ll
}
