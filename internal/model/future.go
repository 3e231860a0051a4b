package model

import (
	"context"

	"github.com/smarttable/smarttable/internal/model1"
)

// Future is the pending result of a pipe.
type Future struct {
	ticket uint64
	done   chan struct{}
	rows   model1.Rows
	err    error
}

func newFuture(ticket uint64) *Future {
	return &Future{ticket: ticket, done: make(chan struct{})}
}

func (f *Future) resolve(rows model1.Rows, err error) {
	f.rows, f.err = rows, err
	close(f.done)
}

// Done is closed once the future resolved.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future resolves or ctx is done.
func (f *Future) Wait(ctx context.Context) (model1.Rows, error) {
	select {
	case <-f.done:
		return f.rows, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
