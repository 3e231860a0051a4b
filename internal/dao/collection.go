package dao

import (
	"sync"

	"github.com/smarttable/smarttable/internal/model1"
)

// Collection is an in-memory record collection usable as a local source.
type Collection struct {
	rows model1.Rows
	mx   sync.RWMutex
}

// NewCollection returns a collection over rows.
func NewCollection(rows model1.Rows) *Collection {
	return &Collection{rows: rows}
}

// Rows implements Accessor. The returned slice is a copy sharing the rows.
func (c *Collection) Rows() model1.Rows {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.rows.Clone()
}

// Len returns the number of records.
func (c *Collection) Len() int {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return len(c.rows)
}

// Add appends rows.
func (c *Collection) Add(rows ...*model1.Row) {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.rows = append(c.rows, rows...)
}

// Remove implements Remover.
func (c *Collection) Remove(r *model1.Row) bool {
	c.mx.Lock()
	defer c.mx.Unlock()

	var ok bool
	c.rows, _, ok = model1.RemoveAt(c.rows, c.rows.IndexOf(r))
	return ok
}

// Set replaces the whole collection.
func (c *Collection) Set(rows model1.Rows) {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.rows = rows
}
