package model1

import (
	"fmt"
)

// FormatFunc formats a field value for display.
type FormatFunc func(v interface{}, row *Row) string

// ColumnSpec describes a column to insert. Unset fields take the column
// defaults.
type ColumnSpec struct {
	Label         string `yaml:"label"`
	Map           string `yaml:"map"`
	IsSortable    *bool  `yaml:"isSortable,omitempty"`
	IsEditable    bool   `yaml:"isEditable,omitempty"`
	Type          string `yaml:"type,omitempty"`
	SortPredicate string `yaml:"sortPredicate,omitempty"`
	HeaderClass   string `yaml:"headerClass,omitempty"`
	CellClass     string `yaml:"cellClass,omitempty"`

	SortValue  func(*Row) interface{} `yaml:"-"`
	FormatFunc FormatFunc             `yaml:"-"`
}

// Column represents a table column.
type Column struct {
	Label      string
	Map        string
	IsSortable bool
	IsEditable bool
	Type       string

	// SortPredicate is the field path used to order rows. It defaults to Map
	// the first time the column is sorted. SortValue, when set, replaces the
	// field lookup.
	SortPredicate string
	SortValue     func(*Row) interface{}

	Reverse         SortOrder
	FilterPredicate string

	HeaderClass string
	CellClass   string
	FormatFunc  FormatFunc
}

// NewColumn builds a column from a spec applying defaults.
func NewColumn(spec ColumnSpec) *Column {
	c := Column{
		Label:         spec.Label,
		Map:           spec.Map,
		IsSortable:    true,
		IsEditable:    spec.IsEditable,
		Type:          spec.Type,
		SortPredicate: spec.SortPredicate,
		SortValue:     spec.SortValue,
		HeaderClass:   spec.HeaderClass,
		CellClass:     spec.CellClass,
		FormatFunc:    spec.FormatFunc,
	}
	if spec.IsSortable != nil {
		c.IsSortable = *spec.IsSortable
	}
	if c.Type == "" {
		c.Type = DefaultColumnType
	}
	if c.Label == "" {
		c.Label = c.Map
	}
	return &c
}

func (c *Column) String() string {
	return fmt.Sprintf("%s(%s) [%t::%s]", c.Label, c.Map, c.IsSortable, c.Reverse)
}

// SortKey returns the ordering key of the column.
func (c *Column) SortKey() SortKey {
	path := c.SortPredicate
	if path == "" {
		path = c.Map
	}
	return SortKey{Path: path, Value: c.SortValue}
}

// Value returns the display value of the column for a row.
func (c *Column) Value(r *Row) (interface{}, bool) {
	return r.Get(c.Map)
}

// Columns is the ordered column registry.
type Columns struct {
	cols []*Column
}

// NewColumns returns an empty registry.
func NewColumns() *Columns {
	return &Columns{}
}

// Len returns the number of columns.
func (c *Columns) Len() int {
	return len(c.cols)
}

// Empty returns true if no column is registered.
func (c *Columns) Empty() bool {
	return len(c.cols) == 0
}

// At returns the column at index.
func (c *Columns) At(i int) (*Column, bool) {
	if i < 0 || i >= len(c.cols) {
		return nil, false
	}
	return c.cols[i], true
}

// All returns a copy of the registry order.
func (c *Columns) All() []*Column {
	out := make([]*Column, len(c.cols))
	copy(out, c.cols)
	return out
}

// IndexOf returns the position of col by identity, or -1.
func (c *Columns) IndexOf(col *Column) int {
	if col == nil {
		return -1
	}
	for i, cc := range c.cols {
		if cc == col {
			return i
		}
	}
	return -1
}

// Has returns true if col is registered.
func (c *Columns) Has(col *Column) bool {
	return c.IndexOf(col) != -1
}

// ByMap returns the first column mapped to the given field path.
func (c *Columns) ByMap(m string) (*Column, bool) {
	for _, cc := range c.cols {
		if cc.Map == m {
			return cc, true
		}
	}
	return nil, false
}

// Insert builds a column from spec and inserts it at index, appending when
// index is out of range. Map uniqueness is the caller's concern.
func (c *Columns) Insert(spec ColumnSpec, index int) *Column {
	col := NewColumn(spec)
	c.cols = InsertAt(c.cols, index, col)
	return col
}

// Remove removes and returns the column at index.
func (c *Columns) Remove(index int) (*Column, bool) {
	var (
		col *Column
		ok  bool
	)
	c.cols, col, ok = RemoveAt(c.cols, index)
	return col, ok
}

// Move repositions a column keeping every other relative order.
func (c *Columns) Move(from, to int) bool {
	return MoveAt(c.cols, from, to)
}

// Clear empties the registry.
func (c *Columns) Clear() {
	for i := range c.cols {
		c.cols[i] = nil
	}
	c.cols = c.cols[:0]
}

// Detect derives one column per key of the first row when the registry is
// empty. Keys starting with ReservedMarker are skipped. Returns the number
// of columns added.
func (c *Columns) Detect(rows Rows) int {
	if !c.Empty() || len(rows) == 0 || rows[0] == nil {
		return 0
	}
	var n int
	for _, k := range rows[0].Keys() {
		if k == "" || k[0] == ReservedMarker {
			continue
		}
		c.Insert(ColumnSpec{Label: k, Map: k}, -1)
		n++
	}
	return n
}
