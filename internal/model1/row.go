package model1

import (
	"strings"

	"github.com/Velocidex/ordereddict"
)

// Row wraps one source record. Rows travel by pointer: the displayed rows,
// the source collection and any external holder all share the same Row, so
// a selection change is visible to each of them.
type Row struct {
	Fields     *ordereddict.Dict
	IsSelected bool
}

// NewRow returns a row over the given record.
func NewRow(fields *ordereddict.Dict) *Row {
	if fields == nil {
		fields = ordereddict.NewDict()
	}
	return &Row{Fields: fields}
}

// Keys returns the record keys in insertion order.
func (r *Row) Keys() []string {
	if r == nil || r.Fields == nil {
		return nil
	}
	return r.Fields.Keys()
}

// Get resolves a dotted field path such as "address.city".
func (r *Row) Get(path string) (interface{}, bool) {
	if r == nil {
		return nil, false
	}
	return Lookup(r.Fields, path)
}

// Set assigns a dotted field path, creating intermediate records as needed.
func (r *Row) Set(path string, v interface{}) {
	if r.Fields == nil {
		r.Fields = ordereddict.NewDict()
	}
	Assign(r.Fields, path, v)
}

// Rows represents a collection of rows.
type Rows []*Row

// IndexOf returns the position of r by identity, or -1.
func (rr Rows) IndexOf(r *Row) int {
	for i, row := range rr {
		if row == r {
			return i
		}
	}
	return -1
}

// Clone returns a new slice sharing the same rows.
func (rr Rows) Clone() Rows {
	out := make(Rows, len(rr))
	copy(out, rr)
	return out
}

// Lookup walks a dotted path through nested records.
func Lookup(d *ordereddict.Dict, path string) (interface{}, bool) {
	if d == nil || path == "" {
		return nil, false
	}
	var cur interface{} = d
	for _, part := range strings.Split(path, ".") {
		switch v := cur.(type) {
		case *ordereddict.Dict:
			next, ok := v.Get(part)
			if !ok {
				return nil, false
			}
			cur = next
		case map[string]interface{}:
			next, ok := v[part]
			if !ok {
				return nil, false
			}
			cur = next
		default:
			return nil, false
		}
	}
	return cur, true
}

// Assign writes v at a dotted path. Missing or non record intermediates are
// replaced by empty records.
func Assign(d *ordereddict.Dict, path string, v interface{}) {
	if d == nil || path == "" {
		return
	}
	parts := strings.Split(path, ".")
	cur := d
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur.Get(part)
		child, isDict := next.(*ordereddict.Dict)
		if !ok || !isDict {
			child = ordereddict.NewDict()
			cur.Set(part, child)
		}
		cur = child
	}
	cur.Set(parts[len(parts)-1], v)
}
