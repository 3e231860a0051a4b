package model1

import (
	"fmt"
	"sort"
	"strings"
)

// SortKey identifies what rows are ordered by: a field path, or a value
// function taking precedence over it.
type SortKey struct {
	Path  string
	Value func(*Row) interface{}
}

// Of extracts the ordering value of a row.
func (k SortKey) Of(r *Row) interface{} {
	if k.Value != nil {
		return k.Value(r)
	}
	v, _ := r.Get(k.Path)
	return v
}

// Sorter orders rows by key. Implementations must not reorder the input
// slice in place. A custom Sorter replaces the default ordering entirely.
type Sorter interface {
	Sort(rows Rows, key SortKey, order SortOrder) Rows
}

// SorterFunc adapts a function to a Sorter.
type SorterFunc func(rows Rows, key SortKey, order SortOrder) Rows

// Sort implements Sorter.
func (f SorterFunc) Sort(rows Rows, key SortKey, order SortOrder) Rows {
	return f(rows, key, order)
}

// NaturalSorter is the default stable comparator: numbers numerically,
// strings in natural case insensitive order.
type NaturalSorter struct{}

// Sort implements Sorter.
func (NaturalSorter) Sort(rows Rows, key SortKey, order SortOrder) Rows {
	return stableSort(rows, key, order, Compare)
}

// LexicalSorter orders by the plain string form of the values.
type LexicalSorter struct{}

// Sort implements Sorter.
func (LexicalSorter) Sort(rows Rows, key SortKey, order SortOrder) Rows {
	return stableSort(rows, key, order, func(a, b interface{}) int {
		return strings.Compare(ToString(a), ToString(b))
	})
}

func stableSort(rows Rows, key SortKey, order SortOrder, cmp func(a, b interface{}) int) Rows {
	out := rows.Clone()
	if order == SortNone {
		return out
	}
	vals := make(map[*Row]interface{}, len(out))
	for _, r := range out {
		vals[r] = key.Of(r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(vals[out[i]], vals[out[j]])
		if order.Reverse() {
			return c > 0
		}
		return c < 0
	})
	return out
}

// SorterByName returns a built-in sorter. An empty name yields the default.
func SorterByName(name string) (Sorter, error) {
	switch strings.ToLower(name) {
	case "", "natural":
		return NaturalSorter{}, nil
	case "lexical":
		return LexicalSorter{}, nil
	default:
		return nil, fmt.Errorf("unknown sort algorithm %q", name)
	}
}

// SortDirective tracks the single column rows are ordered by.
type SortDirective struct {
	active *Column
}

// NewSortDirective returns a directive with no active column.
func NewSortDirective() *SortDirective {
	return &SortDirective{}
}

// Active returns the active sort column, if any.
func (s *SortDirective) Active() *Column {
	return s.active
}

// SortBy engages col. Unregistered or non sortable columns leave the
// directive untouched. Returns true if the directive changed.
func (s *SortDirective) SortBy(cols *Columns, col *Column) bool {
	if col == nil || !cols.Has(col) || !col.IsSortable {
		return false
	}
	if s.active != nil && s.active != col {
		s.active.Reverse = SortNone
	}
	if col.SortPredicate == "" {
		col.SortPredicate = col.Map
	}
	col.Reverse = col.Reverse.Toggle()
	s.active = col
	return true
}

// Release drops col if it is the active column.
func (s *SortDirective) Release(col *Column) {
	if s.active != nil && s.active == col {
		s.active.Reverse = SortNone
		s.active = nil
	}
}

// Clear drops the active column.
func (s *SortDirective) Clear() {
	s.Release(s.active)
}

// Field returns the field path and order sent to a remote source.
func (s *SortDirective) Field() (string, SortOrder) {
	if s.active == nil {
		return "", SortNone
	}
	return s.active.Map, s.active.Reverse
}

// Apply orders rows with the active column, or returns them unchanged.
func (s *SortDirective) Apply(rows Rows, sorter Sorter) Rows {
	if s.active == nil {
		return rows
	}
	if sorter == nil {
		sorter = NaturalSorter{}
	}
	return sorter.Sort(rows, s.active.SortKey(), s.active.Reverse)
}
