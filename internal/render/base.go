package render

import (
	"github.com/derailed/tcell/v2"
	"github.com/smarttable/smarttable/internal/model1"
)

var (
	// StdColor row default color
	StdColor tcell.Color = tcell.ColorWhite

	// SelectedColor selected row color
	SelectedColor tcell.Color = tcell.ColorAqua

	// SortColor sorted column header color
	SortColor tcell.Color = tcell.ColorYellow

	// HeaderColor column header color
	HeaderColor tcell.Color = tcell.ColorWhite

	// ErrColor load failure color
	ErrColor tcell.Color = tcell.ColorRed
)

// ColorerFunc picks a row color.
type ColorerFunc func(row *model1.Row) tcell.Color

// DefaultColorer highlights selected rows.
func DefaultColorer(row *model1.Row) tcell.Color {
	if row != nil && row.IsSelected {
		return SelectedColor
	}
	return StdColor
}

// Base renders table snapshots into display strings.
type Base struct {
	// MaxWidth caps a cell width, 0 leaves cells untouched.
	MaxWidth int
}

// Header returns the display label of a column, with an indicator when the
// column drives the sort.
func (b *Base) Header(col *model1.Column, sortCol *model1.Column) string {
	label := Missing(col.Label)
	if col != sortCol {
		return label
	}
	switch col.Reverse {
	case model1.SortAscending:
		return label + " " + AscIndicator
	case model1.SortDescending:
		return label + " " + DescIndicator
	default:
		return label
	}
}

// Headers returns the header row for a snapshot, led by the checkbox column
// when enabled.
func (b *Base) Headers(data *model1.TableData) []string {
	cols := data.Columns()
	hh := make([]string, 0, len(cols)+1)
	if data.ShowCheckbox() {
		if data.AllSelected() && data.RowCount() > 0 {
			hh = append(hh, CheckedMark)
		} else {
			hh = append(hh, UncheckedMark)
		}
	}
	for _, c := range cols {
		hh = append(hh, b.Header(c, data.SortColumn()))
	}
	return hh
}

// Cell formats the value a column maps to on a row. A column FormatFunc
// takes over formatting.
func (b *Base) Cell(col *model1.Column, row *model1.Row) string {
	v, _ := col.Value(row)
	var s string
	if col.FormatFunc != nil {
		s = col.FormatFunc(v, row)
	} else {
		s = model1.ToString(v)
	}
	return Truncate(Flatten(s), b.MaxWidth)
}

// Checkbox returns the selection marker of a row.
func (b *Base) Checkbox(row *model1.Row) string {
	if row.IsSelected {
		return CheckedMark
	}
	return UncheckedMark
}

// Render returns the cells of every displayed row.
func (b *Base) Render(data *model1.TableData) [][]string {
	cols := data.Columns()
	rows := data.Rows()
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells := make([]string, 0, len(cols)+1)
		if data.ShowCheckbox() {
			cells = append(cells, b.Checkbox(r))
		}
		for _, c := range cols {
			cells = append(cells, b.Cell(c, r))
		}
		out = append(out, cells)
	}
	return out
}
