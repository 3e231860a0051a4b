package model1

// TableData is a point in time snapshot of what a table displays.
type TableData struct {
	columns     []*Column
	rows        Rows
	pager       Pager
	preds       PredicateMap
	sortCol     *Column
	allSelected bool
	checkbox    bool
	remote      bool
}

// NewTableData returns a snapshot. Slices are copied, rows are shared.
func NewTableData(cols []*Column, rows Rows, pager Pager, preds PredicateMap, sortCol *Column, allSelected bool) *TableData {
	c := make([]*Column, len(cols))
	copy(c, cols)
	return &TableData{
		columns:     c,
		rows:        rows.Clone(),
		pager:       pager,
		preds:       preds.Clone(),
		sortCol:     sortCol,
		allSelected: allSelected,
	}
}

// WithFlags records display flags on the snapshot.
func (t *TableData) WithFlags(checkbox, remote bool) *TableData {
	t.checkbox, t.remote = checkbox, remote
	return t
}

// Columns returns the column order.
func (t *TableData) Columns() []*Column {
	return t.columns
}

// Rows returns the displayed rows.
func (t *TableData) Rows() Rows {
	return t.rows
}

// RowCount returns the number of displayed rows.
func (t *TableData) RowCount() int {
	return len(t.rows)
}

// Empty returns true if no row is displayed.
func (t *TableData) Empty() bool {
	return len(t.rows) == 0
}

// Pager returns the pagination state.
func (t *TableData) Pager() Pager {
	return t.pager
}

// Predicates returns the active predicate map.
func (t *TableData) Predicates() PredicateMap {
	return t.preds
}

// SortColumn returns the active sort column, if any.
func (t *TableData) SortColumn() *Column {
	return t.sortCol
}

// AllSelected returns true if every displayed row is selected.
func (t *TableData) AllSelected() bool {
	return t.allSelected
}

// ShowCheckbox returns true if a selection column is displayed.
func (t *TableData) ShowCheckbox() bool {
	return t.checkbox
}

// IsRemote returns true if rows came from a remote source.
func (t *TableData) IsRemote() bool {
	return t.remote
}
