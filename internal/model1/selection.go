package model1

// Selection tracks row selection for the displayed rows.
type Selection struct {
	Mode        SelectionMode
	allSelected bool
}

// NewSelection returns a tracker for the given mode.
func NewSelection(mode SelectionMode) *Selection {
	return &Selection{Mode: mode}
}

// AllSelected returns the flag computed by the last Refresh or Select.
func (s *Selection) AllSelected() bool {
	return s.allSelected
}

// Refresh recomputes the all selected flag over rows.
func (s *Selection) Refresh(rows Rows) {
	s.allSelected = AllSelected(rows)
}

// Select sets the selection of rows[index]. It is a no-op unless the mode
// is single or multiple and index is in range. In single mode every other
// row is deselected first and notify fires for each row that flipped off.
// notify always fires for the target row, changed or not.
func (s *Selection) Select(rows Rows, index int, selected bool, notify func(*Row)) bool {
	if s.Mode != SelectionSingle && s.Mode != SelectionMultiple {
		return false
	}
	if index < 0 || index >= len(rows) {
		return false
	}
	if notify == nil {
		notify = func(*Row) {}
	}

	target := rows[index]
	if s.Mode == SelectionSingle {
		for _, r := range rows {
			old := r.IsSelected
			r.IsSelected = false
			if old {
				notify(r)
			}
		}
	}
	target.IsSelected = selected
	s.Refresh(rows)
	notify(target)

	return true
}

// AllSelected returns true if every row is selected.
func AllSelected(rows Rows) bool {
	for _, r := range rows {
		if !r.IsSelected {
			return false
		}
	}
	return true
}

// SelectedRows returns the selected rows in order.
func SelectedRows(rows Rows) Rows {
	var out Rows
	for _, r := range rows {
		if r.IsSelected {
			out = append(out, r)
		}
	}
	return out
}
