package model1

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionSingle(t *testing.T) {
	rows := Rows{row("k", 1), row("k", 2), row("k", 3)}
	s := NewSelection(SelectionSingle)
	var seen Rows
	notify := func(r *Row) { seen = append(seen, r) }

	assert.True(t, s.Select(rows, 0, true, notify))
	assert.True(t, s.Select(rows, 1, true, notify))

	assert.Equal(t, Rows{rows[1]}, SelectedRows(rows))
	assert.Equal(t, Rows{rows[0], rows[0], rows[1]}, seen)
	assert.False(t, s.AllSelected())
}

func TestSelectionUnchangedStillNotifies(t *testing.T) {
	rows := Rows{row("k", 1)}
	s := NewSelection(SelectionSingle)
	var n int

	s.Select(rows, 0, false, func(*Row) { n++ })
	assert.Equal(t, 1, n)
}

func TestSelectionMultiple(t *testing.T) {
	rows := Rows{row("k", 1), row("k", 2)}
	s := NewSelection(SelectionMultiple)

	assert.True(t, s.Select(rows, 0, true, nil))
	assert.False(t, s.AllSelected())
	assert.True(t, s.Select(rows, 1, true, nil))
	assert.True(t, s.AllSelected())
	assert.Equal(t, rows, SelectedRows(rows))

	assert.True(t, s.Select(rows, 0, false, nil))
	assert.False(t, s.AllSelected())
}

func TestSelectionNoop(t *testing.T) {
	rows := Rows{row("k", 1)}

	assert.False(t, NewSelection(SelectionNone).Select(rows, 0, true, nil))
	assert.False(t, rows[0].IsSelected)
	assert.False(t, NewSelection(SelectionMultiple).Select(rows, 1, true, nil))
	assert.False(t, NewSelection(SelectionMultiple).Select(rows, -1, true, nil))
}

func TestAllSelectedEmpty(t *testing.T) {
	assert.True(t, AllSelected(nil))
}

func TestParseSelectionMode(t *testing.T) {
	m, err := ParseSelectionMode(" Multiple ")
	assert.NoError(t, err)
	assert.Equal(t, SelectionMultiple, m)
	assert.Equal(t, "multiple", m.String())

	_, err = ParseSelectionMode("all")
	assert.Error(t, err)
}
