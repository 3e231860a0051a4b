// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of smarttable

package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/derailed/tcell/v2"
	"github.com/smarttable/smarttable/internal/model"
	"github.com/smarttable/smarttable/internal/model1"
	"github.com/smarttable/smarttable/internal/ui"
)

// Table wraps ui.Table with view-layer functionality.
type Table struct {
	*ui.Table

	app   *App
	model *model.Table
}

// NewTable creates a new table view over a table model.
func NewTable(app *App, m *model.Table) *Table {
	return &Table{
		Table: ui.NewTable(m.Name()),
		app:   app,
		model: m,
	}
}

// Init initializes the table view.
func (t *Table) Init(ctx context.Context) error {
	if err := t.Table.Init(ctx); err != nil {
		return err
	}
	t.bindKeys(t.Actions())

	if t.app != nil {
		t.SetQueueFn(t.app.QueueUpdateDraw)
		t.SetErrFn(t.app.Flash().Err)
		t.SetPageFn(t.app.SetPager)
	}
	t.SetEnterFn(t.describe)
	t.SetModel(t.model)

	return nil
}

// Start loads the first page.
func (t *Table) Start() {
	go func() {
		if err := t.model.Reload(context.Background()); err != nil && t.app != nil {
			t.app.Flash().Err(err)
		}
	}()
}

// Stop ends the table lifecycle.
func (t *Table) Stop() {}

// Model returns the table model.
func (t *Table) Model() *model.Table {
	return t.model
}

func (t *Table) bindKeys(aa *ui.KeyActions) {
	aa.Bulk(ui.KeyMap{
		tcell.KeyCtrlD: ui.NewKeyAction("Delete Row", t.deleteCmd, true),
		ui.KeyE:        ui.NewKeyAction("Edit", t.editCmd, true),
	})
}

func (t *Table) deleteCmd(*tcell.EventKey) *tcell.EventKey {
	r, _ := t.GetSelection()
	if r < 1 || t.app == nil {
		return nil
	}
	index := r - 1

	ui.NewConfirm(t.app.Main).
		SetMessage(fmt.Sprintf("Delete row %d?", index+1)).
		SetDangerous(true).
		SetOnConfirm(func() {
			if _, ok := t.model.RemoveDataRow(index); ok {
				t.app.Flash().Infof("Row %d deleted", index+1)
			}
			t.app.SetFocus(t)
		}).
		SetOnCancel(func() {
			t.app.SetFocus(t)
		}).
		Show()

	return nil
}

func (t *Table) editCmd(*tcell.EventKey) *tcell.EventKey {
	if row, ok := t.SelectedRow(); ok {
		t.edit(row)
	}
	return nil
}

func (t *Table) edit(row *model1.Row) {
	if t.app == nil {
		return
	}

	paths := EditablePaths(t.model.Columns())
	n, err := EditRow(t.app.Application, row, paths, t.model.UpdateDataRow)
	switch {
	case errors.Is(err, ErrEditorCancelled):
		t.app.Flash().Info("Edit cancelled")
	case errors.Is(err, ErrNoChanges):
		t.app.Flash().Info("No changes detected")
	case err != nil:
		t.app.Flash().Errf("Edit failed: %v", err)
	default:
		t.app.Flash().Infof("%d field(s) updated", n)
	}
}

func (t *Table) describe(row *model1.Row) {
	if t.app == nil {
		return
	}

	d := NewDescribe(t.model.Name(), row)
	d.SetBackFn(func() {
		t.app.Content.Pop()
		t.app.SetFocus(t.app.Content.Current())
	})
	d.SetEditFn(t.edit)
	t.app.Push(d)
}
