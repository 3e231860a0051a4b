// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of smarttable

package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/smarttable/smarttable/internal/model"
	"github.com/smarttable/smarttable/internal/model1"
	"github.com/smarttable/smarttable/internal/render"
	"github.com/wI2L/jsondiff"
)

const (
	// TitleFmt formats the table title with name, page and row count.
	TitleFmt = " <%s>[%s][%d] "

	// SearchTitleFmt formats the title while a search is typed or active.
	SearchTitleFmt = " <%s>[%s][%d] Search: %s "
)

// Table represents a tabular view over a table model.
type Table struct {
	*tview.Table

	name         string
	actions      *KeyActions
	model        Tabular
	renderer     render.Base
	colorerFn    render.ColorerFunc
	data         *model1.TableData
	searchText   string
	searchActive bool
	queueFn      func(func())
	errFn        func(error)
	enterFn      func(*model1.Row)
	pageFn       func(model1.Pager, int)
	mx           sync.RWMutex
}

// NewTable returns a new table instance.
func NewTable(name string) *Table {
	return &Table{
		Table:     tview.NewTable(),
		name:      name,
		actions:   NewKeyActions(),
		colorerFn: render.DefaultColorer,
		queueFn:   func(f func()) { f() },
		errFn:     func(error) {},
	}
}

// Init initializes the table component.
func (t *Table) Init(ctx context.Context) error {
	t.SetFixed(1, 0)
	t.SetBorder(true)
	t.SetBorderAttributes(tcell.AttrBold)
	t.SetBorderPadding(0, 0, 1, 1)
	t.SetSelectable(true, false)
	t.SetBackgroundColor(tcell.ColorDefault)
	t.SetBorderColor(tcell.ColorWhite)
	t.SetTitle(fmt.Sprintf(TitleFmt, t.name, "-", 0))
	t.showNoData("Loading...")
	t.SetInputCapture(t.keyboard)
	t.bindKeys()

	return nil
}

// Name returns the component name.
func (t *Table) Name() string {
	return t.name
}

// Start starts the component.
func (t *Table) Start() {}

// Stop terminates the component.
func (t *Table) Stop() {}

// SetQueueFn sets how view updates are scheduled on the UI thread.
func (t *Table) SetQueueFn(fn func(func())) {
	t.queueFn = fn
}

// SetErrFn sets the model error handler.
func (t *Table) SetErrFn(fn func(error)) {
	t.errFn = fn
}

// SetEnterFn sets the row activation handler.
func (t *Table) SetEnterFn(fn func(*model1.Row)) {
	t.enterFn = fn
}

// SetPageFn sets the page window handler, called with the pager and the
// page buttons to show.
func (t *Table) SetPageFn(fn func(model1.Pager, int)) {
	t.pageFn = fn
}

// SetColorerFn sets the row colorer.
func (t *Table) SetColorerFn(fn render.ColorerFunc) {
	t.colorerFn = fn
}

// SetModel sets the table data model.
func (t *Table) SetModel(m Tabular) {
	t.mx.Lock()
	old := t.model
	t.model = m
	t.mx.Unlock()

	if old != nil {
		old.RemoveListener(t)
	}
	if m != nil {
		m.AddListener(t)
	}
}

// GetModel returns the current table model.
func (t *Table) GetModel() Tabular {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.model
}

// Actions returns the key actions.
func (t *Table) Actions() *KeyActions {
	return t.actions
}

// Hints returns menu hints for key bindings.
func (t *Table) Hints() MenuHints {
	return t.actions.Hints()
}

// SelectedRow returns the model row under the cursor.
func (t *Table) SelectedRow() (*model1.Row, bool) {
	t.mx.RLock()
	data := t.data
	t.mx.RUnlock()
	if data == nil {
		return nil, false
	}

	row, _ := t.GetSelection()
	rows := data.Rows()
	if row < 1 || row > len(rows) {
		return nil, false
	}

	return rows[row-1], true
}

func (t *Table) bindKeys() {
	t.actions.Bulk(KeyMap{
		KeySlash:       NewKeyAction("Search", t.searchHandler, true),
		KeySpace:       NewKeyAction("Select", t.selectHandler, true),
		tcell.KeyCtrlA: NewKeyAction("Select All", t.selectAllHandler(true), true),
		tcell.KeyCtrlU: NewKeyAction("Unselect All", t.selectAllHandler(false), true),
		KeyN:           NewKeyAction("Next Page", t.nextPageHandler, true),
		KeyP:           NewKeyAction("Prev Page", t.prevPageHandler, true),
		tcell.KeyPgDn:  NewKeyAction("Next Page", t.nextPageHandler, false),
		tcell.KeyPgUp:  NewKeyAction("Prev Page", t.prevPageHandler, false),
		tcell.KeyCtrlR: NewKeyAction("Reload", t.reloadHandler, true),
		tcell.KeyEnter: NewKeyAction("View", t.enterHandler, true),
		tcell.KeyEsc:   NewKeyAction("Clear Search", t.clearSearchHandler, false),
	})
	for k := Key1; k <= Key9; k++ {
		t.actions.Add(k, NewKeyAction("Sort", t.sortHandler(int(k-Key1)), false))
	}
}

// keyboard handles table keyboard input.
func (t *Table) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	key := evt.Key()

	t.mx.RLock()
	searchActive := t.searchActive
	t.mx.RUnlock()
	if searchActive {
		return t.handleSearchInput(evt)
	}

	row, col := t.GetSelection()
	rowCount := t.GetRowCount()

	if key == tcell.KeyRune {
		switch evt.Rune() {
		case 'j':
			if row < rowCount-1 {
				t.Select(row+1, col)
			}
			return nil
		case 'k':
			if row > 1 {
				t.Select(row-1, col)
			}
			return nil
		case 'g':
			if rowCount > 1 {
				t.Select(1, col)
			}
			return nil
		case 'G':
			if rowCount > 1 {
				t.Select(rowCount-1, col)
			}
			return nil
		}
	}

	actionKey := key
	if key == tcell.KeyRune {
		actionKey = tcell.Key(evt.Rune())
	}
	if action, ok := t.actions.Get(actionKey); ok {
		return action.Action(evt)
	}

	return evt
}

// handleSearchInput feeds typed text to the model as a global search.
func (t *Table) handleSearchInput(evt *tcell.EventKey) *tcell.EventKey {
	switch evt.Key() {
	case tcell.KeyEsc:
		t.mx.Lock()
		t.searchActive = false
		t.searchText = ""
		t.mx.Unlock()
		t.search("")
		return nil

	case tcell.KeyEnter:
		t.mx.Lock()
		t.searchActive = false
		t.mx.Unlock()
		t.updateTitle()
		return nil

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		t.mx.Lock()
		if r := []rune(t.searchText); len(r) > 0 {
			t.searchText = string(r[:len(r)-1])
		}
		text := t.searchText
		t.mx.Unlock()
		t.search(text)
		return nil

	case tcell.KeyRune:
		t.mx.Lock()
		t.searchText += string(evt.Rune())
		text := t.searchText
		t.mx.Unlock()
		t.search(text)
		return nil
	}

	return evt
}

func (t *Table) search(text string) {
	t.updateTitle()
	t.run(func(ctx context.Context, m Tabular) error {
		return m.Search(ctx, text, nil)
	})
}

// IsSearching returns true while search input is active.
func (t *Table) IsSearching() bool {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.searchActive
}

// SetSearch applies a global search as if typed.
func (t *Table) SetSearch(text string) {
	t.mx.Lock()
	t.searchText = text
	t.mx.Unlock()
	t.search(text)
}

// run executes a model operation off the UI thread.
func (t *Table) run(fn func(context.Context, Tabular) error) {
	m := t.GetModel()
	if m == nil {
		return
	}
	go func() {
		if err := fn(context.Background(), m); err != nil {
			t.errFn(err)
		}
	}()
}

func (t *Table) sortHandler(index int) ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		t.run(func(ctx context.Context, m Tabular) error {
			return m.SortByIndex(ctx, index)
		})
		return nil
	}
}

func (t *Table) searchHandler(*tcell.EventKey) *tcell.EventKey {
	t.mx.Lock()
	t.searchActive = true
	t.mx.Unlock()
	t.updateTitle()

	return nil
}

func (t *Table) clearSearchHandler(*tcell.EventKey) *tcell.EventKey {
	t.mx.Lock()
	was := t.searchText != ""
	t.searchText = ""
	t.mx.Unlock()

	if was {
		t.search("")
	}
	return nil
}

func (t *Table) selectHandler(*tcell.EventKey) *tcell.EventKey {
	m := t.GetModel()
	row, ok := t.SelectedRow()
	if m == nil || !ok {
		return nil
	}
	if m.ToggleSelection(row) {
		t.refreshRows()
	}

	return nil
}

func (t *Table) selectAllHandler(selected bool) ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		if m := t.GetModel(); m != nil && m.ToggleSelectionAll(selected) {
			t.refreshRows()
		}
		return nil
	}
}

func (t *Table) nextPageHandler(*tcell.EventKey) *tcell.EventKey {
	t.run(func(ctx context.Context, m Tabular) error {
		return m.NextPage(ctx)
	})
	return nil
}

func (t *Table) prevPageHandler(*tcell.EventKey) *tcell.EventKey {
	t.run(func(ctx context.Context, m Tabular) error {
		return m.PrevPage(ctx)
	})
	return nil
}

func (t *Table) reloadHandler(*tcell.EventKey) *tcell.EventKey {
	t.run(func(ctx context.Context, m Tabular) error {
		return m.Reload(ctx)
	})
	return nil
}

func (t *Table) enterHandler(*tcell.EventKey) *tcell.EventKey {
	if t.enterFn == nil {
		return nil
	}
	if row, ok := t.SelectedRow(); ok {
		t.enterFn(row)
	}

	return nil
}

// refreshRows re-renders from a fresh model snapshot.
func (t *Table) refreshRows() {
	if m := t.GetModel(); m != nil {
		t.UpdateUI(m.Peek())
	}
}

// showNoData displays a message when there's no data.
func (t *Table) showNoData(msg string) {
	t.Clear()
	cell := tview.NewTableCell(msg)
	cell.SetTextColor(tcell.ColorGray)
	cell.SetAlign(tview.AlignCenter)
	cell.SetSelectable(false)
	t.SetCell(0, 0, cell)
}

// UpdateUI renders a table snapshot.
func (t *Table) UpdateUI(data *model1.TableData) {
	t.mx.Lock()
	t.data = data
	t.mx.Unlock()

	row, _ := t.GetSelection()
	t.Clear()
	if data == nil {
		t.showNoData("No data")
		t.updateTitle()
		return
	}

	t.buildHeader(data)
	if data.Empty() {
		cell := tview.NewTableCell("No matching rows")
		cell.SetTextColor(tcell.ColorGray)
		cell.SetSelectable(false)
		t.SetCell(1, 0, cell)
	}
	for i, cells := range t.renderer.Render(data) {
		t.buildRow(data.Rows()[i], cells, i+1)
	}
	t.updateTitle()

	if n := t.GetRowCount(); n > 1 {
		switch {
		case row < 1:
			t.Select(1, 0)
		case row >= n:
			t.Select(n-1, 0)
		default:
			t.Select(row, 0)
		}
	}
}

func (t *Table) buildHeader(data *model1.TableData) {
	sortCol := data.SortColumn()
	offset := 0
	hh := t.renderer.Headers(data)
	if data.ShowCheckbox() {
		offset = 1
	}
	for i, h := range hh {
		cell := tview.NewTableCell(h)
		cell.SetTextColor(render.HeaderColor)
		cell.SetBackgroundColor(tcell.ColorDefault)
		cell.SetExpansion(1)
		cell.SetSelectable(false)
		if i >= offset && sortCol != nil && data.Columns()[i-offset] == sortCol {
			cell.SetTextColor(render.SortColor)
			cell.SetAttributes(tcell.AttrBold)
		}
		t.SetCell(0, i, cell)
	}
}

func (t *Table) buildRow(row *model1.Row, cells []string, rowIdx int) {
	color := t.colorerFn(row)
	for col, field := range cells {
		cell := tview.NewTableCell(field)
		cell.SetTextColor(color)
		cell.SetBackgroundColor(tcell.ColorDefault)
		cell.SetExpansion(1)
		if col == 0 {
			cell.SetReference(row)
		}
		t.SetCell(rowIdx, col, cell)
	}
}

// Title returns the table title for the current state.
func (t *Table) Title() string {
	t.mx.RLock()
	defer t.mx.RUnlock()

	page, count := "-", 0
	if t.data != nil {
		p := t.data.Pager()
		page = fmt.Sprintf("%d/%d", p.CurrentPage, p.NumberOfPages)
		count = t.data.RowCount()
	}
	if t.searchActive || t.searchText != "" {
		cursor := ""
		if t.searchActive {
			cursor = "█"
		}
		return fmt.Sprintf(SearchTitleFmt, t.name, page, count, t.searchText+cursor)
	}

	return fmt.Sprintf(TitleFmt, t.name, page, count)
}

func (t *Table) updateTitle() {
	title := t.Title()
	t.SetTitle(title)
}

// TableDataChanged implements model.TableListener.
func (t *Table) TableDataChanged(data *model1.TableData) {
	t.queueFn(func() {
		t.UpdateUI(data)
		if t.pageFn != nil && data != nil {
			t.pageFn(data.Pager(), t.maxSize())
		}
	})
}

// TableLoadFailed implements model.TableListener.
func (t *Table) TableLoadFailed(err error) {
	t.queueFn(func() {
		t.SetTitle(fmt.Sprintf(" [Error] %s: %s ", t.name, strings.TrimSpace(err.Error())))
	})
	t.errFn(err)
}

// SelectionChanged implements model.TableListener.
func (t *Table) SelectionChanged(*model1.Row) {}

// PageChanged implements model.TableListener.
func (t *Table) PageChanged(int, int) {}

// DataRowUpdated implements model.TableListener.
func (t *Table) DataRowUpdated(*model1.Row, jsondiff.Patch) {
	t.queueFn(t.refreshRows)
}

func (t *Table) maxSize() int {
	if m := t.GetModel(); m != nil {
		return m.Options().MaxSize
	}
	return model.DefaultMaxSize
}
