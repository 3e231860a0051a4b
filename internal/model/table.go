package model

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/smarttable/smarttable/internal/dao"
	"github.com/smarttable/smarttable/internal/logging"
	"github.com/smarttable/smarttable/internal/model1"
	"github.com/wI2L/jsondiff"
)

// DefaultRefreshRate is the watch interval used when none is given.
const DefaultRefreshRate = 5 * time.Second

// Table owns the state of one table: columns, predicates, the sort
// directive, pagination, selection and the displayed rows. Every change
// to displayed rows goes through a pipe.
type Table struct {
	name      string
	source    dao.Source
	opts      Options
	columns   *model1.Columns
	preds     *model1.Predicates
	sort      *model1.SortDirective
	pager     *model1.Pager
	selection *model1.Selection
	rows      model1.Rows
	listeners []TableListener
	seq       uint64
	pageFrom  int
	paging    bool
	cancelFn  context.CancelFunc
	log       *logrus.Entry
	mx        sync.RWMutex
}

// NewTable returns a table over a source. The source variant is fixed for
// the table lifetime.
func NewTable(name string, src dao.Source, opts Options) (*Table, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	opts = opts.normalize()

	return &Table{
		name:      name,
		source:    src,
		opts:      opts,
		columns:   model1.NewColumns(),
		preds:     model1.NewPredicates(),
		sort:      model1.NewSortDirective(),
		pager:     model1.NewPager(opts.ItemsByPage),
		selection: model1.NewSelection(opts.SelectionMode),
		listeners: make([]TableListener, 0, 2),
		log: logging.For("table").WithFields(logrus.Fields{
			"table":  name,
			"source": src.Kind.String(),
		}),
	}, nil
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// IsRemote returns true if rows come from a remote source.
func (t *Table) IsRemote() bool {
	return t.source.IsRemote()
}

// Options returns the table configuration.
func (t *Table) Options() Options {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.opts
}

// SetGlobalConfig replaces the table configuration. Displayed rows are
// left alone until the next pipe.
func (t *Table) SetGlobalConfig(opts Options) {
	opts = opts.normalize()

	t.mx.Lock()
	defer t.mx.Unlock()
	t.opts = opts
	t.pager.ItemsByPage = opts.ItemsByPage
	t.selection.Mode = opts.SelectionMode
}

// AddListener registers a table listener.
func (t *Table) AddListener(l TableListener) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.listeners = append(t.listeners, l)
}

// RemoveListener unregisters a table listener.
func (t *Table) RemoveListener(l TableListener) {
	t.mx.Lock()
	defer t.mx.Unlock()

	for i, listener := range t.listeners {
		if listener == l {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			return
		}
	}
}

// Columns returns the column order.
func (t *Table) Columns() []*model1.Column {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.columns.All()
}

// Rows returns the displayed rows.
func (t *Table) Rows() model1.Rows {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.rows.Clone()
}

// Predicates returns the active predicate map.
func (t *Table) Predicates() model1.PredicateMap {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.preds.Map()
}

// GlobalSearch returns the global search text.
func (t *Table) GlobalSearch() string {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.preds.Global()
}

// SortColumn returns the active sort column, if any.
func (t *Table) SortColumn() *model1.Column {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.sort.Active()
}

// CurrentPage returns the 1-based current page.
func (t *Table) CurrentPage() int {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.pager.CurrentPage
}

// NumberOfPages returns the page count computed by the last pipe.
func (t *Table) NumberOfPages() int {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.pager.NumberOfPages
}

// AllSelected returns true if every displayed row is selected.
func (t *Table) AllSelected() bool {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.selection.AllSelected()
}

// Peek returns a snapshot of what the table displays.
func (t *Table) Peek() *model1.TableData {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.snapshot()
}

func (t *Table) snapshot() *model1.TableData {
	return model1.NewTableData(
		t.columns.All(),
		t.rows,
		*t.pager,
		t.preds.Map(),
		t.sort.Active(),
		t.selection.AllSelected(),
	).WithFlags(t.opts.DisplaySelectionCheckbox, t.source.IsRemote())
}

// Pipe recomputes the displayed rows. Local sources resolve before Pipe
// returns. Remote sources issue one fetch and resolve when it completes;
// a response overtaken by a newer pipe is dropped and resolves with
// ErrSuperseded.
func (t *Table) Pipe(ctx context.Context) *Future {
	if t.source.IsRemote() {
		return t.pipeRemote(ctx)
	}
	return t.pipeLocal()
}

func (t *Table) pipeLocal() *Future {
	t.mx.Lock()
	t.seq++
	f := newFuture(t.seq)

	rows := t.source.Local.Rows()
	if t.columns.Detect(rows) > 0 {
		t.preds.Rebuild(t.columns)
	}
	rows = t.opts.FilterAlgorithm.Filter(rows, t.preds.Map())
	rows = t.sort.Apply(rows, t.opts.SortAlgorithm)
	t.pager.Update(len(rows))
	if t.opts.IsPaginationEnabled {
		rows = t.pager.Slice(rows)
	}
	t.log.WithFields(logrus.Fields{
		"page":  t.pager.CurrentPage,
		"pages": t.pager.NumberOfPages,
		"rows":  len(rows),
	}).Debug("Piped local rows")
	data := t.adopt(rows)
	from, to, moved := t.takePageChange()
	t.mx.Unlock()

	t.notifyDataChanged(data)
	if moved {
		t.notifyPageChanged(from, to)
	}
	f.resolve(rows, nil)

	return f
}

func (t *Table) pipeRemote(ctx context.Context) *Future {
	t.mx.Lock()
	t.seq++
	f := newFuture(t.seq)
	field, order := t.sort.Field()
	q := dao.Query{
		Page:        t.pager.CurrentPage,
		ItemsByPage: t.pager.ItemsByPage,
		SortField:   field,
		SortOrder:   order,
		Filters:     t.preds.Map(),
	}
	fetcher := t.source.Remote
	t.mx.Unlock()

	log := t.log.WithField("ticket", f.ticket)
	log.WithField("query", q.Key()).Debug("Fetching remote page")

	go func() {
		page, err := fetcher.Fetch(ctx, q)

		t.mx.Lock()
		if f.ticket != t.seq {
			t.mx.Unlock()
			log.WithError(err).Debug("Dropped stale remote page")
			f.resolve(nil, ErrSuperseded)
			return
		}
		if err != nil {
			t.mx.Unlock()
			log.WithError(err).Warn("Remote fetch failed")
			t.notifyLoadFailed(err)
			f.resolve(nil, err)
			return
		}
		if page == nil {
			page = &dao.Page{}
		}
		if page.Page >= 1 {
			t.pager.CurrentPage = page.Page
		}
		t.pager.Update(page.Count)
		if t.columns.Detect(page.Data) > 0 {
			t.preds.Rebuild(t.columns)
		}
		data := t.adopt(page.Data)
		from, to, moved := t.takePageChange()
		t.mx.Unlock()

		log.WithFields(logrus.Fields{
			"page":  page.Page,
			"count": page.Count,
			"rows":  len(page.Data),
		}).Debug("Piped remote rows")
		t.notifyDataChanged(data)
		if moved {
			t.notifyPageChanged(from, to)
		}
		f.resolve(page.Data, nil)
	}()

	return f
}

// adopt installs rows as the displayed rows. Caller holds the lock.
func (t *Table) adopt(rows model1.Rows) *model1.TableData {
	t.rows = rows.Clone()
	t.selection.Refresh(t.rows)
	return t.snapshot()
}

// takePageChange hands out the page move pending since the last landed
// pipe. Caller holds the lock.
func (t *Table) takePageChange() (int, int, bool) {
	if !t.paging {
		return 0, 0, false
	}
	t.paging = false
	return t.pageFrom, t.pager.CurrentPage, true
}

// refresh pipes and waits. A pipe overtaken by a newer one is not an error.
func (t *Table) refresh(ctx context.Context) error {
	_, err := t.Pipe(ctx).Wait(ctx)
	if errors.Is(err, ErrSuperseded) {
		return nil
	}

	return err
}

// Reload drops any cached remote pages and recomputes the displayed rows
// without changing any state.
func (t *Table) Reload(ctx context.Context) error {
	t.invalidate()
	return t.SortBy(ctx, nil)
}

func (t *Table) invalidate() {
	if !t.source.IsRemote() {
		return
	}
	if i, ok := t.source.Remote.(dao.Invalidator); ok {
		i.Invalidate()
	}
}

// SortBy engages col as the sort column, or flips its direction if it is
// already engaged. Unregistered or non sortable columns leave the sort
// untouched but still recompute.
func (t *Table) SortBy(ctx context.Context, col *model1.Column) error {
	t.mx.Lock()
	t.sort.SortBy(t.columns, col)
	t.mx.Unlock()

	return t.refresh(ctx)
}

// SortByIndex sorts by the column at index.
func (t *Table) SortByIndex(ctx context.Context, index int) error {
	t.mx.RLock()
	col, _ := t.columns.At(index)
	t.mx.RUnlock()

	return t.SortBy(ctx, col)
}

// Search filters on col, or on every field when col is nil or not
// registered. Column and global searches are mutually exclusive.
func (t *Table) Search(ctx context.Context, input string, col *model1.Column) error {
	t.mx.Lock()
	t.preds.Search(t.columns, input, col)
	t.mx.Unlock()

	return t.refresh(ctx)
}

// ChangePage moves to page. PageChanged is emitted by the first pipe that
// lands afterwards, even when a newer pipe overtook this one. Pages below 1
// are ignored.
func (t *Table) ChangePage(ctx context.Context, page int) error {
	t.mx.Lock()
	if !t.pager.Valid(page) {
		t.mx.Unlock()
		return nil
	}
	if !t.paging {
		t.pageFrom, t.paging = t.pager.CurrentPage, true
	}
	t.pager.CurrentPage = page
	t.mx.Unlock()

	return t.refresh(ctx)
}

// NextPage moves to the following page if any.
func (t *Table) NextPage(ctx context.Context) error {
	t.mx.RLock()
	ok, page := t.pager.HasNext(), t.pager.CurrentPage+1
	t.mx.RUnlock()
	if !ok {
		return nil
	}

	return t.ChangePage(ctx, page)
}

// PrevPage moves to the preceding page if any.
func (t *Table) PrevPage(ctx context.Context) error {
	t.mx.RLock()
	ok, page := t.pager.HasPrev(), t.pager.CurrentPage-1
	t.mx.RUnlock()
	if !ok {
		return nil
	}

	return t.ChangePage(ctx, page)
}

// SetSelectionMode switches the selection mode and recomputes.
func (t *Table) SetSelectionMode(ctx context.Context, mode model1.SelectionMode) error {
	t.mx.Lock()
	t.opts.SelectionMode = mode
	t.selection.Mode = mode
	t.mx.Unlock()

	return t.refresh(ctx)
}

// InsertColumn builds a column from spec and inserts it at index, or
// appends it when index is out of range.
func (t *Table) InsertColumn(spec model1.ColumnSpec, index int) *model1.Column {
	t.mx.Lock()
	col := t.columns.Insert(spec, index)
	t.preds.Rebuild(t.columns)
	data := t.snapshot()
	t.mx.Unlock()

	t.notifyDataChanged(data)

	return col
}

// RemoveColumn removes the column at index. A sort engaged on it is
// released.
func (t *Table) RemoveColumn(index int) (*model1.Column, bool) {
	t.mx.Lock()
	col, ok := t.columns.Remove(index)
	if !ok {
		t.mx.Unlock()
		return nil, false
	}
	t.sort.Release(col)
	t.preds.Rebuild(t.columns)
	data := t.snapshot()
	t.mx.Unlock()

	t.notifyDataChanged(data)

	return col, true
}

// MoveColumn repositions a column.
func (t *Table) MoveColumn(from, to int) bool {
	t.mx.Lock()
	if !t.columns.Move(from, to) {
		t.mx.Unlock()
		return false
	}
	data := t.snapshot()
	t.mx.Unlock()

	t.notifyDataChanged(data)

	return true
}

// ClearColumns empties the registry and recomputes, so columns get
// detected again from the data.
func (t *Table) ClearColumns(ctx context.Context) error {
	t.mx.Lock()
	t.sort.Clear()
	t.columns.Clear()
	t.preds.Rebuild(t.columns)
	t.mx.Unlock()

	return t.refresh(ctx)
}

// DetectColumns derives columns from rows when none are registered.
func (t *Table) DetectColumns(rows model1.Rows) int {
	t.mx.Lock()
	defer t.mx.Unlock()

	n := t.columns.Detect(rows)
	if n > 0 {
		t.preds.Rebuild(t.columns)
	}

	return n
}

// ToggleSelection flips the selection of a displayed row.
func (t *Table) ToggleSelection(row *model1.Row) bool {
	var changed model1.Rows
	notify := func(r *model1.Row) { changed = append(changed, r) }

	t.mx.Lock()
	index := t.rows.IndexOf(row)
	if index < 0 {
		t.mx.Unlock()
		return false
	}
	ok := t.selection.Select(t.rows, index, !row.IsSelected, notify)
	t.mx.Unlock()

	t.notifySelectionChanged(changed)

	return ok
}

// ToggleSelectionAll selects or deselects every displayed row. It is a
// no-op unless the selection mode is multiple.
func (t *Table) ToggleSelectionAll(selected bool) bool {
	var changed model1.Rows
	notify := func(r *model1.Row) { changed = append(changed, r) }

	t.mx.Lock()
	if t.selection.Mode != model1.SelectionMultiple {
		t.mx.Unlock()
		return false
	}
	for i := range t.rows {
		t.selection.Select(t.rows, i, selected, notify)
	}
	t.mx.Unlock()

	t.notifySelectionChanged(changed)

	return true
}

// SelectedRows returns the selected displayed rows.
func (t *Table) SelectedRows() model1.Rows {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return model1.SelectedRows(t.rows)
}

// RemoveDataRow removes the displayed row at index. The row also leaves a
// source that supports removal, and cached remote pages are dropped.
func (t *Table) RemoveDataRow(index int) (*model1.Row, bool) {
	t.mx.Lock()
	var (
		row *model1.Row
		ok  bool
	)
	t.rows, row, ok = model1.RemoveAt(t.rows, index)
	if !ok {
		t.mx.Unlock()
		return nil, false
	}
	if r, canRemove := t.remover(); canRemove {
		r.Remove(row)
	}
	t.invalidate()
	t.selection.Refresh(t.rows)
	data := t.snapshot()
	t.mx.Unlock()

	t.notifyDataChanged(data)

	return row, true
}

func (t *Table) remover() (dao.Remover, bool) {
	if t.source.IsRemote() {
		r, ok := t.source.Remote.(dao.Remover)
		return r, ok
	}
	r, ok := t.source.Local.(dao.Remover)
	return r, ok
}

// MoveDataRow repositions a displayed row.
func (t *Table) MoveDataRow(from, to int) bool {
	t.mx.Lock()
	if !model1.MoveAt(t.rows, from, to) {
		t.mx.Unlock()
		return false
	}
	data := t.snapshot()
	t.mx.Unlock()

	t.notifyDataChanged(data)

	return true
}

// UpdateDataRow writes value at a dotted field path of a displayed row.
// The write only happens if the value differs. Returns true if the row
// changed.
func (t *Table) UpdateDataRow(row *model1.Row, path string, value interface{}) (bool, error) {
	t.mx.Lock()
	if t.rows.IndexOf(row) < 0 {
		t.mx.Unlock()
		return false, nil
	}
	if old, ok := row.Get(path); ok && reflect.DeepEqual(old, value) {
		t.mx.Unlock()
		return false, nil
	}
	before, err := json.Marshal(row.Fields)
	if err != nil {
		t.mx.Unlock()
		return false, err
	}
	row.Set(path, value)
	t.invalidate()
	after, err := json.Marshal(row.Fields)
	t.mx.Unlock()
	if err != nil {
		return true, err
	}

	patch, err := jsondiff.CompareJSON(before, after)
	if err != nil {
		return true, err
	}
	t.log.WithField("patch", patch.String()).Debug("Updated data row")
	t.notifyDataRowUpdated(row, patch)

	return true, nil
}

// Watch reloads the table periodically until ctx is done or Stop is
// called.
func (t *Table) Watch(ctx context.Context, rate time.Duration) error {
	t.mx.Lock()
	if t.cancelFn != nil {
		t.cancelFn()
	}
	watchCtx, cancel := context.WithCancel(ctx)
	t.cancelFn = cancel
	t.mx.Unlock()

	if err := t.Reload(watchCtx); err != nil {
		return err
	}
	go t.watchLoop(watchCtx, rate)

	return nil
}

func (t *Table) watchLoop(ctx context.Context, rate time.Duration) {
	if rate <= 0 {
		rate = DefaultRefreshRate
	}
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.Reload(ctx); err != nil && !errors.Is(err, context.Canceled) {
				t.log.WithError(err).Warn("Reload failed")
			}
		}
	}
}

// Stop stops the watch loop.
func (t *Table) Stop() {
	t.mx.Lock()
	defer t.mx.Unlock()

	if t.cancelFn != nil {
		t.cancelFn()
		t.cancelFn = nil
	}
}

func (t *Table) listenersCopy() []TableListener {
	t.mx.RLock()
	defer t.mx.RUnlock()

	listeners := make([]TableListener, len(t.listeners))
	copy(listeners, t.listeners)
	return listeners
}

func (t *Table) notifyDataChanged(data *model1.TableData) {
	for _, l := range t.listenersCopy() {
		l.TableDataChanged(data)
	}
}

func (t *Table) notifyLoadFailed(err error) {
	for _, l := range t.listenersCopy() {
		l.TableLoadFailed(err)
	}
}

func (t *Table) notifySelectionChanged(rows model1.Rows) {
	if len(rows) == 0 {
		return
	}
	listeners := t.listenersCopy()
	for _, r := range rows {
		for _, l := range listeners {
			l.SelectionChanged(r)
		}
	}
}

func (t *Table) notifyPageChanged(old, new int) {
	for _, l := range t.listenersCopy() {
		l.PageChanged(old, new)
	}
}

func (t *Table) notifyDataRowUpdated(row *model1.Row, patch jsondiff.Patch) {
	for _, l := range t.listenersCopy() {
		l.DataRowUpdated(row, patch)
	}
}
