package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Velocidex/ordereddict"
	"github.com/smarttable/smarttable/internal/dao"
	"github.com/smarttable/smarttable/internal/model1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/wI2L/jsondiff"
)

type LocalTableSuite struct {
	suite.Suite

	ctx   context.Context
	coll  *dao.Collection
	table *Table
	l     *recorder
}

func TestLocalTable(t *testing.T) {
	suite.Run(t, new(LocalTableSuite))
}

func (s *LocalTableSuite) SetupTest() {
	s.ctx = context.Background()
	s.coll = dao.NewCollection(makeRows(25))

	opts := DefaultOptions()
	opts.SelectionMode = model1.SelectionMultiple
	table, err := NewTable("people", dao.NewLocalSource(s.coll), opts)
	s.Require().NoError(err)
	s.table = table
	s.l = new(recorder)
	s.table.AddListener(s.l)
	s.Require().NoError(s.table.Reload(s.ctx))
}

func (s *LocalTableSuite) TestDetectsColumns() {
	cols := s.table.Columns()
	s.Require().Len(cols, 3)
	s.Equal("id", cols[0].Map)
	s.Equal("name", cols[1].Map)
	s.Equal("group", cols[2].Map)
	s.Equal(1, s.l.dataChanged())
}

func (s *LocalTableSuite) TestPagination() {
	s.Equal(3, s.table.NumberOfPages())
	s.Equal(1, s.table.CurrentPage())
	s.Equal([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ids(s.table.Rows()))

	s.Require().NoError(s.table.ChangePage(s.ctx, 2))
	s.Equal([]int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, ids(s.table.Rows()))
	s.Equal([][2]int{{1, 2}}, s.l.pageChanges())

	s.Require().NoError(s.table.NextPage(s.ctx))
	s.Equal([]int{21, 22, 23, 24, 25}, ids(s.table.Rows()))
	s.Require().NoError(s.table.NextPage(s.ctx))
	s.Equal(3, s.table.CurrentPage())

	s.Require().NoError(s.table.ChangePage(s.ctx, 0))
	s.Equal(3, s.table.CurrentPage())
	s.Len(s.l.pageChanges(), 2)

	s.Require().NoError(s.table.PrevPage(s.ctx))
	s.Equal(2, s.table.CurrentPage())
}

func (s *LocalTableSuite) TestSearchRefilters() {
	s.Require().NoError(s.table.Search(s.ctx, "odd", nil))
	s.Equal(2, s.table.NumberOfPages())
	s.Equal([]int{1, 3, 5, 7, 9, 11, 13, 15, 17, 19}, ids(s.table.Rows()))
	s.Equal("odd", s.table.GlobalSearch())

	name := s.table.Columns()[1]
	s.Require().NoError(s.table.Search(s.ctx, "user-2", name))
	s.Equal("", s.table.GlobalSearch())
	s.Equal(model1.PredicateMap{"$": "", "id": "", "name": "user-2", "group": ""}, s.table.Predicates())
	s.Equal(1, s.table.NumberOfPages())
	s.Equal([]int{2, 20, 21, 22, 23, 24, 25}, ids(s.table.Rows()))

	group := s.table.Columns()[2]
	s.Require().NoError(s.table.Search(s.ctx, "odd", group))
	s.Equal("", name.FilterPredicate)
	s.Equal(model1.PredicateMap{"$": "", "id": "", "name": "", "group": "odd"}, s.table.Predicates())
	s.Equal(2, s.table.NumberOfPages())
	s.Equal([]int{1, 3, 5, 7, 9, 11, 13, 15, 17, 19}, ids(s.table.Rows()))

	s.Require().NoError(s.table.Search(s.ctx, "", nil))
	s.Equal(3, s.table.NumberOfPages())
}

func (s *LocalTableSuite) TestSearchKeepsPage() {
	s.Require().NoError(s.table.ChangePage(s.ctx, 3))
	s.Require().NoError(s.table.Search(s.ctx, "user-1", nil))

	s.Equal(3, s.table.CurrentPage())
	s.Equal(2, s.table.NumberOfPages())
	s.Empty(s.table.Rows())
}

func (s *LocalTableSuite) TestSortToggle() {
	id := s.table.Columns()[0]

	s.Require().NoError(s.table.SortBy(s.ctx, id))
	s.Equal(model1.SortDescending, id.Reverse)
	s.Equal("id", id.SortPredicate)
	s.Equal([]int{25, 24, 23, 22, 21, 20, 19, 18, 17, 16}, ids(s.table.Rows()))

	s.Require().NoError(s.table.SortBy(s.ctx, id))
	s.Equal(model1.SortAscending, id.Reverse)
	s.Equal([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ids(s.table.Rows()))

	name := s.table.Columns()[1]
	s.Require().NoError(s.table.SortBy(s.ctx, name))
	s.Equal(model1.SortNone, id.Reverse)
	s.Equal(name, s.table.SortColumn())
}

func (s *LocalTableSuite) TestSortUnsortable() {
	col := s.table.InsertColumn(model1.ColumnSpec{Label: "Fixed", Map: "id", IsSortable: boolPtr(false)}, 0)
	before := s.l.dataChanged()

	s.Require().NoError(s.table.SortBy(s.ctx, col))
	s.Equal(model1.SortNone, col.Reverse)
	s.Nil(s.table.SortColumn())
	s.Equal(before+1, s.l.dataChanged())
}

func (s *LocalTableSuite) TestSortThenFilterCommutes() {
	id := s.table.Columns()[0]
	s.Require().NoError(s.table.SortBy(s.ctx, id))
	s.Require().NoError(s.table.Search(s.ctx, "even", nil))
	sortedFirst := ids(s.table.Rows())

	s.SetupTest()
	s.Require().NoError(s.table.Search(s.ctx, "even", nil))
	s.Require().NoError(s.table.SortBy(s.ctx, s.table.Columns()[0]))

	s.Equal(sortedFirst, ids(s.table.Rows()))
}

func (s *LocalTableSuite) TestPaginationDisabled() {
	opts := s.table.Options()
	opts.IsPaginationEnabled = false
	s.table.SetGlobalConfig(opts)
	s.Len(s.table.Rows(), 10)

	s.Require().NoError(s.table.Reload(s.ctx))
	s.Len(s.table.Rows(), 25)
	s.Equal(3, s.table.NumberOfPages())
}

func (s *LocalTableSuite) TestSelection() {
	rows := s.table.Rows()

	s.True(s.table.ToggleSelection(rows[0]))
	s.True(s.table.ToggleSelection(rows[1]))
	s.Len(s.table.SelectedRows(), 2)
	s.False(s.table.AllSelected())

	s.True(s.table.ToggleSelectionAll(true))
	s.True(s.table.AllSelected())
	for _, r := range s.table.Rows() {
		s.True(r.IsSelected)
	}

	s.Require().NoError(s.table.ChangePage(s.ctx, 2))
	s.False(s.table.AllSelected())
	s.Empty(s.table.SelectedRows())

	s.Require().NoError(s.table.ChangePage(s.ctx, 1))
	s.True(s.table.AllSelected())
	s.True(s.coll.Rows()[0].IsSelected)
}

func (s *LocalTableSuite) TestSelectionSingle() {
	s.Require().NoError(s.table.SetSelectionMode(s.ctx, model1.SelectionSingle))
	rows := s.table.Rows()

	s.True(s.table.ToggleSelection(rows[0]))
	s.True(s.table.ToggleSelection(rows[1]))
	s.Equal(model1.Rows{rows[1]}, s.table.SelectedRows())
	s.Equal(model1.Rows{rows[0], rows[0], rows[1]}, s.l.selections())

	s.False(s.table.ToggleSelectionAll(true))
	s.False(s.table.ToggleSelection(model1.NewRow(nil)))
}

func (s *LocalTableSuite) TestSelectionNone() {
	s.Require().NoError(s.table.SetSelectionMode(s.ctx, model1.SelectionNone))
	rows := s.table.Rows()

	s.False(s.table.ToggleSelection(rows[0]))
	s.False(rows[0].IsSelected)
	s.Empty(s.l.selections())
}

func (s *LocalTableSuite) TestColumnEdits() {
	col := s.table.InsertColumn(model1.ColumnSpec{Label: "Name", Map: "name"}, 0)
	s.Equal(col, s.table.Columns()[0])
	s.Len(s.table.Columns(), 4)

	s.True(s.table.MoveColumn(0, 3))
	s.Equal(col, s.table.Columns()[3])
	s.False(s.table.MoveColumn(0, 9))

	s.Require().NoError(s.table.SortBy(s.ctx, col))
	removed, ok := s.table.RemoveColumn(3)
	s.True(ok)
	s.Equal(col, removed)
	s.Nil(s.table.SortColumn())
	s.Equal(model1.SortNone, col.Reverse)

	_, ok = s.table.RemoveColumn(12)
	s.False(ok)
}

func (s *LocalTableSuite) TestClearColumnsRedetects() {
	s.table.InsertColumn(model1.ColumnSpec{Map: "extra"}, -1)
	s.Len(s.table.Columns(), 4)

	s.Require().NoError(s.table.ClearColumns(s.ctx))
	s.Len(s.table.Columns(), 3)
	s.Equal(0, s.table.DetectColumns(s.table.Rows()))
}

func (s *LocalTableSuite) TestRemoveDataRow() {
	rows := s.table.Rows()

	row, ok := s.table.RemoveDataRow(0)
	s.True(ok)
	s.Equal(rows[0], row)
	s.Len(s.table.Rows(), 9)
	s.Equal(24, s.coll.Len())

	_, ok = s.table.RemoveDataRow(42)
	s.False(ok)

	s.Require().NoError(s.table.Reload(s.ctx))
	s.Equal([]int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, ids(s.table.Rows()))
}

func (s *LocalTableSuite) TestMoveDataRow() {
	s.True(s.table.MoveDataRow(0, 2))
	s.Equal([]int{2, 3, 1}, ids(s.table.Rows())[:3])
	s.False(s.table.MoveDataRow(-1, 2))
}

func (s *LocalTableSuite) TestUpdateDataRow() {
	row := s.table.Rows()[0]

	ok, err := s.table.UpdateDataRow(row, "name", "fred")
	s.Require().NoError(err)
	s.True(ok)
	v, _ := row.Get("name")
	s.Equal("fred", v)
	s.Require().Len(s.l.updates(), 1)
	patch := s.l.updates()[0]
	s.Require().Len(patch, 1)
	s.Equal(jsondiff.OperationReplace, patch[0].Type)
	s.Equal("/name", patch[0].Path)

	ok, err = s.table.UpdateDataRow(row, "name", "fred")
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.table.UpdateDataRow(row, "address.city", "Paris")
	s.Require().NoError(err)
	s.True(ok)
	city, _ := row.Get("address.city")
	s.Equal("Paris", city)

	ok, err = s.table.UpdateDataRow(model1.NewRow(nil), "name", "x")
	s.Require().NoError(err)
	s.False(ok)
	s.Len(s.l.updates(), 2)
}

func (s *LocalTableSuite) TestPeek() {
	data := s.table.Peek()

	s.Equal(10, data.RowCount())
	s.Equal(3, data.Pager().NumberOfPages)
	s.False(data.IsRemote())
	s.Len(data.Columns(), 3)
}

func TestNewTableInvalidSource(t *testing.T) {
	_, err := NewTable("bad", dao.Source{}, DefaultOptions())
	assert.ErrorIs(t, err, dao.ErrNoSource)
}

func TestEmptyLocalTable(t *testing.T) {
	table, err := NewTable("empty", dao.NewLocalSource(dao.NewCollection(nil)), DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, table.Reload(context.Background()))
	assert.Equal(t, 1, table.NumberOfPages())
	assert.Empty(t, table.Rows())
	assert.Empty(t, table.Columns())
	assert.True(t, table.AllSelected())
}

func TestCustomStrategies(t *testing.T) {
	var sorted, filtered int
	opts := DefaultOptions()
	opts.SortAlgorithm = model1.SorterFunc(func(rows model1.Rows, key model1.SortKey, order model1.SortOrder) model1.Rows {
		sorted++
		out := rows.Clone()
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
		return out
	})
	opts.FilterAlgorithm = model1.FilterFunc(func(rows model1.Rows, preds model1.PredicateMap) model1.Rows {
		filtered++
		return rows[:4]
	})

	table, err := NewTable("custom", dao.NewLocalSource(dao.NewCollection(makeRows(8))), opts)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, table.Reload(ctx))
	require.NoError(t, table.SortByIndex(ctx, 0))

	assert.Equal(t, []int{4, 3, 2, 1}, ids(table.Rows()))
	assert.Equal(t, 1, sorted)
	assert.Equal(t, 2, filtered)
}

func TestRemoteTable(t *testing.T) {
	var (
		mx      sync.Mutex
		queries []dao.Query
	)
	paged := dao.NewPagedCollection(dao.NewCollection(makeRows(25)), nil, nil)
	f := dao.FetcherFunc(func(ctx context.Context, q dao.Query) (*dao.Page, error) {
		mx.Lock()
		queries = append(queries, q)
		mx.Unlock()
		return paged.Fetch(ctx, q)
	})

	table, err := NewTable("remote", dao.NewRemoteSource(f), DefaultOptions())
	require.NoError(t, err)
	l := new(recorder)
	table.AddListener(l)
	ctx := context.Background()

	require.NoError(t, table.Reload(ctx))
	assert.True(t, table.IsRemote())
	assert.Equal(t, 3, table.NumberOfPages())
	assert.Len(t, table.Columns(), 3)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ids(table.Rows()))

	require.NoError(t, table.SortByIndex(ctx, 0))
	require.NoError(t, table.ChangePage(ctx, 9))
	assert.Equal(t, 3, table.CurrentPage())
	assert.Equal(t, []int{5, 4, 3, 2, 1}, ids(table.Rows()))
	assert.Equal(t, [][2]int{{1, 3}}, l.pageChanges())

	require.NoError(t, table.Search(ctx, "even", nil))

	mx.Lock()
	defer mx.Unlock()
	require.Len(t, queries, 4)
	assert.Equal(t, dao.Query{Page: 1, ItemsByPage: 10, Filters: model1.PredicateMap{}}, queries[0])
	assert.Equal(t, "id", queries[1].SortField)
	assert.Equal(t, model1.SortDescending, queries[1].SortOrder)
	assert.Equal(t, 9, queries[2].Page)
	assert.Equal(t, "even", queries[3].Filters["$"])
	assert.Equal(t, 3, queries[3].Page)
}

func TestRemoteFetchFailure(t *testing.T) {
	boom := errors.New("boom")
	f := dao.FetcherFunc(func(context.Context, dao.Query) (*dao.Page, error) {
		return nil, boom
	})
	table, err := NewTable("remote", dao.NewRemoteSource(f), DefaultOptions())
	require.NoError(t, err)
	l := new(recorder)
	table.AddListener(l)

	assert.ErrorIs(t, table.ChangePage(context.Background(), 2), boom)
	assert.Equal(t, []error{boom}, l.failures())
	assert.Empty(t, l.pageChanges())
}

func TestRemoteLastRequestWins(t *testing.T) {
	release := make(chan struct{})
	f := dao.FetcherFunc(func(ctx context.Context, q dao.Query) (*dao.Page, error) {
		if q.Page == 1 {
			<-release
		}
		return &dao.Page{Data: makeRows(q.Page), Count: 30, Page: q.Page}, nil
	})
	table, err := NewTable("remote", dao.NewRemoteSource(f), DefaultOptions())
	require.NoError(t, err)
	ctx := context.Background()

	slow := table.Pipe(ctx)
	require.NoError(t, table.ChangePage(ctx, 2))
	close(release)

	_, err = slow.Wait(ctx)
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.Equal(t, 2, table.CurrentPage())
	assert.Len(t, table.Rows(), 2)
}

func TestRemotePageChangeOvertaken(t *testing.T) {
	var (
		mx    sync.Mutex
		calls int
	)
	entered, release := make(chan struct{}), make(chan struct{})
	f := dao.FetcherFunc(func(ctx context.Context, q dao.Query) (*dao.Page, error) {
		mx.Lock()
		calls++
		first := calls == 1
		mx.Unlock()
		if first {
			close(entered)
			<-release
		}
		return &dao.Page{Data: makeRows(3), Count: 30, Page: q.Page}, nil
	})
	table, err := NewTable("remote", dao.NewRemoteSource(f), DefaultOptions())
	require.NoError(t, err)
	l := new(recorder)
	table.AddListener(l)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- table.ChangePage(ctx, 2) }()
	<-entered

	require.NoError(t, table.Reload(ctx))
	assert.Equal(t, 2, table.CurrentPage())
	assert.Equal(t, [][2]int{{1, 2}}, l.pageChanges())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 2, table.CurrentPage())
	assert.Equal(t, [][2]int{{1, 2}}, l.pageChanges())
}

func TestRemoteStaleFailureDropped(t *testing.T) {
	boom := errors.New("boom")
	release := make(chan struct{})
	f := dao.FetcherFunc(func(ctx context.Context, q dao.Query) (*dao.Page, error) {
		if q.Page == 1 {
			<-release
			return nil, boom
		}
		return &dao.Page{Data: makeRows(2), Count: 30, Page: q.Page}, nil
	})
	table, err := NewTable("remote", dao.NewRemoteSource(f), DefaultOptions())
	require.NoError(t, err)
	l := new(recorder)
	table.AddListener(l)
	ctx := context.Background()

	slow := table.Pipe(ctx)
	require.NoError(t, table.ChangePage(ctx, 2))
	close(release)

	_, err = slow.Wait(ctx)
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.Empty(t, l.failures())
	assert.Len(t, table.Rows(), 2)
}

func TestRemoteNilPage(t *testing.T) {
	f := dao.FetcherFunc(func(context.Context, dao.Query) (*dao.Page, error) {
		return nil, nil
	})
	table, err := NewTable("remote", dao.NewRemoteSource(f), DefaultOptions())
	require.NoError(t, err)
	l := new(recorder)
	table.AddListener(l)

	require.NoError(t, table.Reload(context.Background()))
	assert.Empty(t, table.Rows())
	assert.Equal(t, 1, table.CurrentPage())
	assert.Equal(t, 1, l.dataChanged())
}

func TestRemoteCacheInvalidation(t *testing.T) {
	var (
		mx    sync.Mutex
		calls int
	)
	paged := dao.NewPagedCollection(dao.NewCollection(makeRows(5)), nil, nil)
	f := dao.FetcherFunc(func(ctx context.Context, q dao.Query) (*dao.Page, error) {
		mx.Lock()
		calls++
		mx.Unlock()
		return paged.Fetch(ctx, q)
	})
	count := func() int {
		mx.Lock()
		defer mx.Unlock()
		return calls
	}
	cached := dao.NewCachedFetcher(f, dao.NewPageCache(time.Minute))
	table, err := NewTable("remote", dao.NewRemoteSource(cached), DefaultOptions())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, table.Reload(ctx))
	require.NoError(t, table.Search(ctx, "", nil))
	assert.Equal(t, 1, count())

	require.NoError(t, table.Reload(ctx))
	assert.Equal(t, 2, count())

	changed, err := table.UpdateDataRow(table.Rows()[0], "name", "fred")
	require.NoError(t, err)
	assert.True(t, changed)
	require.NoError(t, table.Search(ctx, "", nil))
	assert.Equal(t, 3, count())
}

func TestRemoteRemoveDataRow(t *testing.T) {
	coll := dao.NewCollection(makeRows(5))
	cached := dao.NewCachedFetcher(dao.NewPagedCollection(coll, nil, nil), dao.NewPageCache(time.Minute))
	table, err := NewTable("remote", dao.NewRemoteSource(cached), DefaultOptions())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, table.Reload(ctx))

	_, ok := table.RemoveDataRow(0)
	require.True(t, ok)
	assert.Equal(t, 4, coll.Len())

	require.NoError(t, table.Search(ctx, "", nil))
	assert.Equal(t, []int{2, 3, 4, 5}, ids(table.Rows()))
}

func TestFutureWaitCanceled(t *testing.T) {
	f := newFuture(1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	f.resolve(nil, nil)
	<-f.Done()
}

func TestWatch(t *testing.T) {
	var (
		mx    sync.Mutex
		calls int
	)
	f := dao.FetcherFunc(func(context.Context, dao.Query) (*dao.Page, error) {
		mx.Lock()
		calls++
		mx.Unlock()
		return &dao.Page{Data: makeRows(1), Count: 1, Page: 1}, nil
	})
	table, err := NewTable("remote", dao.NewRemoteSource(f), DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, table.Watch(context.Background(), 5*time.Millisecond))
	assert.Eventually(t, func() bool {
		mx.Lock()
		defer mx.Unlock()
		return calls >= 3
	}, time.Second, 5*time.Millisecond)
	table.Stop()
}

// Helpers...

type recorder struct {
	NopListener

	mx      sync.Mutex
	data    int
	pages   [][2]int
	sels    model1.Rows
	patches []jsondiff.Patch
	errs    []error
}

func (r *recorder) TableDataChanged(*model1.TableData) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.data++
}

func (r *recorder) TableLoadFailed(err error) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) SelectionChanged(row *model1.Row) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.sels = append(r.sels, row)
}

func (r *recorder) PageChanged(old, new int) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.pages = append(r.pages, [2]int{old, new})
}

func (r *recorder) DataRowUpdated(_ *model1.Row, p jsondiff.Patch) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.patches = append(r.patches, p)
}

func (r *recorder) dataChanged() int {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.data
}

func (r *recorder) pageChanges() [][2]int {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.pages
}

func (r *recorder) selections() model1.Rows {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.sels
}

func (r *recorder) updates() []jsondiff.Patch {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.patches
}

func (r *recorder) failures() []error {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.errs
}

func makeRows(n int) model1.Rows {
	rows := make(model1.Rows, 0, n)
	for i := 1; i <= n; i++ {
		group := "even"
		if i%2 == 1 {
			group = "odd"
		}
		rows = append(rows, model1.NewRow(ordereddict.NewDict().
			Set("id", i).
			Set("name", fmt.Sprintf("user-%d", i)).
			Set("group", group)))
	}
	return rows
}

func ids(rows model1.Rows) []int {
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		v, _ := r.Get("id")
		out = append(out, v.(int))
	}
	return out
}

func boolPtr(b bool) *bool {
	return &b
}
