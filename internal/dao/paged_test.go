package dao

import (
	"context"
	"fmt"
	"testing"

	"github.com/Velocidex/ordereddict"
	"github.com/smarttable/smarttable/internal/model1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagedCollectionFetch(t *testing.T) {
	p := NewPagedCollection(NewCollection(makeRows(25)), nil, nil)

	uu := map[string]struct {
		q           Query
		count, page int
		first       string
		size        int
	}{
		"first": {
			q:     Query{Page: 1, ItemsByPage: 10},
			count: 25, page: 1, first: "user-1", size: 10,
		},
		"last": {
			q:     Query{Page: 3, ItemsByPage: 10},
			count: 25, page: 3, first: "user-21", size: 5,
		},
		"clamped": {
			q:     Query{Page: 9, ItemsByPage: 10},
			count: 25, page: 3, first: "user-21", size: 5,
		},
		"sorted": {
			q:     Query{Page: 1, ItemsByPage: 5, SortField: "id", SortOrder: model1.SortDescending},
			count: 25, page: 1, first: "user-25", size: 5,
		},
		"filtered": {
			q:     Query{Page: 1, ItemsByPage: 10, Filters: model1.PredicateMap{"name": "user-2"}},
			count: 7, page: 1, first: "user-2", size: 7,
		},
		"unpaged": {
			q:     Query{Page: 1},
			count: 25, page: 1, first: "user-1", size: 25,
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			page, err := p.Fetch(context.Background(), u.q)
			require.NoError(t, err)
			assert.Equal(t, u.count, page.Count)
			assert.Equal(t, u.page, page.Page)
			require.Len(t, page.Data, u.size)
			name, _ := page.Data[0].Get("name")
			assert.Equal(t, u.first, name)
		})
	}
}

func TestPagedCollectionCanceled(t *testing.T) {
	p := NewPagedCollection(NewCollection(makeRows(3)), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Fetch(ctx, Query{Page: 1, ItemsByPage: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollectionRemove(t *testing.T) {
	rows := makeRows(3)
	c := NewCollection(rows.Clone())

	assert.True(t, c.Remove(rows[1]))
	assert.False(t, c.Remove(rows[1]))
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, model1.Rows{rows[0], rows[2]}, c.Rows())
}

func TestSourceValidate(t *testing.T) {
	uu := map[string]struct {
		s   Source
		err error
	}{
		"local":     {s: NewLocalSource(NewCollection(nil))},
		"remote":    {s: NewRemoteSource(NewPagedCollection(NewCollection(nil), nil, nil))},
		"none":      {err: ErrNoSource},
		"noAcc":     {s: Source{Kind: LocalKind}, err: ErrNoAccessor},
		"noFetcher": {s: Source{Kind: RemoteKind}, err: ErrNoFetcher},
		"bad":       {s: Source{Kind: 42}, err: ErrUnknownKind},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.ErrorIs(t, u.s.Validate(), u.err)
		})
	}
}

func TestQueryKey(t *testing.T) {
	q1 := Query{Page: 1, ItemsByPage: 10, Filters: model1.PredicateMap{"a": "x", "b": "y", "$": ""}}
	q2 := Query{Page: 1, ItemsByPage: 10, Filters: model1.PredicateMap{"b": "y", "a": "x"}}

	assert.Equal(t, q1.Key(), q2.Key())
	assert.NotEqual(t, q1.Key(), Query{Page: 2, ItemsByPage: 10}.Key())
}

func makeRows(n int) model1.Rows {
	rows := make(model1.Rows, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, model1.NewRow(ordereddict.NewDict().
			Set("id", i).
			Set("name", fmt.Sprintf("user-%d", i))))
	}
	return rows
}
