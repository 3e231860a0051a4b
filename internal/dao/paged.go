package dao

import (
	"context"

	"github.com/smarttable/smarttable/internal/model1"
)

// PagedCollection serves an in-memory collection through the remote
// contract: it filters, orders and slices on the serving side.
type PagedCollection struct {
	accessor Accessor
	sorter   model1.Sorter
	filterer model1.Filterer
}

// NewPagedCollection returns a fetcher over an accessor. Nil strategies
// fall back to the built-in ones.
func NewPagedCollection(a Accessor, s model1.Sorter, f model1.Filterer) *PagedCollection {
	if s == nil {
		s = model1.NaturalSorter{}
	}
	if f == nil {
		f = model1.SubstringFilter{}
	}
	return &PagedCollection{accessor: a, sorter: s, filterer: f}
}

// Fetch implements Fetcher. Pages past the end clamp to the last page.
func (p *PagedCollection) Fetch(ctx context.Context, q Query) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := p.accessor.Rows()
	if q.Filters.Active() {
		rows = p.filterer.Filter(rows, q.Filters)
	}
	if q.SortField != "" && q.SortOrder != model1.SortNone {
		rows = p.sorter.Sort(rows, model1.SortKey{Path: q.SortField}, q.SortOrder)
	}

	pages := model1.NumberOfPages(len(rows), q.ItemsByPage)
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	data := rows
	if q.ItemsByPage >= 1 {
		data = model1.FromTo(rows, (page-1)*q.ItemsByPage, q.ItemsByPage)
	}

	return &Page{
		Data:  data.Clone(),
		Count: len(rows),
		Page:  page,
	}, nil
}

// Remove implements Remover when the accessor does.
func (p *PagedCollection) Remove(r *model1.Row) bool {
	rm, ok := p.accessor.(Remover)
	if !ok {
		return false
	}
	return rm.Remove(r)
}
