package model1

// DefaultItemsByPage is the page size used when none is configured.
const DefaultItemsByPage = 10

// NumberOfPages returns how many pages count rows span. There is always at
// least one page.
func NumberOfPages(count, itemsByPage int) int {
	if count <= 0 || itemsByPage < 1 {
		return 1
	}
	return (count + itemsByPage - 1) / itemsByPage
}

// Pager tracks pagination state. CurrentPage is 1-based.
type Pager struct {
	CurrentPage   int
	ItemsByPage   int
	NumberOfPages int
}

// NewPager returns a pager positioned on the first page.
func NewPager(itemsByPage int) *Pager {
	return &Pager{
		CurrentPage:   1,
		ItemsByPage:   itemsByPage,
		NumberOfPages: 1,
	}
}

// Update recomputes the page count from a total row count.
func (p *Pager) Update(count int) {
	p.NumberOfPages = NumberOfPages(count, p.ItemsByPage)
}

// Offset returns the index of the first row of the current page.
func (p *Pager) Offset() int {
	return (p.CurrentPage - 1) * p.ItemsByPage
}

// Slice returns the current page window of rows.
func (p *Pager) Slice(rows Rows) Rows {
	return FromTo(rows, p.Offset(), p.ItemsByPage)
}

// Valid reports whether page may be navigated to.
func (p *Pager) Valid(page int) bool {
	return page >= 1
}

// HasNext returns true if a page follows the current one.
func (p *Pager) HasNext() bool {
	return p.CurrentPage < p.NumberOfPages
}

// HasPrev returns true if a page precedes the current one.
func (p *Pager) HasPrev() bool {
	return p.CurrentPage > 1
}

// Window returns the page numbers a pager of maxSize buttons shows,
// keeping the current page centered when possible. maxSize < 1 shows all
// pages.
func (p *Pager) Window(maxSize int) []int {
	start, end := 1, p.NumberOfPages
	if maxSize > 0 && maxSize < p.NumberOfPages {
		start = p.CurrentPage - maxSize/2
		if start < 1 {
			start = 1
		}
		end = start + maxSize - 1
		if end > p.NumberOfPages {
			end = p.NumberOfPages
			start = end - maxSize + 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
