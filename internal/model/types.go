package model

import (
	"github.com/smarttable/smarttable/internal/model1"
	"github.com/wI2L/jsondiff"
)

// Error represents a table model error.
type Error string

const (
	// ErrSuperseded resolves a pipe whose response arrived after a newer
	// pipe was issued. Its rows were discarded.
	ErrSuperseded = Error("superseded by a newer request")
)

func (e Error) Error() string {
	return string(e)
}

// TableListener represents a table model listener.
type TableListener interface {
	// TableDataChanged notifies the displayed data changed.
	TableDataChanged(*model1.TableData)

	// TableLoadFailed notifies a remote fetch failed.
	TableLoadFailed(error)

	// SelectionChanged notifies a row selection was set.
	SelectionChanged(*model1.Row)

	// PageChanged notifies the current page moved once its rows arrived.
	PageChanged(old, new int)

	// DataRowUpdated notifies a record field changed.
	DataRowUpdated(*model1.Row, jsondiff.Patch)
}

// NopListener ignores every notification. Embed it to implement a subset.
type NopListener struct{}

func (NopListener) TableDataChanged(*model1.TableData) {}
func (NopListener) TableLoadFailed(error) {}
func (NopListener) SelectionChanged(*model1.Row) {}
func (NopListener) PageChanged(int, int) {}
func (NopListener) DataRowUpdated(*model1.Row, jsondiff.Patch) {}

// Options configures a table.
type Options struct {
	SelectionMode            model1.SelectionMode
	IsGlobalSearchActivated  bool
	DisplaySelectionCheckbox bool
	IsPaginationEnabled      bool
	ItemsByPage              int

	// MaxSize is the number of page buttons a pager shows.
	MaxSize int

	// SortAlgorithm and FilterAlgorithm replace the built-in strategies.
	SortAlgorithm   model1.Sorter
	FilterAlgorithm model1.Filterer
}

// DefaultMaxSize is the default pager window.
const DefaultMaxSize = 5

// DefaultOptions returns the stock table configuration.
func DefaultOptions() Options {
	return Options{
		SelectionMode:       model1.SelectionNone,
		IsPaginationEnabled: true,
		ItemsByPage:         model1.DefaultItemsByPage,
		MaxSize:             DefaultMaxSize,
		SortAlgorithm:       model1.NaturalSorter{},
		FilterAlgorithm:     model1.SubstringFilter{},
	}
}

// normalize fills unset or invalid values with defaults.
func (o Options) normalize() Options {
	if o.ItemsByPage < 1 {
		o.ItemsByPage = model1.DefaultItemsByPage
	}
	if o.MaxSize < 1 {
		o.MaxSize = DefaultMaxSize
	}
	if o.SortAlgorithm == nil {
		o.SortAlgorithm = model1.NaturalSorter{}
	}
	if o.FilterAlgorithm == nil {
		o.FilterAlgorithm = model1.SubstringFilter{}
	}
	return o
}
