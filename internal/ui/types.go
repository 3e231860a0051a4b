package ui

import (
	"context"
	"strconv"
	"strings"

	"github.com/derailed/tview"
	"github.com/smarttable/smarttable/internal/model"
	"github.com/smarttable/smarttable/internal/model1"
)

// Tabular represents a tabular model.
type Tabular interface {
	// Name returns the table name.
	Name() string

	// IsRemote returns true if rows are served by a remote source.
	IsRemote() bool

	// Peek returns current model data.
	Peek() *model1.TableData

	// Options returns the table options.
	Options() model.Options

	// Reload recomputes the displayed rows.
	Reload(context.Context) error

	// SortByIndex sorts by the column at index.
	SortByIndex(context.Context, int) error

	// Search filters on a column, or on every field when col is nil.
	Search(ctx context.Context, input string, col *model1.Column) error

	// ChangePage moves to a page.
	ChangePage(context.Context, int) error

	// NextPage moves to the following page.
	NextPage(context.Context) error

	// PrevPage moves to the preceding page.
	PrevPage(context.Context) error

	// ToggleSelection flips the selection of a displayed row.
	ToggleSelection(*model1.Row) bool

	// ToggleSelectionAll selects or deselects every displayed row.
	ToggleSelectionAll(bool) bool

	// AddListener registers a model listener.
	AddListener(model.TableListener)

	// RemoveListener unregister a model listener.
	RemoveListener(model.TableListener)
}

// MenuHint represents a keyboard mnemonic.
type MenuHint struct {
	Mnemonic    string
	Description string
	Visible     bool
}

// IsBlank checks if menu hint is a placeholder.
func (m MenuHint) IsBlank() bool {
	return m.Mnemonic == "" && m.Description == "" && !m.Visible
}

// MenuHints represents a collection of hints.
type MenuHints []MenuHint

// Len returns the hints length.
func (h MenuHints) Len() int {
	return len(h)
}

// Swap swaps two elements.
func (h MenuHints) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// Less returns true if first hint is less than second.
func (h MenuHints) Less(i, j int) bool {
	n, err1 := strconv.Atoi(h[i].Mnemonic)
	m, err2 := strconv.Atoi(h[j].Mnemonic)
	if err1 == nil && err2 == nil {
		return n < m
	}
	if err1 == nil && err2 != nil {
		return true
	}
	if err1 != nil && err2 == nil {
		return false
	}
	return h[i].Description < h[j].Description
}

// Hinter represent a menu mnemonic provider.
type Hinter interface {
	// Hints returns a collection of menu hints.
	Hints() MenuHints
}

// Primitive represents a UI primitive.
type Primitive interface {
	tview.Primitive

	// Name returns the view name.
	Name() string
}

// Igniter represents a runnable view.
type Igniter interface {
	// Init initializes a component.
	Init(ctx context.Context) error

	// Start starts a component.
	Start()

	// Stop terminates a component.
	Stop()
}

// Component represents a ui component.
type Component interface {
	Primitive
	Igniter
	Hinter
}

// TrimCell removes superfluous padding from a table cell.
func TrimCell(tv *tview.Table, row, col int) string {
	c := tv.GetCell(row, col)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text)
}
