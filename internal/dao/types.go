package dao

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/smarttable/smarttable/internal/model1"
)

// Error represents a data source error.
type Error string

const (
	ErrNoSource     = Error("no data source configured")
	ErrNoAccessor   = Error("local source has no accessor")
	ErrNoFetcher    = Error("remote source has no fetcher")
	ErrUnknownKind  = Error("unknown source kind")
	ErrEmptyDataset = Error("dataset holds no records")
)

func (e Error) Error() string {
	return string(e)
}

// SourceKind tags the data source variant. It is fixed at configuration
// time.
type SourceKind int

const (
	// LocalKind serves a fully in-memory collection synchronously.
	LocalKind SourceKind = iota + 1

	// RemoteKind serves pages through an asynchronous fetch.
	RemoteKind
)

func (k SourceKind) String() string {
	switch k {
	case LocalKind:
		return "local"
	case RemoteKind:
		return "remote"
	default:
		return "unknown"
	}
}

// Accessor returns the full in-memory collection.
type Accessor interface {
	Rows() model1.Rows
}

// AccessorFunc adapts a function to an Accessor.
type AccessorFunc func() model1.Rows

// Rows implements Accessor.
func (f AccessorFunc) Rows() model1.Rows {
	return f()
}

// Remover is implemented by accessors whose collection supports removal.
type Remover interface {
	Remove(*model1.Row) bool
}

// Invalidator is implemented by fetchers that keep served pages around.
type Invalidator interface {
	Invalidate()
}

// Query describes a page request sent to a remote source.
type Query struct {
	Page        int
	ItemsByPage int
	SortField   string
	SortOrder   model1.SortOrder

	// Filters carries the active predicates. Fetchers may ignore them.
	Filters model1.PredicateMap
}

// Key returns a stable identifier for the query.
func (q Query) Key() string {
	keys := make([]string, 0, len(q.Filters))
	for k, v := range q.Filters {
		if v != "" {
			keys = append(keys, k+"="+v)
		}
	}
	sort.Strings(keys)
	return fmt.Sprintf("%d:%d:%s:%s:%s", q.Page, q.ItemsByPage, q.SortField, q.SortOrder, strings.Join(keys, "&"))
}

// Page is a remote response. The source is authoritative over Page and Count.
type Page struct {
	Data  model1.Rows
	Count int
	Page  int
}

// Fetcher serves pages of a remote collection.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (*Page, error)
}

// FetcherFunc adapts a function to a Fetcher.
type FetcherFunc func(ctx context.Context, q Query) (*Page, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, q Query) (*Page, error) {
	return f(ctx, q)
}

// Source is a tagged union over the local and remote variants.
type Source struct {
	Kind   SourceKind
	Local  Accessor
	Remote Fetcher
}

// NewLocalSource returns a source over an in-memory accessor.
func NewLocalSource(a Accessor) Source {
	return Source{Kind: LocalKind, Local: a}
}

// NewRemoteSource returns a source over a page fetcher.
func NewRemoteSource(f Fetcher) Source {
	return Source{Kind: RemoteKind, Remote: f}
}

// IsRemote returns true for the remote variant.
func (s Source) IsRemote() bool {
	return s.Kind == RemoteKind
}

// Validate checks the variant carries its capability.
func (s Source) Validate() error {
	switch s.Kind {
	case LocalKind:
		if s.Local == nil {
			return ErrNoAccessor
		}
	case RemoteKind:
		if s.Remote == nil {
			return ErrNoFetcher
		}
	case 0:
		return ErrNoSource
	default:
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(s.Kind))
	}
	return nil
}
