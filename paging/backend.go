package paging

import (
	"context"
	"net/url"
)

// Query is what the orchestrator asks of a backend. Page math has already
// been applied: Size accounts for a pinned item and All disables slicing.
type Query struct {
	Page    int // 1-based
	Size    int // items to return, 0 when All
	All     bool
	Search  string
	Exclude []int64 // ids the backend must leave out, i.e. the pinned item
	Values  url.Values
}

// Offset returns the number of items before the page.
func (q Query) Offset() int {
	if q.All {
		return 0
	}
	return Offset(q.Page, q.Size)
}

// Page is the raw answer of a backend: the items of the page and the number
// of matches across all pages, excluded ids left out.
type Page[T any] struct {
	Items []T
	Total int
}

// Backend is one source of items.
type Backend[T any] interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// FetchPage returns one page. A failure must be returned as an error,
	// never as an empty page.
	FetchPage(ctx context.Context, q Query) (*Page[T], error)

	// FindByID looks up the pinned item by identity, regardless of the
	// filters of q. A missing item is (zero, false, nil).
	FindByID(ctx context.Context, q Query, id int64) (T, bool, error)
}
