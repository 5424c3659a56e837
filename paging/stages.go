package paging

import (
	"net/url"

	"github.com/ncobase/pager/query"
)

// Stage transforms a collection using the request's query values.
type Stage[T any] func(c query.Collection[T], values url.Values) query.Collection[T]

// SearchStage applies a free-text predicate. It only runs when the search
// parameter is not empty.
type SearchStage[T any] func(c query.Collection[T], search string) query.Collection[T]

// Stages are the optional transformations of a relational page. They run in
// this order: Before, default ordering by identity, Middle, SearchProps,
// count, slicing, After.
type Stages[T any] struct {
	Before      Stage[T]
	Middle      Stage[T]
	SearchProps SearchStage[T]
	After       Stage[T]
}

// Apply runs s on c, or returns c unchanged when s is nil.
func (s Stage[T]) Apply(c query.Collection[T], values url.Values) query.Collection[T] {
	if s == nil {
		return c
	}
	return s(c, values)
}

// Apply runs s on c when search is not empty.
func (s SearchStage[T]) Apply(c query.Collection[T], search string) query.Collection[T] {
	if s == nil || search == "" {
		return c
	}
	return s(c, search)
}
