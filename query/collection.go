// Package query provides the queryable collection abstraction consumed by the
// relational backend: filter, order by field name, skip, take, count,
// materialize and find by identity.
//
// Collections are immutable. Every builder method returns a new collection and
// leaves the receiver untouched, so one source can be shared between
// concurrent requests. Builder methods never fail directly: an invalid field
// name is recorded on the returned collection and surfaces from Count, List or
// FindByID (and from Err), wrapped around ErrFieldNotFound.
//
// Ordering follows stable-sort semantics. OrderBy makes the given field the
// primary key and keeps earlier orderings as tie breakers, so a default
// ordering by identity stays in effect behind any caller supplied order.
package query

import "context"

// Collection is a lazily evaluated, ordered view over items of type T.
type Collection[T any] interface {
	// Schema returns the field registry of T.
	Schema() *Schema[T]

	// Where keeps only the items matching e.
	Where(e Expr) Collection[T]

	// OrderBy sorts ascending by the named field.
	OrderBy(field string) Collection[T]

	// OrderByDesc sorts descending by the named field.
	OrderByDesc(field string) Collection[T]

	// Skip drops the first n items. n <= 0 is a no-op.
	Skip(n int) Collection[T]

	// Take keeps at most n items. n < 0 is treated as 0.
	Take(n int) Collection[T]

	// Count returns the number of distinct items in the collection.
	Count(ctx context.Context) (int, error)

	// List materializes the collection.
	List(ctx context.Context) ([]T, error)

	// FindByID returns the item with the given identity among the items
	// matching the collection's filters. Skip and Take are ignored.
	FindByID(ctx context.Context, id any) (T, bool, error)

	// Err returns the first error recorded while building the collection.
	Err() error
}
