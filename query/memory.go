package query

import (
	"context"
	"slices"
)

// SliceCollection is an in-memory Collection backed by a slice. Operations are
// applied eagerly on a private copy of the items.
type SliceCollection[T any] struct {
	schema *Schema[T]
	items  []T
	base   []T
	err    error
}

// FromSlice returns a collection over items. The slice is copied.
func FromSlice[T any](schema *Schema[T], items []T) *SliceCollection[T] {
	cp := slices.Clone(items)
	return &SliceCollection[T]{schema: schema, items: cp, base: cp}
}

func (c *SliceCollection[T]) with(items []T, err error) *SliceCollection[T] {
	next := &SliceCollection[T]{schema: c.schema, items: items, base: c.base, err: c.err}
	if next.err == nil {
		next.err = err
	}
	return next
}

// Schema returns the field registry.
func (c *SliceCollection[T]) Schema() *Schema[T] { return c.schema }

// Err returns the first recorded error.
func (c *SliceCollection[T]) Err() error { return c.err }

// Where filters the items.
func (c *SliceCollection[T]) Where(e Expr) Collection[T] {
	if c.err != nil {
		return c
	}
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		ok, err := e.eval(func(name string) (any, error) { return c.schema.value(item, name) })
		if err != nil {
			return c.with(nil, err)
		}
		if ok {
			out = append(out, item)
		}
	}
	next := c.with(out, nil)
	next.base = filterBase(c.base, c.schema, e)
	return next
}

// filterBase applies e to the unsliced items so FindByID honours filters but not slicing.
func filterBase[T any](base []T, schema *Schema[T], e Expr) []T {
	out := make([]T, 0, len(base))
	for _, item := range base {
		ok, err := e.eval(func(name string) (any, error) { return schema.value(item, name) })
		if err == nil && ok {
			out = append(out, item)
		}
	}
	return out
}

// OrderBy sorts ascending by field, keeping the previous order for ties.
func (c *SliceCollection[T]) OrderBy(field string) Collection[T] {
	return c.order(field, false)
}

// OrderByDesc sorts descending by field, keeping the previous order for ties.
func (c *SliceCollection[T]) OrderByDesc(field string) Collection[T] {
	return c.order(field, true)
}

func (c *SliceCollection[T]) order(field string, desc bool) Collection[T] {
	if c.err != nil {
		return c
	}
	f, err := c.schema.Field(field)
	if err != nil {
		return c.with(nil, err)
	}
	out := slices.Clone(c.items)
	slices.SortStableFunc(out, func(a, b T) int {
		if desc {
			return f.Compare(b, a)
		}
		return f.Compare(a, b)
	})
	return c.with(out, nil)
}

// Skip drops the first n items.
func (c *SliceCollection[T]) Skip(n int) Collection[T] {
	if c.err != nil || n <= 0 {
		return c
	}
	if n >= len(c.items) {
		return c.with([]T{}, nil)
	}
	return c.with(slices.Clone(c.items[n:]), nil)
}

// Take keeps at most n items.
func (c *SliceCollection[T]) Take(n int) Collection[T] {
	if c.err != nil {
		return c
	}
	n = max(n, 0)
	if n >= len(c.items) {
		return c
	}
	return c.with(slices.Clone(c.items[:n]), nil)
}

// Count returns the number of items.
func (c *SliceCollection[T]) Count(ctx context.Context) (int, error) {
	if err := c.ready(ctx); err != nil {
		return 0, err
	}
	return len(c.items), nil
}

// List returns a copy of the items.
func (c *SliceCollection[T]) List(ctx context.Context) ([]T, error) {
	if err := c.ready(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(c.items), nil
}

// FindByID returns the item whose identity equals id.
func (c *SliceCollection[T]) FindByID(ctx context.Context, id any) (T, bool, error) {
	var zero T
	if err := c.ready(ctx); err != nil {
		return zero, false, err
	}
	idField := c.schema.ID()
	for _, item := range c.base {
		if cmp, ok := compareValues(idField.Value(item), id); ok && cmp == 0 {
			return item, true, nil
		}
	}
	return zero, false, nil
}

func (c *SliceCollection[T]) ready(ctx context.Context) error {
	if c.err != nil {
		return c.err
	}
	return ctx.Err()
}
