// Package relational serves pages from a query.Collection, typically a table
// read through query.SQLCollection.
package relational

import (
	"context"
	"fmt"

	"github.com/ncobase/pager/paging"
	"github.com/ncobase/pager/query"
)

// Backend applies paging.Stages to a source collection.
type Backend[T any] struct {
	name   string
	source query.Collection[T]
	stages paging.Stages[T]
}

// Option configures a Backend.
type Option[T any] func(*Backend[T])

// WithName overrides the backend name used in logs and metrics.
func WithName[T any](name string) Option[T] {
	return func(b *Backend[T]) { b.name = name }
}

// New returns a backend over source.
func New[T any](source query.Collection[T], stages paging.Stages[T], opts ...Option[T]) *Backend[T] {
	b := &Backend[T]{name: "relational", source: source, stages: stages}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements paging.Backend.
func (b *Backend[T]) Name() string { return b.name }

// filtered runs the stages that decide which items match, in order: Before,
// ordering by identity, Middle, SearchProps.
func (b *Backend[T]) filtered(q paging.Query) query.Collection[T] {
	c := b.stages.Before.Apply(b.source, q.Values)
	c = c.OrderBy(c.Schema().IDName())
	c = b.stages.Middle.Apply(c, q.Values)
	return b.stages.SearchProps.Apply(c, q.Search)
}

// FetchPage implements paging.Backend.
func (b *Backend[T]) FetchPage(ctx context.Context, q paging.Query) (*paging.Page[T], error) {
	c := b.filtered(q)
	if len(q.Exclude) > 0 {
		ids := make([]any, len(q.Exclude))
		for i, id := range q.Exclude {
			ids[i] = id
		}
		c = c.Where(query.Not(query.In(c.Schema().IDName(), ids...)))
	}
	if err := c.Err(); err != nil {
		return nil, err
	}

	total, err := c.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	if !q.All {
		c = c.Skip(q.Offset()).Take(q.Size)
	}
	c = b.stages.After.Apply(c, q.Values)

	items, err := c.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return &paging.Page[T]{Items: items, Total: total}, nil
}

// FindByID implements paging.Backend. The lookup is by identity on the
// source, so a pinned item is shown even when the request's stages filter
// it out.
func (b *Backend[T]) FindByID(ctx context.Context, _ paging.Query, id int64) (T, bool, error) {
	return b.source.FindByID(ctx, id)
}
