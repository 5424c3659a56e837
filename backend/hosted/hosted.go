// Package hosted serves pages from a managed search index. Ranking, matching
// and counting are left to the service; the backend only translates pages
// and decodes hits.
package hosted

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/ncobase/pager/data/search"
	"github.com/ncobase/pager/paging"
)

// DefaultMaxHits is the number of hits requested when slicing is off.
const DefaultMaxHits = 1000

// ErrIndexUnavailable is returned when the index answers with no response.
var ErrIndexUnavailable = errors.New("search index unavailable")

// Index is the part of a search client the backend needs. *search.Client
// and every search.Adapter satisfy it.
type Index interface {
	Search(ctx context.Context, req *search.Request) (*search.Response, error)
	Get(ctx context.Context, index, id string) (*search.Hit, error)
}

// Backend reads T documents from one index.
type Backend[T any] struct {
	name    string
	index   string
	client  Index
	fields  []string
	maxHits int
	decode  func(search.Hit) (T, error)
}

// Option configures a Backend.
type Option[T any] func(*Backend[T])

// WithName overrides the backend name used in logs and metrics.
func WithName[T any](name string) Option[T] {
	return func(b *Backend[T]) { b.name = name }
}

// WithMaxHits sets the page size used when slicing is off.
func WithMaxHits[T any](n int) Option[T] {
	return func(b *Backend[T]) {
		if n > 0 {
			b.maxHits = n
		}
	}
}

// WithFields restricts free-text matching to fields.
func WithFields[T any](fields ...string) Option[T] {
	return func(b *Backend[T]) { b.fields = fields }
}

// WithDecoder replaces the JSON decoding of hit sources.
func WithDecoder[T any](fn func(search.Hit) (T, error)) Option[T] {
	return func(b *Backend[T]) {
		if fn != nil {
			b.decode = fn
		}
	}
}

// New returns a backend over index.
func New[T any](client Index, index string, opts ...Option[T]) *Backend[T] {
	b := &Backend[T]{
		name:    "hosted",
		index:   index,
		client:  client,
		maxHits: DefaultMaxHits,
		decode:  decodeSource[T],
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func decodeSource[T any](h search.Hit) (T, error) {
	var v T
	err := json.Unmarshal(h.Source, &v)
	return v, err
}

// Name implements paging.Backend.
func (b *Backend[T]) Name() string { return b.name }

// FetchPage implements paging.Backend. Pages are 0-based on the service side.
func (b *Backend[T]) FetchPage(ctx context.Context, q paging.Query) (*paging.Page[T], error) {
	req := &search.Request{
		Index:       b.index,
		Query:       q.Search,
		Fields:      b.fields,
		Page:        max(q.Page-1, 0),
		HitsPerPage: q.Size,
	}
	if q.All {
		req.Page = 0
		req.HitsPerPage = b.maxHits
	}
	for _, id := range q.Exclude {
		req.Exclude = append(req.Exclude, strconv.FormatInt(id, 10))
	}

	resp, err := b.client.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", b.index, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("search %s: %w", b.index, ErrIndexUnavailable)
	}

	items := make([]T, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		item, err := b.decode(h)
		if err != nil {
			return nil, fmt.Errorf("decode hit %s: %w", h.ID, err)
		}
		items = append(items, item)
	}
	return &paging.Page[T]{Items: items, Total: resp.NbHits}, nil
}

// FindByID implements paging.Backend.
func (b *Backend[T]) FindByID(ctx context.Context, _ paging.Query, id int64) (T, bool, error) {
	var zero T
	hit, err := b.client.Get(ctx, b.index, strconv.FormatInt(id, 10))
	if err != nil {
		return zero, false, fmt.Errorf("get %s/%d: %w", b.index, id, err)
	}
	if hit == nil {
		return zero, false, nil
	}
	item, err := b.decode(*hit)
	if err != nil {
		return zero, false, fmt.Errorf("decode hit %s: %w", hit.ID, err)
	}
	return item, true, nil
}
