// Package selfhosted serves pages from a Meilisearch index through its search
// endpoint. The server reports a hit count but no page count; page math is
// left to paging.
package selfhosted

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ncobase/pager/data/meilisearch/client"
	"github.com/ncobase/pager/paging"
)

// DefaultMaxHits is the limit sent when slicing is off.
const DefaultMaxHits = 1000

// ErrEmptyResponse is returned when the server answers without a hit list.
var ErrEmptyResponse = errors.New("search response is empty")

// Searcher is the part of the Meilisearch client the backend needs.
type Searcher interface {
	Search(ctx context.Context, index, query string, params *client.SearchParams) (*json.RawMessage, error)
	GetDocument(ctx context.Context, index, documentID string, documentPtr any) error
}

// Backend reads T documents from one index.
type Backend[T any] struct {
	name       string
	index      string
	client     Searcher
	primaryKey string
	maxHits    int
	decode     func(json.RawMessage) (T, error)
}

// Option configures a Backend.
type Option[T any] func(*Backend[T])

// WithName overrides the backend name used in logs and metrics.
func WithName[T any](name string) Option[T] {
	return func(b *Backend[T]) { b.name = name }
}

// WithPrimaryKey names the document id attribute. It must be filterable for
// pinned items to be excluded from search results.
func WithPrimaryKey[T any](key string) Option[T] {
	return func(b *Backend[T]) {
		if key != "" {
			b.primaryKey = key
		}
	}
}

// WithMaxHits sets the limit used when slicing is off.
func WithMaxHits[T any](n int) Option[T] {
	return func(b *Backend[T]) {
		if n > 0 {
			b.maxHits = n
		}
	}
}

// WithDecoder replaces the JSON decoding of documents.
func WithDecoder[T any](fn func(json.RawMessage) (T, error)) Option[T] {
	return func(b *Backend[T]) {
		if fn != nil {
			b.decode = fn
		}
	}
}

// New returns a backend over index.
func New[T any](c Searcher, index string, opts ...Option[T]) *Backend[T] {
	b := &Backend[T]{
		name:       "meilisearch",
		index:      index,
		client:     c,
		primaryKey: "id",
		maxHits:    DefaultMaxHits,
		decode:     decodeJSON[T],
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func decodeJSON[T any](raw json.RawMessage) (T, error) {
	var v T
	err := json.Unmarshal(raw, &v)
	return v, err
}

// Name implements paging.Backend.
func (b *Backend[T]) Name() string { return b.name }

// response holds the counters reported by the different server versions.
type response struct {
	Hits               *[]json.RawMessage `json:"hits"`
	TotalHits          *int               `json:"totalHits"`
	NbHits             *int               `json:"nbHits"`
	EstimatedTotalHits *int               `json:"estimatedTotalHits"`
}

func (r *response) total() int {
	for _, n := range []*int{r.TotalHits, r.NbHits, r.EstimatedTotalHits} {
		if n != nil {
			return *n
		}
	}
	return len(*r.Hits)
}

// FetchPage implements paging.Backend.
func (b *Backend[T]) FetchPage(ctx context.Context, q paging.Query) (*paging.Page[T], error) {
	params := &client.SearchParams{
		Offset: int64(q.Offset()),
		Limit:  int64(q.Size),
	}
	if q.All {
		params.Offset = 0
		params.Limit = int64(b.maxHits)
	}
	// the server rejects a zero limit, ask for one hit and drop it
	countOnly := params.Limit <= 0
	if countOnly {
		params.Limit = 1
	}
	if len(q.Exclude) > 0 {
		params.Filter = b.excludeFilter(q.Exclude)
	}

	raw, err := b.client.Search(ctx, b.index, q.Search, params)
	if err != nil {
		return nil, err
	}
	resp, err := parse(raw)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", b.index, err)
	}

	page := &paging.Page[T]{Items: make([]T, 0, len(*resp.Hits)), Total: resp.total()}
	if countOnly {
		return page, nil
	}
	for i, h := range *resp.Hits {
		item, err := b.decode(h)
		if err != nil {
			return nil, fmt.Errorf("decode hit %d: %w", i, err)
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

func (b *Backend[T]) excludeFilter(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s != %d", b.primaryKey, id)
	}
	return strings.Join(parts, " AND ")
}

func parse(raw *json.RawMessage) (*response, error) {
	if raw == nil {
		return nil, ErrEmptyResponse
	}
	body := bytes.TrimSpace(*raw)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, ErrEmptyResponse
	}
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if resp.Hits == nil {
		return nil, ErrEmptyResponse
	}
	return &resp, nil
}

// FindByID implements paging.Backend.
func (b *Backend[T]) FindByID(ctx context.Context, _ paging.Query, id int64) (T, bool, error) {
	var zero T
	var raw json.RawMessage
	err := b.client.GetDocument(ctx, b.index, strconv.FormatInt(id, 10), &raw)
	if errors.Is(err, client.ErrDocumentNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	item, err := b.decode(raw)
	if err != nil {
		return zero, false, fmt.Errorf("decode document %d: %w", id, err)
	}
	return item, true, nil
}
