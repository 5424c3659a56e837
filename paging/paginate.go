package paging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/pager/logging/logger"
	"github.com/sirupsen/logrus"
)

// Metadata keys set by Paginate.
const (
	MetaNext = "next"
	MetaPrev = "prev"
)

// Option configures a Paginate call.
type Option func(*options)

type options struct {
	itemsPerPage int
	collector    Collector
}

func newOptions(opts []Option) *options {
	o := &options{itemsPerPage: DefaultItemsPerPage, collector: NoOpCollector{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithItemsPerPage sets the page size used when the query string has none.
// A negative n returns everything by default.
func WithItemsPerPage(n int) Option {
	return func(o *options) {
		if n != 0 {
			o.itemsPerPage = n
		}
	}
}

// WithCollector sets the metrics collector.
func WithCollector(c Collector) Option {
	return func(o *options) {
		if c != nil {
			o.collector = c
		}
	}
}

// Paginate parses raw and returns one page from backend. Every failure is
// returned as *Error.
func Paginate[T any](ctx context.Context, raw string, backend Backend[T], opts ...Option) (*Paginator[T], error) {
	o := newOptions(opts)
	return run(ctx, ParseParams(raw, o.itemsPerPage), backend, o)
}

// PaginateSwitch reads from relational when the useDB parameter is true and
// from search otherwise, so one endpoint can switch data source behind a flag.
func PaginateSwitch[T any](ctx context.Context, raw string, relational, search Backend[T], opts ...Option) (*Paginator[T], error) {
	o := newOptions(opts)
	p := ParseParams(raw, o.itemsPerPage)
	backend := search
	if p.UseDB {
		backend = relational
	}
	return run(ctx, p, backend, o)
}

// PaginateMap is Paginate followed by Map.
func PaginateMap[T, R any](ctx context.Context, raw string, backend Backend[T], fn func(T) R, opts ...Option) (*Paginator[R], error) {
	page, err := Paginate(ctx, raw, backend, opts...)
	if err != nil {
		return nil, err
	}
	return Map(page, fn), nil
}

func run[T any](ctx context.Context, p Params, backend Backend[T], o *options) (*Paginator[T], error) {
	if backend == nil {
		logger.Errorf(ctx, "paginate: %v", ErrNilBackend)
		return nil, newError("backend", ErrNilBackend)
	}

	name := backend.Name()
	fields := logrus.Fields{"backend": name, "page": p.Page, "items_per_page": p.ItemsPerPage}
	start := time.Now()

	result, err := fetch(ctx, p, backend, o)
	if err != nil {
		outcome := OutcomeError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			outcome = OutcomeCancel
		}
		o.collector.Observe(name, outcome, p.Page, time.Since(start))
		logger.WithFields(ctx, fields).Errorf("paginate: %v", err)
		return nil, newError(name, err)
	}

	o.collector.Observe(name, OutcomeOK, p.Page, time.Since(start))
	logger.WithFields(ctx, fields).Debugf("paginate: %d items, %d total", len(result.Items), result.TotalItems)
	return result, nil
}

func fetch[T any](ctx context.Context, p Params, backend Backend[T], o *options) (*Paginator[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := Query{
		Page:   p.Page,
		Size:   p.ItemsPerPage,
		All:    !p.Slicing(),
		Search: p.Search,
		Values: p.Values,
	}
	if q.All {
		q.Size = 0
	}

	var pinned []T
	if p.Pinned() {
		item, ok, err := backend.FindByID(ctx, q, p.First)
		if err != nil {
			return nil, fmt.Errorf("find pinned item %d: %w", p.First, err)
		}
		o.collector.ObservePinned(backend.Name(), ok)
		if ok {
			pinned = append(pinned, item)
		} else {
			logger.Debugf(ctx, "paginate: pinned item %d not found in %s", p.First, backend.Name())
		}
	}
	if len(pinned) > 0 {
		q.Exclude = []int64{p.First}
		if !q.All {
			q.Size--
		}
		// no slot left besides the pinned item: return everything
		if q.Size <= 0 {
			q.All, q.Size = true, 0
		}
	}

	page, err := backend.FetchPage(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", p.Page, err)
	}
	if page == nil {
		return nil, fmt.Errorf("fetch page %d: %w", p.Page, ErrBackendUnavailable)
	}
	// a request canceled while the backend answered returns nothing
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return assemble(p, q, pinned, page), nil
}

// assemble owns all page arithmetic.
func assemble[T any](p Params, q Query, pinned []T, page *Page[T]) *Paginator[T] {
	fetched := page.Items
	if !q.All && len(fetched) > q.Size {
		fetched = fetched[:q.Size]
	}

	items := make([]T, 0, len(pinned)+len(fetched))
	items = append(items, pinned...)
	items = append(items, fetched...)

	backendTotal := max(page.Total, 0)
	r := &Paginator[T]{
		CurrentPage: p.Page,
		TotalItems:  backendTotal + len(pinned),
		Items:       items,
		Metadata:    Metadata{},
	}

	if q.All {
		r.ItemsPerPage = r.TotalItems
		r.TotalPages = 1
		return r
	}

	r.ItemsPerPage = q.Size + len(pinned)
	switch {
	case len(pinned) > 0:
		r.TotalPages = max(TotalPages(backendTotal, q.Size), 1)
	default:
		r.TotalPages = TotalPages(backendTotal, q.Size)
	}

	if len(pinned) == 0 {
		p.First = 0
	}
	if p.Page < r.TotalPages {
		r.Metadata.Set(MetaNext, StringValue("?"+p.WithPage(p.Page+1).Encode()))
	}
	if p.Page > 1 {
		prev := min(p.Page-1, max(r.TotalPages, 1))
		r.Metadata.Set(MetaPrev, StringValue("?"+p.WithPage(prev).Encode()))
	}
	return r
}
