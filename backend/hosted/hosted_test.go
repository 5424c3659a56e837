package hosted_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/ncobase/pager/backend/hosted"
	"github.com/ncobase/pager/data/search"
	"github.com/ncobase/pager/paging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type product struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// fakeIndex answers like a hosted index over products 1..12, matching the
// query against names.
type fakeIndex struct {
	requests []search.Request
	err      error
	nilResp  bool
}

func (f *fakeIndex) docs() []product {
	var out []product
	for id := int64(1); id <= 12; id++ {
		out = append(out, product{ID: id, Name: fmt.Sprintf("product %d", id)})
	}
	return out
}

func (f *fakeIndex) Search(_ context.Context, req *search.Request) (*search.Response, error) {
	f.requests = append(f.requests, *req)
	if f.err != nil {
		return nil, f.err
	}
	if f.nilResp {
		return nil, nil
	}

	var matched []product
	for _, p := range f.docs() {
		if slices.Contains(req.Exclude, strconv.FormatInt(p.ID, 10)) {
			continue
		}
		if req.Query != "" && !strings.Contains(p.Name, req.Query) {
			continue
		}
		matched = append(matched, p)
	}

	resp := &search.Response{NbHits: len(matched), Hits: []search.Hit{}}
	from := min(req.From(), len(matched))
	to := min(from+req.HitsPerPage, len(matched))
	for _, p := range matched[from:to] {
		src, _ := json.Marshal(p)
		resp.Hits = append(resp.Hits, search.Hit{ID: strconv.FormatInt(p.ID, 10), Source: src})
	}
	return resp, nil
}

func (f *fakeIndex) Get(_ context.Context, index, id string) (*search.Hit, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.docs() {
		if strconv.FormatInt(p.ID, 10) == id {
			src, _ := json.Marshal(p)
			return &search.Hit{ID: id, Source: src}, nil
		}
	}
	return nil, nil
}

func ids(items []product) []int64 {
	out := make([]int64, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func TestPages(t *testing.T) {
	idx := &fakeIndex{}
	backend := hosted.New[product](idx, "products")

	p, err := paging.Paginate(context.Background(), "page=2&itemsPerPage=5", backend)
	require.NoError(t, err)
	assert.Equal(t, []int64{6, 7, 8, 9, 10}, ids(p.Items))
	assert.Equal(t, 12, p.TotalItems)
	assert.Equal(t, 3, p.TotalPages)

	// 1-based pages become 0-based requests
	assert.Equal(t, 1, idx.requests[0].Page)
	assert.Equal(t, 5, idx.requests[0].HitsPerPage)
	assert.Equal(t, "products", idx.requests[0].Index)
}

func TestSearchText(t *testing.T) {
	idx := &fakeIndex{}
	backend := hosted.New(idx, "products", hosted.WithFields[product]("name"))

	p, err := paging.Paginate(context.Background(), "search=product%201", backend)
	require.NoError(t, err)
	// product 1, 10, 11, 12
	assert.Equal(t, 4, p.TotalItems)
	assert.Equal(t, []int64{1, 10, 11, 12}, ids(p.Items[:4]))
	assert.Equal(t, []string{"name"}, idx.requests[0].Fields)
}

func TestPinned(t *testing.T) {
	idx := &fakeIndex{}
	backend := hosted.New[product](idx, "products")

	p, err := paging.Paginate(context.Background(), "first=7&itemsPerPage=5", backend)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 1, 2, 3, 4}, ids(p.Items))
	assert.Equal(t, 12, p.TotalItems)
	assert.Equal(t, 5, p.ItemsPerPage)
	assert.Equal(t, 3, p.TotalPages)

	req := idx.requests[0]
	assert.Equal(t, []string{"7"}, req.Exclude)
	assert.Equal(t, 4, req.HitsPerPage)
}

func TestAllItemsUsesMaxHits(t *testing.T) {
	idx := &fakeIndex{}
	backend := hosted.New(idx, "products", hosted.WithMaxHits[product](10))

	p, err := paging.Paginate(context.Background(), "itemsPerPage=0&page=3", backend)
	require.NoError(t, err)
	assert.Len(t, p.Items, 10)
	assert.Equal(t, 12, p.TotalItems)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 0, idx.requests[0].Page)
	assert.Equal(t, 10, idx.requests[0].HitsPerPage)
}

func TestFailures(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name   string
		idx    *fakeIndex
		raw    string
		target error
	}{
		{"search error", &fakeIndex{err: boom}, "", boom},
		{"pinned lookup error", &fakeIndex{err: boom}, "first=3", boom},
		{"nil response", &fakeIndex{nilResp: true}, "", hosted.ErrIndexUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := hosted.New(tt.idx, "products", hosted.WithName[product]("algolia"))
			p, err := paging.Paginate(context.Background(), tt.raw, backend)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, "failed to load page from algolia", err.Error())
		})
	}
}

func TestDecoder(t *testing.T) {
	decodeErr := errors.New("bad document")
	backend := hosted.New(&fakeIndex{}, "products", hosted.WithDecoder(func(h search.Hit) (product, error) {
		if h.ID == "2" {
			return product{}, decodeErr
		}
		return product{ID: 1}, nil
	}))

	_, err := paging.Paginate(context.Background(), "", backend)
	assert.ErrorIs(t, err, decodeErr)
}

func TestClientSatisfiesIndex(t *testing.T) {
	var _ hosted.Index = (*search.Client)(nil)
}
