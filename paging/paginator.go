package paging

import "math"

// Paginator is the uniform page returned for every backend.
type Paginator[T any] struct {
	CurrentPage  int      `json:"currentPage"`
	ItemsPerPage int      `json:"itemsPerPage"`
	TotalItems   int      `json:"totalItems"`
	TotalPages   int      `json:"totalPages"`
	Items        []T      `json:"items"`
	Metadata     Metadata `json:"metadata"`
}

// Map projects every item of p, the pinned one included, and keeps the counts.
func Map[T, R any](p *Paginator[T], fn func(T) R) *Paginator[R] {
	if p == nil {
		return nil
	}
	items := make([]R, len(p.Items))
	for i, item := range p.Items {
		items[i] = fn(item)
	}
	meta := make(Metadata, len(p.Metadata))
	for k, v := range p.Metadata {
		meta[k] = v
	}
	return &Paginator[R]{
		CurrentPage:  p.CurrentPage,
		ItemsPerPage: p.ItemsPerPage,
		TotalItems:   p.TotalItems,
		TotalPages:   p.TotalPages,
		Items:        items,
		Metadata:     meta,
	}
}

// TotalPages returns ceil(total / size). It returns 0 when size is not positive.
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total-1)/size + 1
}

// Offset returns (page-1)*size, the number of items before a 1-based page.
// A product past math.MaxInt saturates so far pages stay past the end.
func Offset(page, size int) int {
	if page <= 1 || size <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (page - 1) * size
}
