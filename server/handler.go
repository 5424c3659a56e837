package server

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/pager/net/resp"
	"github.com/ncobase/pager/paging"
)

// ProductHandler serves product pages. hosted and selfHosted may be nil when
// the matching search service is not configured.
type ProductHandler struct {
	relational paging.Backend[Product]
	hosted     paging.Backend[Product]
	selfHosted paging.Backend[Product]
	opts       []paging.Option
}

// NewProductHandler creates a product handler.
func NewProductHandler(relational, hosted, selfHosted paging.Backend[Product], opts ...paging.Option) *ProductHandler {
	return &ProductHandler{
		relational: relational,
		hosted:     hosted,
		selfHosted: selfHosted,
		opts:       opts,
	}
}

// List pages the relational store.
func (h *ProductHandler) List(c *gin.Context) {
	page, err := paging.PaginateMap(c.Request.Context(), c.Request.URL.RawQuery, h.relational, ToView, h.opts...)
	respond(c, page, err)
}

// Search pages the hosted index, or the relational store when useDB is set.
func (h *ProductHandler) Search(c *gin.Context) {
	hosted := h.hosted
	if hosted == nil {
		// without an index every request reads the store
		hosted = h.relational
	}
	page, err := paging.PaginateSwitch(c.Request.Context(), c.Request.URL.RawQuery, h.relational, hosted, h.opts...)
	if err != nil {
		respond[ProductView](c, nil, err)
		return
	}
	respond(c, paging.Map(page, ToView), nil)
}

// SelfHosted pages the Meilisearch index.
func (h *ProductHandler) SelfHosted(c *gin.Context) {
	if h.selfHosted == nil {
		resp.Fail(c.Writer, resp.ServiceUnavailable("meilisearch is not configured"))
		return
	}
	page, err := paging.PaginateMap(c.Request.Context(), c.Request.URL.RawQuery, h.selfHosted, ToView, h.opts...)
	respond(c, page, err)
}

func respond[T any](c *gin.Context, page *paging.Paginator[T], err error) {
	if err != nil {
		resp.Fail(c.Writer, paging.AsError(err).AsException())
		return
	}
	resp.Success(c.Writer, page)
}
