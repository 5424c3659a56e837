// Package paging turns a raw query string into one uniform page of items,
// whichever backend answers it.
//
// A request runs through a fixed sequence: parse the query string into
// Params, pick a Backend, look up the pinned item if one was asked for,
// fetch the page, then assemble a Paginator. Backends only report raw
// numbers (the items of the page and the number of matches); page counts,
// effective page sizes and pinned-item accounting are computed here so every
// backend reports them the same way.
//
// # Basic Usage
//
//	backend := relational.New(source, stages)
//	page, err := paging.Paginate(ctx, r.URL.RawQuery, backend)
//	if err != nil {
//	    var pe *paging.Error
//	    errors.As(err, &pe)
//	    resp.Fail(w, pe.AsException())
//	    return
//	}
//	resp.Success(w, page)
//
// # Query Parameters
//
//	page          1-based page number, default 1
//	itemsPerPage  page size, default 5; 0 or less returns everything as one page
//	search        free-text search
//	first         id of an item to pin at the top of the page
//	useDB         with PaginateSwitch, read from the relational backend
//
// Malformed values never fail a request; they fall back to their default.
//
// # Pinned Items
//
// When first names an item that exists, it is placed first and excluded from
// the backend query, and the backend is asked for one item fewer. The
// reported itemsPerPage still equals the requested size.
package paging
