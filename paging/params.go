package paging

import (
	"net/url"
	"strconv"
	"strings"

	qs "github.com/google/go-querystring/query"
)

// Defaults applied when a parameter is absent or malformed.
const (
	DefaultPage         = 1
	DefaultItemsPerPage = 5
)

// Query string keys.
const (
	KeyPage         = "page"
	KeyItemsPerPage = "itemsPerPage"
	KeySearch       = "search"
	KeyFirst        = "first"
	KeyUseDB        = "useDB"
)

// Params is the parsed form of a pagination query string.
type Params struct {
	Page         int    `url:"page"`
	ItemsPerPage int    `url:"itemsPerPage"`
	Search       string `url:"search,omitempty"`
	First        int64  `url:"first,omitempty"`
	UseDB        bool   `url:"useDB,omitempty"`

	// Values holds every key of the query string, including the ones above.
	// Stages read their own parameters from it.
	Values url.Values `url:"-"`
}

// ParseParams parses a raw query string, with or without a leading '?'.
// It never fails: absent or malformed values take their default, and a page
// below 1 is reset to DefaultPage. defaultItemsPerPage of 0 selects
// DefaultItemsPerPage; use a negative value to return everything by default.
func ParseParams(raw string, defaultItemsPerPage int) Params {
	if defaultItemsPerPage == 0 {
		defaultItemsPerPage = DefaultItemsPerPage
	}

	// ParseQuery keeps every pair it could decode even when it reports an error.
	values, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if values == nil {
		values = url.Values{}
	}

	p := Params{
		Page:         GetInt(values, KeyPage, DefaultPage),
		ItemsPerPage: GetInt(values, KeyItemsPerPage, defaultItemsPerPage),
		Search:       GetString(values, KeySearch, ""),
		First:        GetInt64(values, KeyFirst, 0),
		UseDB:        GetBool(values, KeyUseDB, false),
		Values:       values,
	}
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	return p
}

// Slicing reports whether the request asks for one page rather than everything.
func (p Params) Slicing() bool { return p.ItemsPerPage > 0 }

// Pinned reports whether the request names an item to place first.
func (p Params) Pinned() bool { return p.First > 0 }

// Offset returns the number of items before the requested page.
func (p Params) Offset() int {
	if !p.Slicing() {
		return 0
	}
	return Offset(p.Page, p.ItemsPerPage)
}

// WithPage returns a copy of p pointing at another page.
func (p Params) WithPage(page int) Params {
	p.Page = page
	return p
}

// Encode renders p back into a query string. Keys not owned by Params are kept
// so links to other pages preserve the caller's filters.
func (p Params) Encode() string {
	out := url.Values{}
	for k, v := range p.Values {
		if !isOwnKey(k) {
			out[k] = append([]string(nil), v...)
		}
	}
	own, err := qs.Values(p)
	if err == nil {
		for k, v := range own {
			out[k] = v
		}
	}
	return out.Encode()
}

func isOwnKey(k string) bool {
	for _, own := range []string{KeyPage, KeyItemsPerPage, KeySearch, KeyFirst, KeyUseDB} {
		if strings.EqualFold(k, own) {
			return true
		}
	}
	return false
}

// lookup returns the first value of key. Keys match case-insensitively, an
// exact match wins.
func lookup(values url.Values, key string) (string, bool) {
	if v, ok := values[key]; ok && len(v) > 0 {
		return v[0], true
	}
	for k, v := range values {
		if strings.EqualFold(k, key) && len(v) > 0 {
			return v[0], true
		}
	}
	return "", false
}

// GetString returns the value of key, or def when absent.
func GetString(values url.Values, key, def string) string {
	if v, ok := lookup(values, key); ok {
		return v
	}
	return def
}

// GetInt returns the value of key parsed as a base-10 int, or def when absent or malformed.
func GetInt(values url.Values, key string, def int) int {
	v, ok := lookup(values, key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// GetInt64 returns the value of key parsed as a base-10 int64, or def when absent or malformed.
func GetInt64(values url.Values, key string, def int64) int64 {
	v, ok := lookup(values, key)
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return def
	}
	return n
}

// GetBool returns the value of key parsed as a bool, or def when absent or malformed.
func GetBool(values url.Values, key string, def bool) bool {
	v, ok := lookup(values, key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}
