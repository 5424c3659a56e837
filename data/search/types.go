package search

import (
	"encoding/json"
	"math"
	"time"
)

// Engine represents search engine type
type Engine string

const (
	Elasticsearch Engine = "elasticsearch"
	OpenSearch    Engine = "opensearch"
)

// Request represents unified search request. Page is 0-based.
type Request struct {
	Index       string   `json:"index"`
	Query       string   `json:"query"`
	Fields      []string `json:"fields,omitempty"`
	Page        int      `json:"page"`
	HitsPerPage int      `json:"hits_per_page"`
	Exclude     []string `json:"exclude,omitempty"`
}

// From returns the offset of the first hit of the page.
func (r *Request) From() int {
	if r.Page <= 0 || r.HitsPerPage <= 0 {
		return 0
	}
	if r.Page > math.MaxInt/r.HitsPerPage {
		return math.MaxInt
	}
	return r.Page * r.HitsPerPage
}

// Response represents unified search response. NbHits counts every match of
// the query, not only the hits of the page.
type Response struct {
	Hits        []Hit         `json:"hits"`
	NbHits      int           `json:"nb_hits"`
	NbPages     int           `json:"nb_pages"`
	Page        int           `json:"page"`
	HitsPerPage int           `json:"hits_per_page"`
	Duration    time.Duration `json:"duration"`
	Engine      Engine        `json:"engine"`
}

// Hit represents search result item
type Hit struct {
	ID     string          `json:"id"`
	Score  float64         `json:"score"`
	Source json.RawMessage `json:"source"`
}

// Decode unmarshals the stored document into v.
func (h Hit) Decode(v any) error {
	return json.Unmarshal(h.Source, v)
}
