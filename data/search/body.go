package search

// BuildQuery renders the query DSL body shared by Elasticsearch and
// OpenSearch. An empty query matches every document; excluded ids are
// removed with an ids clause so they never count toward the total.
func BuildQuery(req *Request) map[string]any {
	var must map[string]any
	if req.Query == "" {
		must = map[string]any{"match_all": map[string]any{}}
	} else {
		mm := map[string]any{"query": req.Query}
		if len(req.Fields) > 0 {
			mm["fields"] = req.Fields
		}
		must = map[string]any{"multi_match": mm}
	}

	boolQuery := map[string]any{"must": []any{must}}
	if len(req.Exclude) > 0 {
		boolQuery["must_not"] = []any{
			map[string]any{"ids": map[string]any{"values": req.Exclude}},
		}
	}

	return map[string]any{
		"from":             req.From(),
		"size":             max(req.HitsPerPage, 0),
		"track_total_hits": true,
		"query":            map[string]any{"bool": boolQuery},
	}
}

// BuildGetQuery renders a body that matches the single document id.
func BuildGetQuery(id string) map[string]any {
	return map[string]any{
		"size": 1,
		"query": map[string]any{
			"ids": map[string]any{"values": []string{id}},
		},
	}
}
