package elasticsearch

import (
	"context"
	"fmt"

	"github.com/ncobase/pager/data/elasticsearch/client"
	"github.com/ncobase/pager/data/search"
)

func init() {
	search.RegisterAdapterFactory(search.Elasticsearch, func(conn any) (search.Adapter, error) {
		c, ok := conn.(*client.Client)
		if !ok {
			return nil, fmt.Errorf("expected *client.Client, got %T", conn)
		}
		return NewAdapter(c), nil
	})
}

// Adapter exposes an Elasticsearch cluster as a search.Adapter.
type Adapter struct {
	client *client.Client
}

func NewAdapter(c *client.Client) *Adapter {
	return &Adapter{client: c}
}

func (a *Adapter) Type() search.Engine {
	return search.Elasticsearch
}

func (a *Adapter) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	sr, err := a.client.Search(ctx, req.Index, search.BuildQuery(req))
	if err != nil {
		return nil, err
	}

	return &search.Response{
		Hits:   toHits(sr.Hits.Hits),
		NbHits: sr.Hits.Total.Value,
	}, nil
}

func (a *Adapter) Get(ctx context.Context, index, id string) (*search.Hit, error) {
	sr, err := a.client.Search(ctx, index, search.BuildGetQuery(id))
	if err != nil {
		return nil, err
	}
	if len(sr.Hits.Hits) == 0 {
		return nil, nil
	}
	hit := toHits(sr.Hits.Hits[:1])[0]
	return &hit, nil
}

func (a *Adapter) Health(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func toHits(in []client.Hit) []search.Hit {
	hits := make([]search.Hit, len(in))
	for i, h := range in {
		hits[i] = search.Hit{ID: h.ID, Score: h.Score, Source: h.Source}
	}
	return hits
}
