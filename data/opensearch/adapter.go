package opensearch

import (
	"context"
	"fmt"

	"github.com/ncobase/pager/data/opensearch/client"
	"github.com/ncobase/pager/data/search"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

func init() {
	search.RegisterAdapterFactory(search.OpenSearch, func(conn any) (search.Adapter, error) {
		c, ok := conn.(*client.Client)
		if !ok {
			return nil, fmt.Errorf("expected *client.Client, got %T", conn)
		}
		return NewAdapter(c), nil
	})
}

// Adapter exposes an OpenSearch cluster as a search.Adapter.
type Adapter struct {
	client *client.Client
}

func NewAdapter(c *client.Client) *Adapter {
	return &Adapter{client: c}
}

func (a *Adapter) Type() search.Engine {
	return search.OpenSearch
}

func (a *Adapter) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	res, err := a.client.Search(ctx, req.Index, search.BuildQuery(req))
	if err != nil {
		return nil, err
	}

	return &search.Response{
		Hits:   toHits(res.Hits.Hits),
		NbHits: res.Hits.Total.Value,
	}, nil
}

func (a *Adapter) Get(ctx context.Context, index, id string) (*search.Hit, error) {
	res, err := a.client.Search(ctx, index, search.BuildGetQuery(id))
	if err != nil {
		return nil, err
	}
	if len(res.Hits.Hits) == 0 {
		return nil, nil
	}
	hit := toHits(res.Hits.Hits[:1])[0]
	return &hit, nil
}

// Health reports an error for a red cluster.
func (a *Adapter) Health(ctx context.Context) error {
	status, err := a.client.Health(ctx)
	if err != nil {
		return err
	}
	if status == "red" {
		return fmt.Errorf("opensearch cluster status is %s", status)
	}
	return nil
}

func toHits(in []opensearchapi.SearchHit) []search.Hit {
	hits := make([]search.Hit, len(in))
	for i, h := range in {
		hits[i] = search.Hit{ID: h.ID, Score: float64(h.Score), Source: h.Source}
	}
	return hits
}
