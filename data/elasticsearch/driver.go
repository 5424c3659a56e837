// Package elasticsearch registers an Elasticsearch search driver backed by
// go-elasticsearch/v8, together with the search.Adapter built on it:
//
//	import _ "github.com/ncobase/pager/data/elasticsearch"
//
//	driver, err := data.GetSearchDriver("elasticsearch")
//	conn, err := driver.Connect(ctx, &config.Elasticsearch{
//	    Addresses: []string{"http://localhost:9200"},
//	})
//	adapter, err := search.NewAdapter(search.Elasticsearch, conn)
package elasticsearch

import (
	"context"
	"fmt"

	"github.com/ncobase/pager/data"
	"github.com/ncobase/pager/data/config"
	"github.com/ncobase/pager/data/elasticsearch/client"
)

// driver implements data.SearchDriver for Elasticsearch.
type driver struct{}

func (d *driver) Name() string {
	return "elasticsearch"
}

// Connect builds a client from a *config.Elasticsearch. The cluster is not
// contacted; search.Client health checks decide whether it is used.
func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	esCfg, ok := cfg.(*config.Elasticsearch)
	if !ok {
		return nil, fmt.Errorf("elasticsearch: invalid configuration type, expected *config.Elasticsearch")
	}

	if len(esCfg.Addresses) == 0 {
		return nil, fmt.Errorf("elasticsearch: addresses are empty")
	}

	c, err := client.NewClient(esCfg.Addresses, esCfg.Username, esCfg.Password, nil)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to create client: %w", err)
	}

	return c, nil
}

func (d *driver) Close(conn any) error {
	if _, ok := conn.(*client.Client); !ok {
		return fmt.Errorf("elasticsearch: invalid connection type, expected *client.Client")
	}
	return nil
}

func init() {
	data.RegisterSearchDriver(&driver{})
}
