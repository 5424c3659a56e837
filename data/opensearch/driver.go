// Package opensearch registers an OpenSearch search driver backed by
// opensearch-go/v4, together with the search.Adapter built on it:
//
//	import _ "github.com/ncobase/pager/data/opensearch"
//
// InsecureSkipTLS disables certificate verification, for clusters behind
// self-signed certificates.
package opensearch

import (
	"context"
	"fmt"

	"github.com/ncobase/pager/data"
	"github.com/ncobase/pager/data/config"
	"github.com/ncobase/pager/data/opensearch/client"
)

// driver implements data.SearchDriver for OpenSearch.
type driver struct{}

func (d *driver) Name() string {
	return "opensearch"
}

// Connect builds a client from a *config.OpenSearch.
func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	osCfg, ok := cfg.(*config.OpenSearch)
	if !ok {
		return nil, fmt.Errorf("opensearch: invalid configuration type, expected *config.OpenSearch")
	}

	if len(osCfg.Addresses) == 0 {
		return nil, fmt.Errorf("opensearch: addresses are empty")
	}

	c, err := client.NewClient(osCfg.Addresses, osCfg.Username, osCfg.Password, osCfg.InsecureSkipTLS)
	if err != nil {
		return nil, fmt.Errorf("opensearch: failed to create client: %w", err)
	}

	return c, nil
}

func (d *driver) Close(conn any) error {
	if _, ok := conn.(*client.Client); !ok {
		return fmt.Errorf("opensearch: invalid connection type, expected *client.Client")
	}
	return nil
}

func init() {
	data.RegisterSearchDriver(&driver{})
}
