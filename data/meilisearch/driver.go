// Package meilisearch registers a Meilisearch search driver backed by
// meilisearch-go:
//
//	import _ "github.com/ncobase/pager/data/meilisearch"
//
// Connect returns a *client.Client after a successful health check.
package meilisearch

import (
	"context"
	"fmt"

	"github.com/ncobase/pager/data"
	"github.com/ncobase/pager/data/config"
	"github.com/ncobase/pager/data/meilisearch/client"
)

// driver implements data.SearchDriver for Meilisearch.
type driver struct{}

func (d *driver) Name() string {
	return "meilisearch"
}

// Connect creates a client from a *config.Meilisearch and verifies the
// server reports itself available.
func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	msCfg, ok := cfg.(*config.Meilisearch)
	if !ok {
		return nil, fmt.Errorf("meilisearch: invalid configuration type, expected *config.Meilisearch")
	}

	if msCfg.Host == "" {
		return nil, fmt.Errorf("meilisearch: host is empty")
	}

	c := client.NewMeilisearch(msCfg.Host, msCfg.APIKey)
	if _, err := c.Health(); err != nil {
		return nil, fmt.Errorf("meilisearch: health check failed: %w", err)
	}

	return c, nil
}

// Close is a no-op, the SDK holds no connection state beyond its http.Client.
func (d *driver) Close(conn any) error {
	if _, ok := conn.(*client.Client); !ok {
		return fmt.Errorf("meilisearch: invalid connection type, expected *client.Client")
	}
	return nil
}

func init() {
	data.RegisterSearchDriver(&driver{})
}
