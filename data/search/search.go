package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrNoEngineAvailable = errors.New("no search engine available")
	ErrEngineNotFound    = errors.New("search engine not found")
)

// Config represents search client configuration
type Config struct {
	IndexPrefix   string
	DefaultEngine Engine
}

// Collector interface for metrics
type Collector interface {
	SearchQuery(engine string, err error)
}

// NoOpCollector implementation
type NoOpCollector struct{}

func (NoOpCollector) SearchQuery(string, error) {}

// Adapter interface for search engine implementations
type Adapter interface {
	Search(ctx context.Context, req *Request) (*Response, error)
	// Get returns the document with the given id, or nil when the index has
	// no such document.
	Get(ctx context.Context, index, id string) (*Hit, error)
	Health(ctx context.Context) error
	Type() Engine
}

// Client routes requests to the first healthy engine and prefixes index
// names.
type Client struct {
	adapters  map[Engine]Adapter
	collector Collector
	config    Config

	mu     sync.RWMutex
	engine Engine
}

// NewClient creates a new search client with provided adapters
func NewClient(collector Collector, adapters ...Adapter) *Client {
	return NewClientWithConfig(collector, nil, adapters...)
}

// NewClientWithConfig creates a new search client with configuration
func NewClientWithConfig(collector Collector, config *Config, adapters ...Adapter) *Client {
	adapterMap := make(map[Engine]Adapter)
	for _, a := range adapters {
		if a != nil {
			adapterMap[a.Type()] = a
		}
	}

	if collector == nil {
		collector = NoOpCollector{}
	}

	c := &Client{adapters: adapterMap, collector: collector}
	if config != nil {
		c.config = *config
	}

	c.setEngine()
	return c
}

func (c *Client) buildIndexName(index string) string {
	if c.config.IndexPrefix == "" {
		return index
	}
	return fmt.Sprintf("%s-%s", c.config.IndexPrefix, index)
}

func (c *Client) setEngine() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine = ""

	// Use configured default engine if specified and available
	if eng := c.config.DefaultEngine; eng != "" {
		if adapter, ok := c.adapters[eng]; ok && adapter.Health(ctx) == nil {
			c.engine = eng
			return
		}
	}

	// Priority: OpenSearch > Elasticsearch
	for _, eng := range []Engine{OpenSearch, Elasticsearch} {
		if adapter, ok := c.adapters[eng]; ok && adapter.Health(ctx) == nil {
			c.engine = eng
			return
		}
	}
}

func (c *Client) getAdapter() (Adapter, error) {
	c.mu.RLock()
	engine := c.engine
	c.mu.RUnlock()

	if engine == "" {
		c.setEngine()
		c.mu.RLock()
		engine = c.engine
		c.mu.RUnlock()
		if engine == "" {
			return nil, ErrNoEngineAvailable
		}
	}

	if adapter, ok := c.adapters[engine]; ok {
		return adapter, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrEngineNotFound, engine)
}

// Search runs req on the selected engine. The response reports the page it
// answers and the page count derived from the hit count.
func (c *Client) Search(ctx context.Context, req *Request) (*Response, error) {
	adapter, err := c.getAdapter()
	if err != nil {
		return nil, err
	}

	start := time.Now()

	prefixedReq := *req
	prefixedReq.Index = c.buildIndexName(req.Index)

	resp, err := adapter.Search(ctx, &prefixedReq)
	c.collector.SearchQuery(string(adapter.Type()), err)
	if err != nil {
		return nil, err
	}

	if resp != nil {
		resp.Page = req.Page
		resp.HitsPerPage = req.HitsPerPage
		resp.NbPages = pageCount(resp.NbHits, req.HitsPerPage)
		resp.Duration = time.Since(start)
		resp.Engine = adapter.Type()
	}
	return resp, nil
}

// Get fetches one document by id from the selected engine.
func (c *Client) Get(ctx context.Context, index, id string) (*Hit, error) {
	adapter, err := c.getAdapter()
	if err != nil {
		return nil, err
	}

	hit, err := adapter.Get(ctx, c.buildIndexName(index), id)
	c.collector.SearchQuery(string(adapter.Type()), err)
	return hit, err
}

// Engine returns the selected engine, empty when none is healthy.
func (c *Client) Engine() Engine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine
}

// Health checks every configured engine.
func (c *Client) Health(ctx context.Context) map[Engine]error {
	results := make(map[Engine]error, len(c.adapters))
	for eng, adapter := range c.adapters {
		results[eng] = adapter.Health(ctx)
	}
	return results
}

func pageCount(hits, perPage int) int {
	if hits <= 0 || perPage <= 0 {
		return 0
	}
	return (hits + perPage - 1) / perPage
}
