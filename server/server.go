// Package server exposes the demo products resource over HTTP through the
// relational, hosted search and self-hosted search backends.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/pager/backend/hosted"
	"github.com/ncobase/pager/backend/relational"
	"github.com/ncobase/pager/backend/selfhosted"
	"github.com/ncobase/pager/config"
	"github.com/ncobase/pager/data"
	dc "github.com/ncobase/pager/data/config"
	meili "github.com/ncobase/pager/data/meilisearch/client"
	"github.com/ncobase/pager/data/search"
	"github.com/ncobase/pager/logging/logger"
	"github.com/ncobase/pager/metrics"
	"github.com/ncobase/pager/net/resp"
	"github.com/ncobase/pager/paging"
	"github.com/ncobase/pager/query"

	_ "github.com/ncobase/pager/data/elasticsearch"
	_ "github.com/ncobase/pager/data/meilisearch"
	_ "github.com/ncobase/pager/data/mysql"
	_ "github.com/ncobase/pager/data/opensearch"
	_ "github.com/ncobase/pager/data/postgres"
	_ "github.com/ncobase/pager/data/sqlite"
)

// DefaultIndex names the products index when the configuration has none.
const DefaultIndex = "products"

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "pager"

// Server represents the application server.
type Server struct {
	config     *config.Config
	collector  *metrics.Collector
	db         *sql.DB
	relational *relational.Backend[Product]
	index      *search.Client
	meili      *meili.Client
	meiliIndex string
	products   *ProductHandler
	engine     *gin.Engine
}

// NewServer connects the configured data sources. The database is required;
// a search service that cannot be reached is logged and left out.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	if cfg == nil || cfg.Data == nil || cfg.Data.Database == nil {
		return nil, errors.New("server: database configuration is missing")
	}

	if cfg.Paging == nil {
		cfg.Paging = &config.Paging{
			ItemsPerPage: config.DefaultItemsPerPage,
			MaxHits:      config.DefaultMaxHits,
			HostedEngine: config.DefaultHostedEngine,
		}
	}

	s := &Server{
		config:    cfg,
		collector: metrics.NewCollector(MetricsNamespace),
	}

	node := cfg.Data.Database.Master
	db, err := data.Connect(ctx, node)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.db = db

	products := query.FromTable(db, productSchema, scanProduct, query.WithPlaceholder(query.PlaceholderFor(node.Driver)))
	s.relational = relational.New(products, productStages)

	var hostedBackend, selfHostedBackend paging.Backend[Product]
	if idx, name := s.connectIndex(ctx); idx != nil {
		s.index = idx
		hostedBackend = hosted.New[Product](idx, name,
			hosted.WithFields[Product](searchFields...),
			hosted.WithMaxHits[Product](cfg.Paging.MaxHits),
		)
	}
	if c, name := s.connectMeilisearch(ctx); c != nil {
		s.meili, s.meiliIndex = c, name
		selfHostedBackend = selfhosted.New[Product](c, name,
			selfhosted.WithMaxHits[Product](cfg.Paging.MaxHits),
		)
	}

	s.products = NewProductHandler(s.relational, hostedBackend, selfHostedBackend, s.pagingOptions()...)
	return s, nil
}

func (s *Server) pagingOptions() []paging.Option {
	itemsPerPage := s.config.Paging.ItemsPerPage
	if itemsPerPage == 0 {
		// 0 in the configuration means every item by default
		itemsPerPage = -1
	}
	return []paging.Option{
		paging.WithItemsPerPage(itemsPerPage),
		paging.WithCollector(s.collector),
	}
}

// connectIndex builds the hosted search client over every configured engine.
func (s *Server) connectIndex(ctx context.Context) (*search.Client, string) {
	sc := s.config.Data.Search
	if sc == nil {
		return nil, ""
	}

	var adapters []search.Adapter
	index := DefaultIndex
	engines := []struct {
		engine  search.Engine
		cfg     any
		enabled bool
		index   string
	}{
		{search.Elasticsearch, sc.Elasticsearch, sc.Elasticsearch != nil && len(sc.Elasticsearch.Addresses) > 0, indexOf(sc.Elasticsearch)},
		{search.OpenSearch, sc.OpenSearch, sc.OpenSearch != nil && len(sc.OpenSearch.Addresses) > 0, indexOf(sc.OpenSearch)},
	}
	for _, e := range engines {
		if !e.enabled {
			continue
		}
		adapter, err := newAdapter(ctx, e.engine, e.cfg)
		if err != nil {
			logger.Warnf(ctx, "search engine %s disabled: %v", e.engine, err)
			continue
		}
		adapters = append(adapters, adapter)
		if e.index != "" && (index == DefaultIndex || string(e.engine) == s.config.Paging.HostedEngine) {
			index = e.index
		}
	}
	if len(adapters) == 0 {
		return nil, ""
	}

	client := search.NewClientWithConfig(s.collector, &search.Config{
		IndexPrefix:   sc.IndexPrefix,
		DefaultEngine: search.Engine(s.config.Paging.HostedEngine),
	}, adapters...)
	logger.Infof(ctx, "hosted search uses %s, index %s", client.Engine(), index)
	return client, index
}

func newAdapter(ctx context.Context, engine search.Engine, cfg any) (search.Adapter, error) {
	driver, err := data.GetSearchDriver(string(engine))
	if err != nil {
		return nil, err
	}
	conn, err := driver.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return search.NewAdapter(engine, conn)
}

func indexOf(cfg any) string {
	switch c := cfg.(type) {
	case *dc.Elasticsearch:
		if c != nil {
			return c.Index
		}
	case *dc.OpenSearch:
		if c != nil {
			return c.Index
		}
	}
	return ""
}

// connectMeilisearch returns the Meilisearch client and the prefixed index name.
func (s *Server) connectMeilisearch(ctx context.Context) (*meili.Client, string) {
	sc := s.config.Data.Search
	if sc == nil || sc.Meilisearch == nil || sc.Meilisearch.Host == "" {
		return nil, ""
	}

	driver, err := data.GetSearchDriver("meilisearch")
	if err != nil {
		logger.Warnf(ctx, "meilisearch disabled: %v", err)
		return nil, ""
	}
	conn, err := driver.Connect(ctx, sc.Meilisearch)
	if err != nil {
		logger.Warnf(ctx, "meilisearch disabled: %v", err)
		return nil, ""
	}
	c, ok := conn.(*meili.Client)
	if !ok {
		logger.Warnf(ctx, "meilisearch disabled: unexpected connection %T", conn)
		return nil, ""
	}

	index := sc.Meilisearch.Index
	if index == "" {
		index = DefaultIndex
	}
	if sc.IndexPrefix != "" {
		index = sc.IndexPrefix + "-" + index
	}
	return c, index
}

// Seed inserts the demo catalog when the table is empty and pushes every
// product to Meilisearch when it is configured.
func (s *Server) Seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count == 0 {
		format := query.PlaceholderFor(s.config.Data.Database.Master.Driver)
		if err := insertProducts(ctx, s.db, format, DemoProducts()); err != nil {
			return err
		}
		logger.Infof(ctx, "seeded %d products", len(DemoProducts()))
	}

	if s.meili == nil {
		return nil
	}

	all, err := paging.Paginate(ctx, "itemsPerPage=0", s.relational)
	if err != nil {
		return err
	}
	if _, err := s.meili.UpdateFilterableAttributes(ctx, s.meiliIndex, []string{"id", "category"}); err != nil {
		return err
	}
	task, err := s.meili.UpdateDocuments(ctx, s.meiliIndex, all.Items, "id")
	if err != nil {
		return err
	}
	logger.Infof(ctx, "pushed %d products to meilisearch index %s, task %d", len(all.Items), s.meiliIndex, task)
	return nil
}

// SetupRouter sets up the Gin router.
func (s *Server) SetupRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(traceMiddleware())
	r.Use(loggerMiddleware())

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(s.collector.Handler()))

	api := r.Group("/api/v1")
	api.GET("/products", s.products.List)
	api.GET("/products/search", s.products.Search)
	api.GET("/products/meili", s.products.SelfHosted)

	s.engine = r
	return r
}

// health reports the state of every data source. Only the database is
// required for a healthy answer.
func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	components := map[string]string{}
	healthy := true
	if err := s.db.PingContext(ctx); err != nil {
		components["database"] = err.Error()
		healthy = false
	} else {
		components["database"] = "ok"
	}
	if s.index != nil {
		for engine, err := range s.index.Health(ctx) {
			components[string(engine)] = statusOf(err)
		}
	}
	if s.meili != nil {
		if s.meili.IsHealthy() {
			components["meilisearch"] = "ok"
		} else {
			components["meilisearch"] = "unavailable"
		}
	}

	if !healthy {
		resp.Fail(c.Writer, resp.ServiceUnavailable("unhealthy", components))
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusOK, map[string]any{"status": "healthy", "components": components})
}

func statusOf(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}

// Collector returns the metrics collector shared by every backend.
func (s *Server) Collector() *metrics.Collector { return s.collector }

// Cleanup closes the database.
func (s *Server) Cleanup() {
	if s.db != nil {
		_ = s.db.Close()
	}
}
