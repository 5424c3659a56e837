// Package metrics exports pagination and search observations to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ncobase/pager/paging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements paging.Collector and search.Collector.
type Collector struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	pinned        *prometheus.CounterVec
	searchQueries *prometheus.CounterVec
}

// NewCollector registers the pager metrics, prefixed by namespace, on a
// fresh registry that also carries the Go and process collectors.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		// Labels: backend, outcome (ok, error, canceled), page_range (1-10, 11-50, ...)
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pagination_requests_total",
				Help:      "Total number of pagination requests",
			},
			[]string{"backend", "outcome", "page_range"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pagination_duration_seconds",
				Help:      "Pagination request duration distribution",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0},
			},
			[]string{"backend"},
		),
		pinned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pagination_pinned_lookups_total",
				Help:      "Pinned item lookups by result",
			},
			[]string{"backend", "found"},
		),
		searchQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_queries_total",
				Help:      "Queries sent to hosted search engines",
			},
			[]string{"engine", "status"},
		),
	}
}

// Observe records one finished Paginate call.
func (c *Collector) Observe(backend string, outcome paging.Outcome, page int, d time.Duration) {
	c.requests.WithLabelValues(backend, string(outcome), pageRangeBucket(page)).Inc()
	c.duration.WithLabelValues(backend).Observe(d.Seconds())
}

// ObservePinned records a pinned item lookup.
func (c *Collector) ObservePinned(backend string, found bool) {
	c.pinned.WithLabelValues(backend, strconv.FormatBool(found)).Inc()
}

// SearchQuery records a query sent through search.Client.
func (c *Collector) SearchQuery(engine string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.searchQueries.WithLabelValues(engine, status).Inc()
}

// Registry returns the registry the metrics live in.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// pageRangeBucket keeps the page label bounded.
func pageRangeBucket(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}
