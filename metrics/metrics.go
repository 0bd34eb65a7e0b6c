// Package metrics provides the Prometheus collectors of the service.
package metrics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"hansik/models"
)

// Metrics contains every collector the HTTP layer updates.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Searches        *prometheus.CounterVec
	SearchResults   prometheus.Histogram
	ThumbnailCache  *prometheus.CounterVec
	CatalogSize     prometheus.Gauge
}

// New creates the collectors and registers them with registry.
func New(registry prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hansik_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status code",
		}, []string{"route", "method", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hansik_http_request_duration_seconds",
			Help:    "Latency of HTTP requests in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"route"}),
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hansik_searches_total",
			Help: "Total number of recipe searches by criterion used",
		}, []string{"kind"}),
		SearchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hansik_search_results",
			Help:    "Number of recipes returned by a search",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		ThumbnailCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hansik_thumbnail_cache_total",
			Help: "Thumbnail cache lookups by result",
		}, []string{"result"}),
		CatalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hansik_catalog_recipes",
			Help: "Number of recipes loaded in the catalog",
		}),
	}
	for _, c := range []prometheus.Collector{
		m.Requests, m.RequestDuration, m.Searches, m.SearchResults, m.ThumbnailCache, m.CatalogSize,
	} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return m, nil
}

// ObserveRequest records a finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveSearch records a listing search. Each criterion in use is counted;
// a search without criteria counts as "none".
func (m *Metrics) ObserveSearch(f models.RecipeFilter, results int) {
	if m == nil {
		return
	}
	if f.IsZero() {
		m.Searches.WithLabelValues("none").Inc()
	}
	if strings.TrimSpace(f.Query) != "" {
		m.Searches.WithLabelValues("query").Inc()
	}
	if f.Tag != "" {
		m.Searches.WithLabelValues("tag").Inc()
	}
	if f.Difficulty != "" {
		m.Searches.WithLabelValues("difficulty").Inc()
	}
	m.SearchResults.Observe(float64(results))
}

// ObserveThumbnailCache records a thumbnail cache hit or miss.
func (m *Metrics) ObserveThumbnailCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.ThumbnailCache.WithLabelValues("hit").Inc()
	} else {
		m.ThumbnailCache.WithLabelValues("miss").Inc()
	}
}
