// Package metrics defines the Prometheus collectors for the engine and
// exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the engine.
type Metrics struct {
	DocsIndexedTotal     prometheus.Counter
	PagesCrawledTotal    prometheus.Counter
	LinksDiscoveredTotal prometheus.Counter
	CrawlBudgetRemaining prometheus.Gauge
	SearchQueriesTotal   *prometheus.CounterVec
	SearchLatency        *prometheus.HistogramVec
	IndexMergesTotal     prometheus.Counter
}

// New creates and registers all engine metrics.
func New() *Metrics {
	m := &Metrics{
		DocsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docs_indexed_total",
				Help: "Total text files indexed.",
			},
		),
		PagesCrawledTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pages_crawled_total",
				Help: "Total web pages fetched and indexed.",
			},
		),
		LinksDiscoveredTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "links_discovered_total",
				Help: "Total anchor links extracted during the crawl.",
			},
		),
		CrawlBudgetRemaining: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "crawl_budget_remaining",
				Help: "Admission slots left in the current crawl.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total search queries by mode (exact, partial).",
			},
			[]string{"mode"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Search query latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"mode"},
		),
		IndexMergesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "index_merges_total",
				Help: "Total local-index merges into the shared index.",
			},
		),
	}

	prometheus.MustRegister(
		m.DocsIndexedTotal,
		m.PagesCrawledTotal,
		m.LinksDiscoveredTotal,
		m.CrawlBudgetRemaining,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.IndexMergesTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
