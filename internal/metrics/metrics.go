package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderCallsTotal tracks generation attempts per model
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notaria_ia_provider_calls_total",
			Help: "Total number of provider generation attempts",
		},
		[]string{"provider", "model"},
	)

	// ProviderErrorsTotal tracks failed attempts per model and error class
	ProviderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notaria_ia_provider_errors_total",
			Help: "Total number of failed provider attempts",
		},
		[]string{"provider", "model", "class"},
	)

	// ProviderLatency tracks provider call latency
	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notaria_ia_provider_latency_seconds",
			Help:    "Provider call latency in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"provider", "model"},
	)

	// RetriesTotal tracks retries scheduled after transient failures
	RetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notaria_ia_retries_total",
			Help: "Total number of retries after transient provider failures",
		},
		[]string{"model"},
	)

	// FallbacksTotal tracks candidates abandoned for the next one
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notaria_ia_fallbacks_total",
			Help: "Total number of candidates that failed and were skipped",
		},
		[]string{"model"},
	)

	// InvocationsTotal tracks fallback-chain outcomes
	InvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notaria_ia_invocations_total",
			Help: "Total number of fallback-chain invocations by result",
		},
		[]string{"result"},
	)

	// CatalogRefreshTotal tracks model catalog refreshes by source
	CatalogRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notaria_ia_catalog_refresh_total",
			Help: "Total number of model catalog refreshes",
		},
		[]string{"source", "result"},
	)

	// CatalogCacheHits tracks catalog reads served from cache
	CatalogCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notaria_ia_catalog_cache_hits_total",
			Help: "Total number of model catalog reads served from cache",
		},
	)

	// ResolverLookups tracks candidate resolution outcomes
	ResolverLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notaria_ia_resolver_lookups_total",
			Help: "Total number of model candidate resolutions by reason",
		},
		[]string{"reason"},
	)

	// JobsTotal tracks async analysis jobs by final state
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notaria_ia_jobs_total",
			Help: "Total number of async analysis jobs by state",
		},
		[]string{"state"},
	)

	// HTTPRequests tracks API requests
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notaria_ia_http_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"route", "status"},
	)

	// DBConnectionPoolUsage tracks the percentage of open connections in use
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notaria_ia_db_connection_pool_usage_percent",
			Help: "Database connection pool usage percentage",
		},
	)
)
