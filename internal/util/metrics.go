package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_queries_total",
		Help: "Total number of catalog listing queries by view",
	}, []string{"view"})

	CatalogQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_query_duration_seconds",
		Help:    "Latency of catalog listing queries by view",
		Buckets: prometheus.DefBuckets,
	}, []string{"view"})

	CatalogQueryErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_query_errors_total",
		Help: "Total number of failed catalog queries",
	}, []string{"view", "reason"})

	SearchQueriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_search_queries_total",
		Help: "Total number of listing queries carrying a search term",
	})

	StockDecrementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_stock_decrements_total",
		Help: "Total number of stock decrement attempts by outcome",
	}, []string{"outcome"})

	LowStockEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_low_stock_events_total",
		Help: "Total number of low-stock events published",
	})

	StockRemaining = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "catalog_stock_remaining",
		Help: "Last observed remaining stock per product",
	}, []string{"product_id"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
