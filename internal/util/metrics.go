package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartItemsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_items_added_total",
		Help: "Total number of line item add operations",
	})

	CartItemsRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_items_removed_total",
		Help: "Total number of line item remove/delete operations",
	})

	QuantityLimitRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_quantity_limit_rejections_total",
		Help: "Total number of add operations rejected by the per-line quantity ceiling",
	})

	CartsClearedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carts_cleared_total",
		Help: "Total number of carts explicitly cleared",
	})

	CheckoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Total number of successful checkouts",
	})

	CartPersistFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Total number of failed cart persistence writes",
	}, []string{"backend"})

	CartHydrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_hydrations_total",
		Help: "Total number of cart loads by source",
	}, []string{"source"})

	DeliveryQuotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "delivery_quotes_total",
		Help: "Total number of delivery quotes resolved",
	}, []string{"result"})

	DeliveryConfigRefreshesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "delivery_config_refreshes_total",
		Help: "Total number of delivery milestone configuration reloads",
	})

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
