package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bakery_orders_created_total",
		Help: "Total number of orders successfully placed.",
	})

	OrdersCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bakery_orders_cancelled_total",
		Help: "Total number of orders cancelled.",
	})

	AvailabilityRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bakery_availability_requests_total",
		Help: "Total number of availability queries by kind (dates, slots).",
	},
		[]string{"kind"},
	)

	LoginCodesIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bakery_login_codes_issued_total",
		Help: "Total number of SMS login codes issued.",
	})

	MagicLinksIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bakery_magic_links_issued_total",
		Help: "Total number of magic links emailed.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bakery_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	OrderCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bakery_order_cache_items",
		Help: "Current number of items in the active-order cache.",
	})
)
