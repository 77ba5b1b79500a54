package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for order and stock observability.
// Counters carry a store_id label for per-merchant dashboard segmentation.
type BusinessMetrics struct {
	// Orders
	OrdersCreated  *prometheus.CounterVec
	OrderValue     *prometheus.HistogramVec
	OrderItemCount prometheus.Histogram

	// Status lifecycle
	StatusTransitions *prometheus.CounterVec

	// Stock reconciliation
	StockDecrements    prometheus.Counter
	StockIncrements    prometheus.Counter
	StockInsufficiency prometheus.Counter
}

// NewBusinessMetrics registers all business metrics on reg.
func NewBusinessMetrics(reg prometheus.Registerer) *BusinessMetrics {
	factory := promauto.With(reg)

	return &BusinessMetrics{
		OrdersCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders successfully placed.",
		}, []string{"store_id"}),
		OrderValue: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "order_value",
			Help:    "Order grand totals in store currency units.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"store_id"}),
		OrderItemCount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "order_item_count",
			Help:    "Line items per order.",
			Buckets: prometheus.LinearBuckets(1, 2, 10),
		}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "order_status_transitions_total",
			Help: "Order status transitions by from/to state.",
		}, []string{"from", "to"}),
		StockDecrements: factory.NewCounter(prometheus.CounterOpts{
			Name: "stock_decrements_total",
			Help: "Stock pool decrements committed by the reconciler.",
		}),
		StockIncrements: factory.NewCounter(prometheus.CounterOpts{
			Name: "stock_increments_total",
			Help: "Stock pool increments committed by the reconciler.",
		}),
		StockInsufficiency: factory.NewCounter(prometheus.CounterOpts{
			Name: "stock_insufficiency_total",
			Help: "Order operations rejected for insufficient stock.",
		}),
	}
}
