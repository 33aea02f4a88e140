package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CheckoutMetrics counts checkout outcomes and every soft-fail degradation.
// The best-effort steps of the checkout flow are allowed to fail without
// failing the sale, but never silently: each miss increments a counter here.
type CheckoutMetrics struct {
	Checkouts          *prometheus.CounterVec
	StockDecrementMiss prometheus.Counter
	PaymentFallbacks   prometheus.Counter
	PaymentsSkipped    prometheus.Counter
	PriceMismatches    prometheus.Counter
}

func NewCheckoutMetrics() *CheckoutMetrics {
	m := &CheckoutMetrics{
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gelatopos",
			Subsystem: "checkout",
			Name:      "requests_total",
			Help:      "Checkout requests by outcome.",
		}, []string{"outcome"}),
		StockDecrementMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gelatopos",
			Subsystem: "checkout",
			Name:      "stock_decrement_failures_total",
			Help:      "Stock decrements that failed or found insufficient stock.",
		}),
		PaymentFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gelatopos",
			Subsystem: "checkout",
			Name:      "payment_method_fallbacks_total",
			Help:      "Checkouts where the submitted payment method was replaced by the first active one.",
		}),
		PaymentsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gelatopos",
			Subsystem: "checkout",
			Name:      "payments_skipped_total",
			Help:      "Invoices persisted without a payment row because no active method existed.",
		}),
		PriceMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gelatopos",
			Subsystem: "checkout",
			Name:      "price_mismatches_total",
			Help:      "Submitted totals that disagree with the recomputed line sum.",
		}),
	}

	prometheus.MustRegister(
		m.Checkouts,
		m.StockDecrementMiss,
		m.PaymentFallbacks,
		m.PaymentsSkipped,
		m.PriceMismatches,
	)
	return m
}

// NewUnregistered builds the same set without touching the global registry,
// for tests that construct more than one service.
func NewUnregistered() *CheckoutMetrics {
	return &CheckoutMetrics{
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "requests_total",
		}, []string{"outcome"}),
		StockDecrementMiss: prometheus.NewCounter(prometheus.CounterOpts{Name: "stock_decrement_failures_total"}),
		PaymentFallbacks:   prometheus.NewCounter(prometheus.CounterOpts{Name: "payment_method_fallbacks_total"}),
		PaymentsSkipped:    prometheus.NewCounter(prometheus.CounterOpts{Name: "payments_skipped_total"}),
		PriceMismatches:    prometheus.NewCounter(prometheus.CounterOpts{Name: "price_mismatches_total"}),
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
