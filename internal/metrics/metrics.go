// Package metrics exposes Prometheus counters for the cart and checkout flow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CartRejections counts cart mutations refused by a business rule.
	CartRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "cart_rejections_total",
		Help:      "Cart mutations rejected, by reason.",
	}, []string{"reason"})

	// CheckoutOutcomes counts terminal results of checkout attempts.
	CheckoutOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "checkout_outcomes_total",
		Help:      "Checkout attempts by outcome.",
	}, []string{"outcome"})

	// PaymentOutcomes counts gateway callbacks.
	PaymentOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "payment_outcomes_total",
		Help:      "Payment gateway callbacks by status.",
	}, []string{"status"})

	// SinkWrites counts order sink calls.
	SinkWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "order_sink_writes_total",
		Help:      "Order sink writes by sink and result.",
	}, []string{"sink", "result"})

	// CatalogRefreshes counts feed refreshes.
	CatalogRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "catalog_refreshes_total",
		Help:      "Catalogue feed refreshes by result.",
	}, []string{"result"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
