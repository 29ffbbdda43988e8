package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CheckoutMetrics counts checkout attempts by terminal outcome. The reason
// label carries the failure kind ("insufficient_stock", "order_persistence",
// "indeterminate", ...) and is empty for committed checkouts.
type CheckoutMetrics struct {
	Attempts  prometheus.Counter
	Committed prometheus.Counter
	Failed    *prometheus.CounterVec
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &CheckoutMetrics{
		Attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "checkout",
			Name:      "attempts_total",
			Help:      "Total number of checkout attempts.",
		}),
		Committed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "checkout",
			Name:      "committed_total",
			Help:      "Total number of committed checkouts.",
		}),
		Failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "checkout",
			Name:      "failed_total",
			Help:      "Total number of failed checkouts by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(m.Attempts, m.Committed, m.Failed)
	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}
