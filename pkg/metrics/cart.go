package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kiatumarket/kiatu-backend/pkg/enums"
)

// CartMetrics counts persisted cart mutations.
type CartMetrics struct {
	mutations *prometheus.CounterVec
	conflicts prometheus.Counter
}

// NewCartMetrics registers the cart metrics on reg.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Persisted cart mutations by operation.",
	}, []string{"op"})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_vendor_conflicts_total",
		Help:      "Add-to-cart attempts rejected because the cart holds another vendor's items.",
	})
	reg.MustRegister(mutations, conflicts)
	return &CartMetrics{mutations: mutations, conflicts: conflicts}
}

// IncMutation records a persisted mutation.
func (c *CartMetrics) IncMutation(op enums.CartOperation) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op.String())).Inc()
}

// IncVendorConflict records a rejected cross-vendor add.
func (c *CartMetrics) IncVendorConflict() {
	if c == nil || c.conflicts == nil {
		return
	}
	c.conflicts.Inc()
}
