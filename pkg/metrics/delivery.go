package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kiatumarket/kiatu-backend/pkg/enums"
)

// DeliveryMetrics counts delivery zone classifications.
type DeliveryMetrics struct {
	quotes *prometheus.CounterVec
}

// NewDeliveryMetrics registers the delivery metrics on reg. A nil registerer
// yields a no-op recorder.
func NewDeliveryMetrics(reg prometheus.Registerer) *DeliveryMetrics {
	if reg == nil {
		return &DeliveryMetrics{}
	}
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "delivery_quotes_total",
		Help:      "Delivery fee classifications by zone.",
	}, []string{"zone"})
	reg.MustRegister(quotes)
	return &DeliveryMetrics{quotes: quotes}
}

// IncQuote records one classification for zone.
func (d *DeliveryMetrics) IncQuote(zone enums.DeliveryZone) {
	if d == nil || d.quotes == nil {
		return
	}
	d.quotes.WithLabelValues(normalizeLabel(zone.String())).Inc()
}
