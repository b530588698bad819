package metrics

import (
	"scent-store/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics records storefront activity. A nil *StoreMetrics, or one built
// without a registerer, records nothing.
type StoreMetrics struct {
	ordersPlaced  *prometheus.CounterVec
	orderRevenue  *prometheus.CounterVec
	cartMutations *prometheus.CounterVec
	gatewayErrors *prometheus.CounterVec
	sessions      prometheus.GaugeFunc
}

// NewStoreMetrics registers the storefront metrics on the provided registerer.
// liveSessions, when non-nil, is sampled for the live session gauge.
func NewStoreMetrics(reg prometheus.Registerer, liveSessions func() int) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_orders_placed_total",
		Help: "Orders placed, by payment method.",
	}, []string{"payment_method"})
	orderRevenue := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_order_revenue_total",
		Help: "Sum of placed order totals in rupees, by payment method.",
	}, []string{"payment_method"})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_cart_mutations_total",
		Help: "Cart changes, by operation.",
	}, []string{"op"})
	gatewayErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_gateway_errors_total",
		Help: "Failed catalog and order gateway calls, by operation.",
	}, []string{"op"})
	reg.MustRegister(ordersPlaced, orderRevenue, cartMutations, gatewayErrors)

	m := &StoreMetrics{
		ordersPlaced:  ordersPlaced,
		orderRevenue:  orderRevenue,
		cartMutations: cartMutations,
		gatewayErrors: gatewayErrors,
	}

	if liveSessions != nil {
		m.sessions = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "store_live_sessions",
			Help: "Sessions currently held in memory.",
		}, func() float64 { return float64(liveSessions()) })
		reg.MustRegister(m.sessions)
	}

	return m
}

// OrderPlaced counts a placed order and its total
func (m *StoreMetrics) OrderPlaced(method domain.PaymentMethod, total float64) {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	label := normalizeLabel(string(method))
	m.ordersPlaced.WithLabelValues(label).Inc()
	if total > 0 {
		m.orderRevenue.WithLabelValues(label).Add(total)
	}
}

// CartMutation counts a cart change
func (m *StoreMetrics) CartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// GatewayError counts a failed gateway call
func (m *StoreMetrics) GatewayError(op string) {
	if m == nil || m.gatewayErrors == nil {
		return
	}
	m.gatewayErrors.WithLabelValues(normalizeLabel(op)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
