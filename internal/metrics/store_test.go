package metrics

import (
	"fmt"
	"testing"

	"scent-store/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestStoreMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewStoreMetrics(reg, func() int { return 3 })

	metrics.OrderPlaced(domain.PaymentCashOnDelivery, 2550)
	metrics.OrderPlaced(domain.PaymentCashOnDelivery, 4800)
	metrics.CartMutation("add")
	metrics.GatewayError("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "store_orders_placed_total", "payment_method", "Cash on Delivery"); err != nil {
		t.Fatalf("fetch orders: %v", err)
	} else if got != 2 {
		t.Fatalf("expected orders=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "store_order_revenue_total", "payment_method", "Cash on Delivery"); err != nil {
		t.Fatalf("fetch revenue: %v", err)
	} else if got != 7350 {
		t.Fatalf("expected revenue=7350, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "store_cart_mutations_total", "op", "add"); err != nil {
		t.Fatalf("fetch cart: %v", err)
	} else if got != 1 {
		t.Fatalf("expected cart mutations=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "store_gateway_errors_total", "op", "unknown"); err != nil {
		t.Fatalf("fetch gateway errors: %v", err)
	} else if got != 1 {
		t.Fatalf("expected gateway errors=1, got %f", got)
	}

	sessions := findMetricFamily(mfs, "store_live_sessions")
	if sessions == nil || sessions.GetMetric()[0].GetGauge().GetValue() != 3 {
		t.Fatalf("expected live sessions gauge of 3")
	}
}

func TestStoreMetricsNilSafe(t *testing.T) {
	var metrics *StoreMetrics
	metrics.OrderPlaced(domain.PaymentJazzCash, 1)
	metrics.CartMutation("add")
	metrics.GatewayError("list_products")

	unregistered := NewStoreMetrics(nil, nil)
	unregistered.OrderPlaced(domain.PaymentJazzCash, 1)
	unregistered.CartMutation("add")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
