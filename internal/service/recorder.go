package service

import "scent-store/internal/domain"

// Recorder observes business events for metrics
type Recorder interface {
	OrderPlaced(method domain.PaymentMethod, total float64)
	GatewayError(op string)
}

type nopRecorder struct{}

func (nopRecorder) OrderPlaced(domain.PaymentMethod, float64) {}
func (nopRecorder) GatewayError(string)                       {}
