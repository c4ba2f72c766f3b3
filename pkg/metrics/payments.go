package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records outcomes of the payment lifecycle. The reconciliation
// failure counter backs alerting on orders that were paid at the gateway but
// could not be updated in the store.
type PaymentMetrics struct {
	intentsCreated          *prometheus.CounterVec
	confirmations           *prometheus.CounterVec
	reconciliationFailures  prometheus.Counter
	gatewayDuration         *prometheus.HistogramVec
	ordersCreated           prometheus.Counter
	orderNumberCollisions   prometheus.Counter
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	intentsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_intents_created",
		Help: "Payment intents created, by outcome.",
	}, []string{"outcome"})
	confirmations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_confirmations",
		Help: "Payment confirmation attempts, by outcome.",
	}, []string{"outcome"})
	reconciliationFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payment_reconciliation_failures",
		Help: "Payments accepted by the gateway whose order update failed.",
	})
	gatewayDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payment_gateway_duration_seconds",
		Help:    "Duration of gateway calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created",
		Help: "Orders created from carts.",
	})
	orderNumberCollisions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_number_collisions",
		Help: "Order number collisions that triggered regeneration.",
	})
	reg.MustRegister(intentsCreated, confirmations, reconciliationFailures,
		gatewayDuration, ordersCreated, orderNumberCollisions)
	return &PaymentMetrics{
		intentsCreated:         intentsCreated,
		confirmations:          confirmations,
		reconciliationFailures: reconciliationFailures,
		gatewayDuration:        gatewayDuration,
		ordersCreated:          ordersCreated,
		orderNumberCollisions:  orderNumberCollisions,
	}
}

// IncIntentCreated increments the intent counter for the given outcome.
func (p *PaymentMetrics) IncIntentCreated(outcome string) {
	if p == nil || p.intentsCreated == nil {
		return
	}
	p.intentsCreated.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncConfirmation increments the confirmation counter for the given outcome.
func (p *PaymentMetrics) IncConfirmation(outcome string) {
	if p == nil || p.confirmations == nil {
		return
	}
	p.confirmations.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncReconciliationFailure increments the paid-but-unrecorded counter.
func (p *PaymentMetrics) IncReconciliationFailure() {
	if p == nil || p.reconciliationFailures == nil {
		return
	}
	p.reconciliationFailures.Inc()
}

// ObserveGatewayDuration records a gateway call duration.
func (p *PaymentMetrics) ObserveGatewayDuration(operation string, duration time.Duration) {
	if p == nil || p.gatewayDuration == nil {
		return
	}
	p.gatewayDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncOrderCreated increments the created-order counter.
func (p *PaymentMetrics) IncOrderCreated() {
	if p == nil || p.ordersCreated == nil {
		return
	}
	p.ordersCreated.Inc()
}

// IncOrderNumberCollision increments the collision counter.
func (p *PaymentMetrics) IncOrderNumberCollision() {
	if p == nil || p.orderNumberCollisions == nil {
		return
	}
	p.orderNumberCollisions.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
