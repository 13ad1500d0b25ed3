package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront/backend/internal/domain/order"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names
const (
	MetricCheckoutTotal    = "checkout_attempts_total"
	MetricCheckoutUnits    = "checkout_units_total"
	MetricCheckoutDuration = "checkout_duration_seconds"
	MetricOrderTransitions = "order_transitions_total"

	attrOutcome = "outcome"
	attrStatus  = "status"
)

// CheckoutMetrics records checkout attempts and order status changes
type CheckoutMetrics struct {
	attempts    metric.Int64Counter
	units       metric.Int64Counter
	duration    metric.Float64Histogram
	transitions metric.Int64Counter
}

// NewCheckoutMetrics registers the checkout instruments on meter
func NewCheckoutMetrics(meter metric.Meter) (*CheckoutMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	attempts, err := meter.Int64Counter(MetricCheckoutTotal,
		metric.WithDescription("Checkout attempts by outcome"),
		metric.WithUnit("{attempt}"))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricCheckoutTotal, err)
	}
	units, err := meter.Int64Counter(MetricCheckoutUnits,
		metric.WithDescription("Units sold through successful checkouts"),
		metric.WithUnit("{unit}"))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricCheckoutUnits, err)
	}
	duration, err := meter.Float64Histogram(MetricCheckoutDuration,
		metric.WithDescription("Checkout transaction latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricCheckoutDuration, err)
	}
	transitions, err := meter.Int64Counter(MetricOrderTransitions,
		metric.WithDescription("Orders entering each status"),
		metric.WithUnit("{order}"))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricOrderTransitions, err)
	}

	return &CheckoutMetrics{
		attempts:    attempts,
		units:       units,
		duration:    duration,
		transitions: transitions,
	}, nil
}

// RecordCheckout counts one attempt; units are only reported by successful checkouts
func (m *CheckoutMetrics) RecordCheckout(ctx context.Context, outcome string, units int, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String(attrOutcome, outcome))
	m.attempts.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	if units > 0 {
		m.units.Add(ctx, int64(units))
	}
}

// RecordTransition counts an order entering status
func (m *CheckoutMetrics) RecordTransition(ctx context.Context, status order.Status) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, string(status))))
}
