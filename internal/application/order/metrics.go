package order

import (
	"context"
	"errors"
	"time"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// Checkout outcomes reported to Metrics
const (
	OutcomeSuccess           = "success"
	OutcomeEmptyCart         = "empty_cart"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeRejected          = "rejected"
	OutcomeError             = "error"
)

// Metrics receives checkout and lifecycle measurements
type Metrics interface {
	// RecordCheckout records one checkout attempt
	RecordCheckout(ctx context.Context, outcome string, units int, elapsed time.Duration)
	// RecordTransition records an order entering status
	RecordTransition(ctx context.Context, status order.Status)
}

type noopMetrics struct{}

func (noopMetrics) RecordCheckout(context.Context, string, int, time.Duration) {}
func (noopMetrics) RecordTransition(context.Context, order.Status)             {}

func checkoutOutcome(err error) string {
	var domainErr *shared.DomainError
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, shared.ErrEmptyCart):
		return OutcomeEmptyCart
	case errors.Is(err, shared.ErrInsufficientStock):
		return OutcomeInsufficientStock
	case errors.As(err, &domainErr):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}
