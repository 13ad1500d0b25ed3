package catalog

import (
	"context"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductCacheInvalidationHandler drops the cached listing whenever stock
// or ratings change
type ProductCacheInvalidationHandler struct {
	cache  ProductCache
	logger *zap.Logger
}

// NewProductCacheInvalidationHandler creates a new handler
func NewProductCacheInvalidationHandler(cache ProductCache, logger *zap.Logger) *ProductCacheInvalidationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductCacheInvalidationHandler{
		cache:  cache,
		logger: logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ProductCacheInvalidationHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderCancelled,
		review.EventTypeReviewPosted,
		review.EventTypeReviewDeleted,
	}
}

// Handle invalidates the product listing
func (h *ProductCacheInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.cache.Invalidate(ctx); err != nil {
		h.logger.Error("failed to invalidate product cache",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.Error(err),
		)
		return err
	}
	h.logger.Debug("product cache invalidated",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID().String()),
	)
	return nil
}

var _ shared.EventHandler = (*ProductCacheInvalidationHandler)(nil)
