package event

import (
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/review"
)

// RegisterAllEvents registers the order and review events that are forwarded
// to the message broker. User events carry verification codes and stay in process.
func RegisterAllEvents(s *EventSerializer) {
	Register[order.OrderPlacedEvent](s, order.EventTypeOrderPlaced)
	Register[order.OrderCancelledEvent](s, order.EventTypeOrderCancelled)
	for _, t := range []string{
		order.EventTypeOrderDelivered,
		order.EventTypeOrderReturnRequested,
		order.EventTypeOrderReturned,
	} {
		Register[order.OrderStatusChangedEvent](s, t)
	}

	Register[review.ReviewChangedEvent](s, review.EventTypeReviewPosted)
	Register[review.ReviewChangedEvent](s, review.EventTypeReviewDeleted)
}
