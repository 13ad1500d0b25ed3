package notification

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderConfirmationHandler emails the customer after an order is placed.
// Delivery is best-effort: failures are logged and never returned to the bus.
type OrderConfirmationHandler struct {
	userRepo identity.UserRepository
	mailer   Mailer
	logger   *zap.Logger
}

// NewOrderConfirmationHandler creates a new OrderConfirmationHandler
func NewOrderConfirmationHandler(userRepo identity.UserRepository, mailer Mailer, logger *zap.Logger) *OrderConfirmationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderConfirmationHandler{
		userRepo: userRepo,
		mailer:   mailer,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderConfirmationHandler) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced}
}

// Handle sends the confirmation for an OrderPlaced event
func (h *OrderConfirmationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placed, ok := event.(*order.OrderPlacedEvent)
	if !ok {
		h.logger.Error("unexpected event type", zap.String("event_type", event.EventType()))
		return nil
	}

	log := h.logger.With(
		zap.String("order_id", placed.OrderID.String()),
		zap.String("user_id", placed.UserID.String()),
	)

	if err := h.send(ctx, placed); err != nil {
		log.Warn("order confirmation not sent", zap.Error(err))
		return nil
	}
	log.Info("order confirmation sent")
	return nil
}

func (h *OrderConfirmationHandler) send(ctx context.Context, placed *order.OrderPlacedEvent) error {
	user, err := h.userRepo.FindByID(ctx, placed.UserID)
	if err != nil {
		return fmt.Errorf("load recipient: %w", err)
	}

	lines := make([]OrderConfirmationLine, len(placed.Items))
	for i, item := range placed.Items {
		lines[i] = OrderConfirmationLine{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.Amount,
		}
	}

	return h.mailer.SendOrderConfirmation(ctx, OrderConfirmation{
		To:              user.Email,
		CustomerName:    user.FullName(),
		OrderID:         placed.OrderID,
		PlacedAt:        placed.PlacedAt,
		ShippingAddress: placed.ShippingAddress,
		Lines:           lines,
		Total:           placed.Total,
	})
}
