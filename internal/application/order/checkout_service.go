package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CheckoutService turns a user's cart into a persisted order
type CheckoutService struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	metrics        Metrics
	logger         *zap.Logger
	now            func() time.Time
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(txScope TransactionScope, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		txScope: txScope,
		metrics: noopMetrics{},
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SetEventPublisher sets the publisher that receives OrderPlaced after commit
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the checkout metrics recorder
func (s *CheckoutService) SetMetrics(metrics Metrics) {
	if metrics != nil {
		s.metrics = metrics
	}
}

// PlaceOrder checks out the user's cart in a single transaction:
// lock and verify every product, insert the order with its line items,
// decrement stock, empty the cart. OrderPlaced is published only after commit.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (resp *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "place_order",
		attribute.String("user.id", userID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	start := time.Now()
	now := s.now()

	var placed *order.Order
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		items, err := repos.CartRepo().FindByUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return shared.ErrEmptyCart
		}

		o, err := order.NewOrder(userID, req.ShippingAddress, now)
		if err != nil {
			return err
		}

		reservation, err := ReserveStock(ctx, repos.ProductRepo(), items)
		if err != nil {
			return err
		}
		for _, line := range reservation.Lines {
			if err := o.AddItem(line.Product.ID, line.Product.Name, line.Quantity, line.Product.Price); err != nil {
				return err
			}
		}
		if err := o.Place(); err != nil {
			return err
		}

		if err := repos.OrderRepo().Create(ctx, o); err != nil {
			return err
		}
		for _, line := range reservation.Lines {
			if err := line.Product.DecreaseStock(line.Quantity); err != nil {
				return err
			}
			if err := repos.ProductRepo().AdjustStock(ctx, line.Product.ID, -line.Quantity); err != nil {
				return err
			}
		}
		cleared, err := repos.CartRepo().DeleteByUser(ctx, userID)
		if err != nil {
			return err
		}
		if cleared != int64(len(items)) {
			return shared.ErrCartChanged
		}

		placed = o
		return nil
	})

	units := 0
	if placed != nil {
		units = placed.ItemCount()
	}
	s.metrics.RecordCheckout(ctx, checkoutOutcome(err), units, time.Since(start))
	if err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("order_id", placed.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("total", placed.Total.StringFixed(2)),
		zap.Int("units", units),
	)
	s.metrics.RecordTransition(ctx, placed.Status)

	publishEvents(ctx, s.eventPublisher, s.logger, placed)

	span.SetAttributes(
		attribute.String("order.id", placed.ID.String()),
		attribute.Int("order.units", units),
	)
	out := ToOrderResponse(placed)
	return &out, nil
}
