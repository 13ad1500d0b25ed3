package order

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderService handles the order lifecycle after checkout
type OrderService struct {
	txScope        TransactionScope
	orderRepo      order.OrderRepository
	policy         order.Policy
	eventPublisher shared.EventPublisher
	metrics        Metrics
	logger         *zap.Logger
	now            func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(txScope TransactionScope, orderRepo order.OrderRepository, policy order.Policy, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		txScope:   txScope,
		orderRepo: orderRepo,
		policy:    policy,
		metrics:   noopMetrics{},
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetEventPublisher sets the publisher for lifecycle events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the transition metrics recorder
func (s *OrderService) SetMetrics(metrics Metrics) {
	if metrics != nil {
		s.metrics = metrics
	}
}

// ListMine advances the user's due orders and returns all of them, newest first
func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error) {
	if _, err := s.advance(ctx, s.policy.DueQuery(s.now(), &userID)); err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// Get advances the user's due orders and returns one of them.
// Another user's order is NOT_FOUND.
func (s *OrderService) Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	if _, err := s.advance(ctx, s.policy.DueQuery(s.now(), &userID)); err != nil {
		return nil, err
	}

	o, err := s.orderRepo.FindByIDForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// Cancel cancels a processing order and puts every line item back in stock,
// all in one transaction with the order row locked. Products are restocked in
// the same ID order checkout locks them in.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, userID, orderID, func(repos TransactionalRepositories, o *order.Order, now time.Time) error {
		if err := o.Cancel(now); err != nil {
			return err
		}
		items := slices.Clone(o.Items)
		slices.SortFunc(items, func(a, b order.LineItem) int { return compareIDs(a.ProductID, b.ProductID) })
		for _, item := range items {
			if err := repos.ProductRepo().AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

// RequestReturn moves a delivered order to RETURN_PENDING
func (s *OrderService) RequestReturn(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, userID, orderID, func(_ TransactionalRepositories, o *order.Order, now time.Time) error {
		return o.RequestReturn(now)
	})
}

// AdvanceDue applies due automatic transitions across all users, at most
// batchSize orders per call. Rows locked by a concurrent request are skipped.
func (s *OrderService) AdvanceDue(ctx context.Context, batchSize int) (int, error) {
	q := s.policy.DueQuery(s.now(), nil)
	q.Limit = batchSize
	q.SkipLocked = true
	return s.advance(ctx, q)
}

// transition locks the order, brings it up to date with the automatic
// transitions, applies the user action and saves it.
func (s *OrderService) transition(
	ctx context.Context,
	userID, orderID uuid.UUID,
	apply func(repos TransactionalRepositories, o *order.Order, now time.Time) error,
) (*OrderResponse, error) {
	now := s.now()

	var updated *order.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByIDForUserForUpdate(ctx, userID, orderID)
		if err != nil {
			return err
		}
		o.Advance(s.policy, now)
		if err := apply(repos, o, now); err != nil {
			return err
		}
		if err := repos.OrderRepo().UpdateState(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status changed",
		zap.String("order_id", updated.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("status", updated.Status.String()),
	)
	s.metrics.RecordTransition(ctx, updated.Status)
	publishEvents(ctx, s.eventPublisher, s.logger, updated)

	resp := ToOrderResponse(updated)
	return &resp, nil
}

func (s *OrderService) advance(ctx context.Context, q order.DueQuery) (int, error) {
	now := s.now()

	var advanced []*order.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		advanced = advanced[:0]
		due, err := repos.OrderRepo().FindDue(ctx, q)
		if err != nil {
			return err
		}
		for i := range due {
			o := &due[i]
			if !o.Advance(s.policy, now) {
				continue
			}
			if err := repos.OrderRepo().UpdateState(ctx, o); err != nil {
				return err
			}
			advanced = append(advanced, o)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	aggregates := make([]shared.AggregateRoot, len(advanced))
	for i, o := range advanced {
		s.metrics.RecordTransition(ctx, o.Status)
		aggregates[i] = o
	}
	publishEvents(ctx, s.eventPublisher, s.logger, aggregates...)
	return len(advanced), nil
}
