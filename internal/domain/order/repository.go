package order

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Create inserts the order together with its line items
	Create(ctx context.Context, order *Order) error

	// FindByIDForUser finds an order owned by the user, with line items
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Order, error)

	// FindByIDForUserForUpdate finds an owned order and locks its row
	FindByIDForUserForUpdate(ctx context.Context, userID, id uuid.UUID) (*Order, error)

	// FindByUser returns the user's orders with line items, newest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)

	// FindDue returns locked orders whose automatic transition is due
	FindDue(ctx context.Context, query DueQuery) ([]Order, error)

	// UpdateState persists status and lifecycle timestamps
	UpdateState(ctx context.Context, order *Order) error
}
