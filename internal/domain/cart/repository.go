package cart

import (
	"context"

	"github.com/google/uuid"
)

// ItemRepository defines the interface for cart persistence
type ItemRepository interface {
	// FindByUser returns the user's cart lines in the order they were added
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Item, error)

	// FindByUserForUpdate is FindByUser with the rows locked until the
	// transaction ends; a concurrent checkout of the same cart waits here
	FindByUserForUpdate(ctx context.Context, userID uuid.UUID) ([]Item, error)

	// FindByUserAndProduct finds a single cart line
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*Item, error)

	// Upsert inserts the line or replaces the quantity of the existing (user, product) line
	Upsert(ctx context.Context, item *Item) error

	// Delete removes one line; returns NOT_FOUND when the product is not in the cart
	Delete(ctx context.Context, userID, productID uuid.UUID) error

	// DeleteByUser empties the cart and returns the number of removed lines
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
