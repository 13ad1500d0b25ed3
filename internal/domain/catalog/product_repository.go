package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForUpdate finds a product and holds an exclusive row lock on it
	// until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// ListSummaries returns every product with its average rating, ordered by name
	ListSummaries(ctx context.Context) ([]ProductSummary, error)

	// GetSummary returns a single product with its average rating
	GetSummary(ctx context.Context, id uuid.UUID) (*ProductSummary, error)

	// AdjustStock atomically adds delta to the product's stock.
	// A negative delta that would take stock below zero fails with an insufficient stock error.
	// A positive delta for a product that no longer exists is a no-op.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}
