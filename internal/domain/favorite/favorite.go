package favorite

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// Favorite marks a product the user wants to keep track of
type Favorite struct {
	shared.BaseEntity
	UserID    uuid.UUID
	ProductID uuid.UUID
}

// NewFavorite creates a new favorite
func NewFavorite(userID, productID uuid.UUID, now time.Time) (*Favorite, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	return &Favorite{
		BaseEntity: shared.NewBaseEntityAt(now),
		UserID:     userID,
		ProductID:  productID,
	}, nil
}

// FavoriteRepository defines the interface for favorite persistence
type FavoriteRepository interface {
	// Add inserts a favorite; an existing (user, product) pair fails with ALREADY_EXISTS
	Add(ctx context.Context, favorite *Favorite) error

	// Remove deletes the pair; returns NOT_FOUND when it does not exist
	Remove(ctx context.Context, userID, productID uuid.UUID) error

	// ListProducts returns the user's favorite products, most recently added first
	ListProducts(ctx context.Context, userID uuid.UUID) ([]catalog.Product, error)
}
