package review

import (
	"context"

	"github.com/google/uuid"
)

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	// Create inserts a review; a second review of the same product by the same user fails with ALREADY_EXISTS
	Create(ctx context.Context, review *Review) error

	// FindByIDForUser finds a review written by the user
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Review, error)

	// Delete removes a review by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByProduct returns the product's reviews with reviewer first names, newest first
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]ProductReview, error)
}
