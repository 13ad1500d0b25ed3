package review

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

const (
	AggregateTypeReview = "Review"

	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 2000
)

// Review is a user's rating and comment on a product.
// A user reviews a given product at most once.
type Review struct {
	shared.BaseAggregateRoot
	UserID    uuid.UUID
	ProductID uuid.UUID
	Rating    int
	Comment   string
}

// NewReview creates a validated review and records ReviewPosted
func NewReview(userID, productID uuid.UUID, rating int, comment string, now time.Time) (*Review, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if rating < MinRating || rating > MaxRating {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, shared.NewDomainError("INVALID_COMMENT", "Comment is required")
	}
	if len(comment) > MaxCommentLength {
		return nil, shared.NewDomainError("INVALID_COMMENT", "Comment cannot exceed 2000 characters")
	}

	r := &Review{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: shared.NewBaseEntityAt(now)},
		UserID:            userID,
		ProductID:         productID,
		Rating:            rating,
		Comment:           comment,
	}
	r.AddDomainEvent(NewReviewChangedEvent(EventTypeReviewPosted, r))
	return r, nil
}

// MarkDeleted records ReviewDeleted before the review is removed
func (r *Review) MarkDeleted() {
	r.AddDomainEvent(NewReviewChangedEvent(EventTypeReviewDeleted, r))
}

// ProductReview is a review as shown on a product page
type ProductReview struct {
	ID                uuid.UUID
	Rating            int
	Comment           string
	ReviewerFirstName string
	CreatedAt         time.Time
}
