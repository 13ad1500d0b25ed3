package review

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

const (
	EventTypeReviewPosted  = "ReviewPosted"
	EventTypeReviewDeleted = "ReviewDeleted"
)

// ReviewChangedEvent is published when a product's set of reviews changes
type ReviewChangedEvent struct {
	shared.BaseDomainEvent
	ReviewID  uuid.UUID `json:"review_id"`
	ProductID uuid.UUID `json:"product_id"`
	Rating    int       `json:"rating"`
}

// NewReviewChangedEvent creates a new ReviewChangedEvent of the given type
func NewReviewChangedEvent(eventType string, r *Review) *ReviewChangedEvent {
	return &ReviewChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeReview, r.ID),
		ReviewID:        r.ID,
		ProductID:       r.ProductID,
		Rating:          r.Rating,
	}
}
