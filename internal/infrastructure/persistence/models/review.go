package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
)

// ReviewModel is the persistence model for the Review aggregate root.
type ReviewModel struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product,priority:2;index"`
	Rating    int       `gorm:"not null;check:chk_reviews_rating,rating BETWEEN 1 AND 5"`
	Comment   string    `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (ReviewModel) TableName() string {
	return "reviews"
}

// ToDomain converts the persistence model to a domain Review.
func (m *ReviewModel) ToDomain() *review.Review {
	return &review.Review{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain()},
		UserID:            m.UserID,
		ProductID:         m.ProductID,
		Rating:            m.Rating,
		Comment:           m.Comment,
	}
}

// ReviewModelFromDomain creates a new persistence model from a domain Review.
func ReviewModelFromDomain(r *review.Review) *ReviewModel {
	m := &ReviewModel{
		UserID:    r.UserID,
		ProductID: r.ProductID,
		Rating:    r.Rating,
		Comment:   r.Comment,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

// ProductReviewRow is the scan target for reviews joined with their author
type ProductReviewRow struct {
	ID                uuid.UUID
	Rating            int
	Comment           string
	ReviewerFirstName string
	CreatedAt         time.Time
}

// ToDomain converts the row to a domain ProductReview
func (r *ProductReviewRow) ToDomain() review.ProductReview {
	return review.ProductReview{
		ID:                r.ID,
		Rating:            r.Rating,
		Comment:           r.Comment,
		ReviewerFirstName: r.ReviewerFirstName,
		CreatedAt:         r.CreatedAt,
	}
}
