package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var errReviewExists = shared.NewConflictError("You have already reviewed this product")

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Create inserts a review
func (r *GormReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	err := r.db.WithContext(ctx).Create(models.ReviewModelFromDomain(rv)).Error
	return translateError(err, nil, errReviewExists, "create review")
}

// FindByIDForUser finds a review written by the user
func (r *GormReviewRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*review.Review, error) {
	var model models.ReviewModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&model).Error; err != nil {
		return nil, translateError(err, shared.NewNotFoundError("Review"), nil, "find review")
	}
	return model.ToDomain(), nil
}

// Delete removes a review by ID
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ReviewModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Review")
	}
	return nil
}

// ListByProduct returns the product's reviews with reviewer first names, newest first
func (r *GormReviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]review.ProductReview, error) {
	var rows []models.ProductReviewRow
	if err := r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.id, reviews.rating, reviews.comment, reviews.created_at, users.first_name AS reviewer_first_name").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.product_id = ?", productID).
		Order("reviews.created_at DESC, reviews.id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	reviews := make([]review.ProductReview, len(rows))
	for i := range rows {
		reviews[i] = rows[i].ToDomain()
	}
	return reviews, nil
}

// Ensure GormReviewRepository implements ReviewRepository
var _ review.ReviewRepository = (*GormReviewRepository)(nil)
