package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/favorite"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var errFavoriteExists = shared.NewConflictError("Product is already in favorites")

// GormFavoriteRepository implements FavoriteRepository using GORM
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a new GormFavoriteRepository
func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// Add inserts a favorite
func (r *GormFavoriteRepository) Add(ctx context.Context, f *favorite.Favorite) error {
	err := r.db.WithContext(ctx).Create(models.FavoriteModelFromDomain(f)).Error
	return translateError(err, nil, errFavoriteExists, "add favorite")
}

// Remove deletes the (user, product) pair
func (r *GormFavoriteRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.FavoriteModel{})
	if result.Error != nil {
		return fmt.Errorf("remove favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Favorite")
	}
	return nil
}

// ListProducts returns the user's favorite products, most recently added first
func (r *GormFavoriteRepository) ListProducts(ctx context.Context, userID uuid.UUID) ([]catalog.Product, error) {
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).
		Table("products").
		Select("products.*").
		Joins("JOIN favorites ON favorites.product_id = products.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC, products.id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// Ensure GormFavoriteRepository implements FavoriteRepository
var _ favorite.FavoriteRepository = (*GormFavoriteRepository)(nil)
