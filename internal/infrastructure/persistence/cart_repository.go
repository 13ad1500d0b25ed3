package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements cart.ItemRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUser returns the user's cart lines, oldest first
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]cart.Item, error) {
	return r.findByUser(r.db.WithContext(ctx), userID)
}

// FindByUserForUpdate returns the cart lines locked FOR UPDATE
func (r *GormCartRepository) FindByUserForUpdate(ctx context.Context, userID uuid.UUID) ([]cart.Item, error) {
	return r.findByUser(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userID)
}

func (r *GormCartRepository) findByUser(q *gorm.DB, userID uuid.UUID) ([]cart.Item, error) {
	var rows []models.CartItemModel
	if err := q.
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	items := make([]cart.Item, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// FindByUserAndProduct finds a single cart line
func (r *GormCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*cart.Item, error) {
	var model models.CartItemModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&model).Error; err != nil {
		return nil, translateError(err, shared.NewNotFoundError("Cart item"), nil, "find cart item")
	}
	return model.ToDomain(), nil
}

// Upsert inserts the line or overwrites the quantity on the (user_id, product_id) key
func (r *GormCartRepository) Upsert(ctx context.Context, item *cart.Item) error {
	model := models.CartItemModelFromDomain(item)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

// Delete removes one line
func (r *GormCartRepository) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItemModel{})
	if result.Error != nil {
		return fmt.Errorf("delete cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Cart item")
	}
	return nil
}

// DeleteByUser empties the user's cart
func (r *GormCartRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItemModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("clear cart: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Ensure GormCartRepository implements ItemRepository
var _ cart.ItemRepository = (*GormCartRepository)(nil)
