package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// productSummarySelect averages ratings at one decimal place; products without reviews rate 0
const productSummarySelect = "products.*, ROUND(COALESCE(AVG(reviews.rating), 0), 1) AS average_rating, COUNT(reviews.id) AS review_count"

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, shared.NewNotFoundError("Product"), nil, "find product")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a product with SELECT ... FOR UPDATE.
// Must run inside a transaction; the lock is held until it ends.
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, shared.NewNotFoundError("Product"), nil, "lock product")
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// ListSummaries returns every product with its rating aggregate, ordered by name then id
func (r *GormProductRepository) ListSummaries(ctx context.Context) ([]catalog.ProductSummary, error) {
	var rows []models.ProductSummaryRow
	if err := r.summaryQuery(ctx).
		Order("products.name, products.id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	summaries := make([]catalog.ProductSummary, len(rows))
	for i := range rows {
		summaries[i] = rows[i].ToDomain()
	}
	return summaries, nil
}

// GetSummary returns a single product with its rating aggregate
func (r *GormProductRepository) GetSummary(ctx context.Context, id uuid.UUID) (*catalog.ProductSummary, error) {
	var rows []models.ProductSummaryRow
	if err := r.summaryQuery(ctx).
		Where("products.id = ?", id).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(rows) == 0 {
		return nil, shared.NewNotFoundError("Product")
	}
	summary := rows[0].ToDomain()
	return &summary, nil
}

func (r *GormProductRepository) summaryQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("products").
		Select(productSummarySelect).
		Joins("LEFT JOIN reviews ON reviews.product_id = products.id").
		Group("products.id")
}

// AdjustStock adds delta to stock in a single guarded UPDATE.
// The guard keeps stock non-negative even without a prior row lock.
// Restocking a product that no longer exists is a no-op.
func (r *GormProductRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	if delta == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("adjust stock: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}
	// A restock cannot trip the guard, so the product was deleted. Line items
	// outlive their products and there is no stock left to return it to.
	if delta > 0 {
		return nil
	}

	// Nothing updated: either the product is gone or the guard rejected the change.
	product, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return shared.NewInsufficientStockError(product.ID, product.Name, -delta, product.Stock)
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
