package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order and its line items
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// FindByIDForUser finds an order owned by the user
func (r *GormOrderRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*order.Order, error) {
	return r.findOwned(ctx, r.db.WithContext(ctx), userID, id)
}

// FindByIDForUserForUpdate finds an owned order and locks its row until the transaction ends
func (r *GormOrderRepository) FindByIDForUserForUpdate(ctx context.Context, userID, id uuid.UUID) (*order.Order, error) {
	return r.findOwned(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userID, id)
}

func (r *GormOrderRepository) findOwned(ctx context.Context, q *gorm.DB, userID, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	// Someone else's order is reported exactly like a missing one.
	if err := q.Where("id = ? AND user_id = ?", id, userID).First(&model).Error; err != nil {
		return nil, translateError(err, shared.NewNotFoundError("Order"), nil, "find order")
	}
	rows := []models.OrderModel{model}
	if err := r.loadItems(ctx, rows); err != nil {
		return nil, err
	}
	return rows[0].ToDomain(), nil
}

// FindByUser returns the user's orders, newest first
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]order.Order, error) {
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	if err := r.loadItems(ctx, rows); err != nil {
		return nil, err
	}
	return toDomainOrders(rows), nil
}

// FindDue locks and returns the orders whose automatic transition is due.
// Rows are taken oldest first so a limited batch always makes progress.
func (r *GormOrderRepository) FindDue(ctx context.Context, q order.DueQuery) ([]order.Order, error) {
	locking := clause.Locking{Strength: "UPDATE"}
	if q.SkipLocked {
		locking.Options = "SKIP LOCKED"
	}

	query := r.db.WithContext(ctx).
		Clauses(locking).
		Where("(status = ? AND created_at < ?) OR (status = ? AND action_at < ?)",
			order.StatusProcessing, q.CreatedBefore,
			order.StatusReturnPending, q.ActionBefore)
	if q.UserID != nil {
		query = query.Where("user_id = ?", *q.UserID)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var rows []models.OrderModel
	if err := query.Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find due orders: %w", err)
	}
	if err := r.loadItems(ctx, rows); err != nil {
		return nil, err
	}
	return toDomainOrders(rows), nil
}

// UpdateState persists status and lifecycle timestamps; line items never change
func (r *GormOrderRepository) UpdateState(ctx context.Context, o *order.Order) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]any{
			"status":       o.Status,
			"action_at":    o.ActionAt,
			"delivered_at": o.DeliveredAt,
			"updated_at":   o.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("update order state: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Order")
	}
	return nil
}

// loadItems fills in line items with one query, each order's lines in the
// order they were added. Items are loaded separately rather than preloaded so
// the row lock of the parent query is not repeated.
func (r *GormOrderRepository) loadItems(ctx context.Context, rows []models.OrderModel) error {
	if len(rows) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(rows))
	index := make(map[uuid.UUID]int, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
		index[rows[i].ID] = i
	}

	var items []models.OrderItemModel
	if err := r.db.WithContext(ctx).
		Where("order_id IN ?", ids).
		Order("order_id, position").
		Find(&items).Error; err != nil {
		return fmt.Errorf("find order items: %w", err)
	}
	for _, item := range items {
		i := index[item.OrderID]
		rows[i].Items = append(rows[i].Items, item)
	}
	return nil
}

func toDomainOrders(rows []models.OrderModel) []order.Order {
	orders := make([]order.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders
}

// Ensure GormOrderRepository implements OrderRepository
var _ order.OrderRepository = (*GormOrderRepository)(nil)
