package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	BaseModel
	UserID          uuid.UUID        `gorm:"type:uuid;not null;index:idx_orders_user_created,priority:1"`
	Status          order.Status     `gorm:"type:varchar(20);not null;index"`
	Total           decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	ShippingAddress string           `gorm:"type:varchar(500);not null"`
	ActionAt        *time.Time       `gorm:"column:action_at"`
	DeliveredAt     *time.Time       `gorm:"column:delivered_at"`
	Items           []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
// Items are carried over only when they were loaded.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain()},
		UserID:            m.UserID,
		Status:            m.Status,
		Total:             m.Total,
		ShippingAddress:   m.ShippingAddress,
		ActionAt:          m.ActionAt,
		DeliveredAt:       m.DeliveredAt,
		Items:             make([]order.LineItem, len(m.Items)),
	}
	for i := range m.Items {
		o.Items[i] = m.Items[i].ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order, including its line items.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.UserID = o.UserID
	m.Status = o.Status
	m.Total = o.Total
	m.ShippingAddress = o.ShippingAddress
	m.ActionAt = o.ActionAt
	m.DeliveredAt = o.DeliveredAt
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i].FromDomain(o.Items[i], o.ID)
		m.Items[i].Position = i
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for an order line item.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null;check:chk_order_items_quantity,quantity > 0"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Position is the line's index in the order; lines of one order share CreatedAt
	Position  int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain LineItem.
func (m *OrderItemModel) ToDomain() order.LineItem {
	return order.LineItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		CreatedAt:   m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain LineItem.
func (m *OrderItemModel) FromDomain(li order.LineItem, orderID uuid.UUID) {
	m.ID = li.ID
	m.OrderID = orderID
	m.ProductID = li.ProductID
	m.ProductName = li.ProductName
	m.Quantity = li.Quantity
	m.UnitPrice = li.UnitPrice
	m.CreatedAt = li.CreatedAt
}
