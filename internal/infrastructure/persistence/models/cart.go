package models

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
)

// CartItemModel is the persistence model for a cart line
type CartItemModel struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_user_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_user_product,priority:2;index"`
	Quantity  int       `gorm:"not null;check:chk_cart_items_quantity,quantity > 0"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain cart Item.
func (m *CartItemModel) ToDomain() *cart.Item {
	return &cart.Item{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
	}
}

// CartItemModelFromDomain creates a new persistence model from a domain cart Item.
func CartItemModelFromDomain(i *cart.Item) *CartItemModel {
	m := &CartItemModel{
		UserID:    i.UserID,
		ProductID: i.ProductID,
		Quantity:  i.Quantity,
	}
	m.FromDomainBaseEntity(i.BaseEntity)
	return m
}
