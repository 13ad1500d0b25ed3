package models

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/favorite"
)

// FavoriteModel is the persistence model for a favorite product.
type FavoriteModel struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_product,priority:2;index"`
}

// TableName returns the table name for GORM
func (FavoriteModel) TableName() string {
	return "favorites"
}

// FavoriteModelFromDomain creates a new persistence model from a domain Favorite.
func FavoriteModelFromDomain(f *favorite.Favorite) *FavoriteModel {
	m := &FavoriteModel{UserID: f.UserID, ProductID: f.ProductID}
	m.FromDomainBaseEntity(f.BaseEntity)
	return m
}
