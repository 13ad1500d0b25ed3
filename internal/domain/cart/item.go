package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// MaxQuantity caps a single cart line
const MaxQuantity = 999

// Item is one product line in a user's cart. (UserID, ProductID) is unique.
type Item struct {
	shared.BaseEntity
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// NewItem creates a new cart line
func NewItem(userID, productID uuid.UUID, quantity int) (*Item, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	return &Item{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		ProductID:  productID,
		Quantity:   quantity,
	}, nil
}

// SetQuantity replaces the line quantity
func (i *Item) SetQuantity(quantity int) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	i.Quantity = quantity
	i.Touch(time.Now().UTC())
	return nil
}

// ValidateQuantity checks a requested cart quantity
func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if quantity > MaxQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot exceed 999")
	}
	return nil
}
