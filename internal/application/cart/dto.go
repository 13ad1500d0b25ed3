package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SetQuantityRequest sets the quantity of one cart line
type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=999"`
}

// AddItemRequest adds a product to the cart; quantity defaults to 1
type AddItemRequest struct {
	Quantity *int `json:"quantity" binding:"omitempty,min=1,max=999"`
}

// CartItemResponse is one cart line with its product details
type CartItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price" swaggertype:"string" example:"10.00"`
	ImageURL  string          `json:"image_url"`
	Stock     int             `json:"stock"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal" swaggertype:"string" example:"20.00"`
}

// CartResponse is the user's cart in the order lines were added
type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Total     decimal.Decimal    `json:"total" swaggertype:"string" example:"25.00"`
}
