package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
)

// PlaceOrderRequest is the checkout request body
type PlaceOrderRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required,max=500" example:"742 Evergreen Terrace, Springfield"`
}

// OrderResponse is an order with its line items
type OrderResponse struct {
	ID              uuid.UUID          `json:"id"`
	Status          string             `json:"status" example:"PROCESSING"`
	Total           decimal.Decimal    `json:"total" swaggertype:"string" example:"25.00"`
	ShippingAddress string             `json:"shipping_address"`
	ItemCount       int                `json:"item_count"`
	OrderedAt       time.Time          `json:"ordered_at"`
	ActionAt        *time.Time         `json:"action_at,omitempty"`
	DeliveredAt     *time.Time         `json:"delivered_at,omitempty"`
	Items           []LineItemResponse `json:"items"`
}

// LineItemResponse is one order line
type LineItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string" example:"10.00"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"20.00"`
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]LineItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = LineItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount(),
		}
	}
	return OrderResponse{
		ID:              o.ID,
		Status:          o.Status.String(),
		Total:           o.Total,
		ShippingAddress: o.ShippingAddress,
		ItemCount:       o.ItemCount(),
		OrderedAt:       o.CreatedAt,
		ActionAt:        o.ActionAt,
		DeliveredAt:     o.DeliveredAt,
		Items:           items,
	}
}

// ToOrderResponses converts a slice of domain orders
func ToOrderResponses(orders []order.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
