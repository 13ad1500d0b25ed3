package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeOrderPlaced          = "OrderPlaced"
	EventTypeOrderCancelled       = "OrderCancelled"
	EventTypeOrderDelivered       = "OrderDelivered"
	EventTypeOrderReturnRequested = "OrderReturnRequested"
	EventTypeOrderReturned        = "OrderReturned"
)

// LineItemInfo represents line item information for events
type LineItemInfo struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

func lineItemInfos(items []LineItem) []LineItemInfo {
	infos := make([]LineItemInfo, len(items))
	for i, item := range items {
		infos[i] = LineItemInfo{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount(),
		}
	}
	return infos
}

// OrderPlacedEvent is raised when checkout commits a new order
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID         uuid.UUID       `json:"order_id"`
	UserID          uuid.UUID       `json:"user_id"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress string          `json:"shipping_address"`
	PlacedAt        time.Time       `json:"placed_at"`
	Items           []LineItemInfo  `json:"items"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		UserID:          o.UserID,
		Total:           o.Total,
		ShippingAddress: o.ShippingAddress,
		PlacedAt:        o.CreatedAt,
		Items:           lineItemInfos(o.Items),
	}
}

// OrderCancelledEvent is raised when a user cancels a processing order.
// Items lists the quantities returned to stock.
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID      `json:"order_id"`
	UserID  uuid.UUID      `json:"user_id"`
	Items   []LineItemInfo `json:"items"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		UserID:          o.UserID,
		Items:           lineItemInfos(o.Items),
	}
}

// OrderStatusChangedEvent is shared by the remaining lifecycle events
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
	Status  Status    `json:"status"`
}

func newStatusChangedEvent(eventType string, o *Order) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		UserID:          o.UserID,
		Status:          o.Status,
	}
}

// NewOrderDeliveredEvent creates the event for an automatic delivery
func NewOrderDeliveredEvent(o *Order) *OrderStatusChangedEvent {
	return newStatusChangedEvent(EventTypeOrderDelivered, o)
}

// NewOrderReturnRequestedEvent creates the event for a return request
func NewOrderReturnRequestedEvent(o *Order) *OrderStatusChangedEvent {
	return newStatusChangedEvent(EventTypeOrderReturnRequested, o)
}

// NewOrderReturnedEvent creates the event for a completed return
func NewOrderReturnedEvent(o *Order) *OrderStatusChangedEvent {
	return newStatusChangedEvent(EventTypeOrderReturned, o)
}
