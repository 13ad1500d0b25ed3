package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// AggregateTypeOrder is the aggregate type name carried by order events
const AggregateTypeOrder = "Order"

// pricePrecision matches catalog prices
const pricePrecision = 2

// LineItem is an immutable record of one product's quantity and price within an order.
// UnitPrice is a snapshot taken at checkout.
type LineItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	CreatedAt   time.Time
}

// Amount returns quantity times unit price
func (li LineItem) Amount() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity))).Round(pricePrecision)
}

// Order is the aggregate root for a placed purchase
type Order struct {
	shared.BaseAggregateRoot
	UserID          uuid.UUID
	Status          Status
	Total           decimal.Decimal
	ShippingAddress string
	ActionAt        *time.Time
	DeliveredAt     *time.Time
	Items           []LineItem
}

// NewOrder creates an empty order in PROCESSING state
func NewOrder(userID uuid.UUID, shippingAddress string, now time.Time) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	shippingAddress = strings.TrimSpace(shippingAddress)
	if shippingAddress == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address is required")
	}
	if len(shippingAddress) > 500 {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address cannot exceed 500 characters")
	}

	return &Order{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: shared.NewBaseEntityAt(now)},
		UserID:            userID,
		Status:            StatusProcessing,
		Total:             decimal.Zero,
		ShippingAddress:   shippingAddress,
	}, nil
}

// AddItem appends a line item and recalculates the total
func (o *Order) AddItem(productID uuid.UUID, productName string, quantity int, unitPrice decimal.Decimal) error {
	if o.Status != StatusProcessing {
		return shared.NewDomainError("INVALID_STATE", "Items can only be added to a processing order")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	o.Items = append(o.Items, LineItem{
		ID:          uuid.New(),
		OrderID:     o.ID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Round(pricePrecision),
		CreatedAt:   o.CreatedAt,
	})
	o.recalculateTotal()
	return nil
}

// Place finalizes a freshly built order and records OrderPlaced
func (o *Order) Place() error {
	if len(o.Items) == 0 {
		return shared.ErrEmptyCart
	}
	o.recalculateTotal()
	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return nil
}

// Cancel moves a processing order to CANCELLED.
// Restocking the line items is the caller's job, in the same transaction.
func (o *Order) Cancel(now time.Time) error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError(shared.ErrNotCancellable.Code,
			fmt.Sprintf("Order in %s status can no longer be cancelled", o.Status))
	}
	o.Status = StatusCancelled
	o.ActionAt = &now
	o.Touch(now)

	o.AddDomainEvent(NewOrderCancelledEvent(o))
	return nil
}

// RequestReturn moves a delivered order to RETURN_PENDING
func (o *Order) RequestReturn(now time.Time) error {
	if !o.Status.CanTransitionTo(StatusReturnPending) {
		return shared.NewDomainError(shared.ErrReturnNotAllowed.Code,
			fmt.Sprintf("Return cannot be requested for an order in %s status", o.Status))
	}
	o.Status = StatusReturnPending
	o.ActionAt = &now
	o.Touch(now)

	o.AddDomainEvent(NewOrderReturnRequestedEvent(o))
	return nil
}

// Advance applies the time-driven transitions that are due at now.
// It returns true when the status changed.
func (o *Order) Advance(policy Policy, now time.Time) bool {
	switch {
	case policy.DeliveryDue(o, now):
		deliveredAt := o.CreatedAt.Add(policy.DeliveryWindow)
		o.Status = StatusDelivered
		o.DeliveredAt = &deliveredAt
		o.Touch(now)
		o.AddDomainEvent(NewOrderDeliveredEvent(o))
		return true
	case policy.ReturnDue(o, now):
		o.Status = StatusReturned
		o.Touch(now)
		o.AddDomainEvent(NewOrderReturnedEvent(o))
		return true
	}
	return false
}

// ItemCount returns the total number of units in the order
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// recalculateTotal recalculates the order total
func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount())
	}
	o.Total = total.Round(pricePrecision)
}
