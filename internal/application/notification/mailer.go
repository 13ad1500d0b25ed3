// Package notification sends customer emails in response to domain events.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mailer delivers customer emails
type Mailer interface {
	// SendOrderConfirmation emails the order summary to the customer
	SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error
	// SendVerificationCode emails an email verification code
	SendVerificationCode(ctx context.Context, msg VerificationCode) error
}

// OrderConfirmation is the content of an order confirmation email
type OrderConfirmation struct {
	To              string
	CustomerName    string
	OrderID         uuid.UUID
	PlacedAt        time.Time
	ShippingAddress string
	Lines           []OrderConfirmationLine
	Total           decimal.Decimal
}

// OrderConfirmationLine is one row of the confirmation table
type OrderConfirmationLine struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// VerificationCode is the content of an email verification message
type VerificationCode struct {
	To        string
	FirstName string
	Code      string
	ExpiresAt time.Time
}
