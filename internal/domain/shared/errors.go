package shared

import (
	"fmt"

	"github.com/google/uuid"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so a specific error such as
// "order not found" still matches the ErrNotFound sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail returns a copy of the error with an additional detail entry
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{Code: e.Code, Message: e.Message, Details: details}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists     = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized      = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden         = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState      = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrEmptyCart         = NewDomainError("EMPTY_CART", "Cart is empty")
	ErrCartChanged       = NewDomainError("CART_CHANGED", "Cart changed during checkout, try again")
	ErrNotCancellable    = NewDomainError("NOT_CANCELLABLE", "Order can no longer be cancelled")
	ErrReturnNotAllowed  = NewDomainError("RETURN_NOT_ALLOWED", "Return cannot be requested for this order")
)

// NewNotFoundError creates a NOT_FOUND error naming the missing resource
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(ErrNotFound.Code, resource+" not found")
}

// NewConflictError creates an ALREADY_EXISTS error with a user-facing message
func NewConflictError(message string) *DomainError {
	return NewDomainError(ErrAlreadyExists.Code, message)
}

// NewInsufficientStockError reports a stock shortfall for a single product.
// Details carry the product, the requested quantity and what is left.
func NewInsufficientStockError(productID uuid.UUID, productName string, requested, available int) *DomainError {
	return &DomainError{
		Code: ErrInsufficientStock.Code,
		Message: fmt.Sprintf("Insufficient stock for %s: requested %d, only %d left",
			productName, requested, available),
		Details: map[string]any{
			"product_id":   productID.String(),
			"product_name": productName,
			"requested":    requested,
			"available":    available,
		},
	}
}
