package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("matches sentinel by code", func(t *testing.T) {
		err := NewNotFoundError("Order")
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.False(t, errors.Is(err, ErrAlreadyExists))
		assert.Equal(t, "Order not found", err.Error())
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("checkout: %w", ErrEmptyCart)
		assert.ErrorIs(t, err, ErrEmptyCart)

		var domainErr *DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "EMPTY_CART", domainErr.Code)
	})

	t.Run("non domain target", func(t *testing.T) {
		assert.False(t, ErrNotFound.Is(errors.New("NOT_FOUND")))
	})
}

func TestNewInsufficientStockError(t *testing.T) {
	productID := uuid.New()
	err := NewInsufficientStockError(productID, "Abbey Road", 10, 3)

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Abbey Road")
	assert.Equal(t, productID.String(), err.Details["product_id"])
	assert.Equal(t, 10, err.Details["requested"])
	assert.Equal(t, 3, err.Details["available"])
}

func TestDomainError_WithDetail(t *testing.T) {
	base := NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	withDetail := base.WithDetail("quantity", 0)

	assert.Nil(t, base.Details)
	assert.Equal(t, 0, withDetail.Details["quantity"])
	assert.Equal(t, base.Code, withDetail.Code)
}
