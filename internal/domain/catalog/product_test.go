package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, price string, stock int) *Product {
	t.Helper()
	p, err := NewProduct("Kind of Blue", "Miles Davis, 1959", decimal.RequireFromString(price), stock, "")
	require.NoError(t, err)
	return p
}

func TestNewProduct(t *testing.T) {
	tests := []struct {
		name     string
		prodName string
		price    string
		stock    int
		wantCode string
	}{
		{name: "valid", prodName: "Blue Train", price: "24.99", stock: 5},
		{name: "empty name", prodName: "   ", price: "1", stock: 1, wantCode: "INVALID_NAME"},
		{name: "negative price", prodName: "Giant Steps", price: "-1", stock: 1, wantCode: "INVALID_PRICE"},
		{name: "negative stock", prodName: "Giant Steps", price: "1", stock: -1, wantCode: "INVALID_STOCK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProduct(tt.prodName, "", decimal.RequireFromString(tt.price), tt.stock, "")
			if tt.wantCode != "" {
				require.Error(t, err)
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tt.wantCode, domainErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.prodName, p.Name)
			assert.Equal(t, tt.stock, p.Stock)
		})
	}
}

func TestProduct_DecreaseStock(t *testing.T) {
	t.Run("decrements when enough stock", func(t *testing.T) {
		p := newTestProduct(t, "10.00", 5)
		require.NoError(t, p.DecreaseStock(5))
		assert.Equal(t, 0, p.Stock)
	})

	t.Run("rejects shortfall without mutation", func(t *testing.T) {
		p := newTestProduct(t, "10.00", 3)
		err := p.DecreaseStock(10)

		require.ErrorIs(t, err, shared.ErrInsufficientStock)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, 10, domainErr.Details["requested"])
		assert.Equal(t, 3, domainErr.Details["available"])
		assert.Equal(t, 3, p.Stock)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		p := newTestProduct(t, "10.00", 3)
		assert.Error(t, p.DecreaseStock(0))
	})
}

func TestProduct_LineTotal(t *testing.T) {
	p := newTestProduct(t, "19.99", 10)
	assert.True(t, decimal.RequireFromString("59.97").Equal(p.LineTotal(3)))
}
