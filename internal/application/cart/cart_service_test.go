package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	apporder "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ListSummaries(ctx context.Context) ([]catalog.ProductSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.ProductSummary), args.Error(1)
}

func (m *MockProductRepository) GetSummary(ctx context.Context, id uuid.UUID) (*catalog.ProductSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductSummary), args.Error(1)
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockCartRepository is a mock implementation of ItemRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]cart.Item, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]cart.Item), args.Error(1)
}

func (m *MockCartRepository) FindByUserForUpdate(ctx context.Context, userID uuid.UUID) ([]cart.Item, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Item), args.Error(1)
}

func (m *MockCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*cart.Item, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Item), args.Error(1)
}

func (m *MockCartRepository) Upsert(ctx context.Context, item *cart.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func newTestProduct(t *testing.T, name, price string, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, "", decimal.RequireFromString(price), stock, "https://img.example/"+name)
	require.NoError(t, err)
	return p
}

func newCartService(products *MockProductRepository, carts *MockCartRepository) *CartService {
	scope := apporder.NewNoOpTransactionScope(products, carts, nil)
	return NewCartService(scope, carts, products, nil)
}

func TestCartService_GetCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	a := newTestProduct(t, "A", "10.00", 5)
	b := newTestProduct(t, "B", "5.00", 5)

	t.Run("lines with subtotals and total", func(t *testing.T) {
		products := new(MockProductRepository)
		carts := new(MockCartRepository)
		itemA, _ := cart.NewItem(userID, a.ID, 2)
		itemB, _ := cart.NewItem(userID, b.ID, 1)
		carts.On("FindByUser", ctx, userID).Return([]cart.Item{*itemA, *itemB}, nil)
		products.On("FindByIDs", ctx, []uuid.UUID{a.ID, b.ID}).Return([]catalog.Product{*b, *a}, nil)

		resp, err := newCartService(products, carts).GetCart(ctx, userID)
		require.NoError(t, err)
		require.Len(t, resp.Items, 2)
		assert.Equal(t, "A", resp.Items[0].Name, "cart order is kept")
		assert.True(t, decimal.RequireFromString("20.00").Equal(resp.Items[0].Subtotal))
		assert.True(t, decimal.RequireFromString("25.00").Equal(resp.Total))
		assert.Equal(t, 3, resp.ItemCount)
	})

	t.Run("empty cart", func(t *testing.T) {
		carts := new(MockCartRepository)
		carts.On("FindByUser", ctx, userID).Return([]cart.Item{}, nil)

		resp, err := newCartService(new(MockProductRepository), carts).GetCart(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
		assert.True(t, resp.Total.IsZero())
	})
}

func TestCartService_SetQuantity(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("upserts within stock", func(t *testing.T) {
		p := newTestProduct(t, "A", "10.00", 5)
		products := new(MockProductRepository)
		carts := new(MockCartRepository)
		products.On("FindByID", ctx, p.ID).Return(p, nil)
		carts.On("Upsert", ctx, mock.MatchedBy(func(item *cart.Item) bool {
			return item.UserID == userID && item.ProductID == p.ID && item.Quantity == 5
		})).Return(nil)

		resp, err := newCartService(products, carts).SetQuantity(ctx, userID, p.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, resp.Quantity)
		assert.True(t, decimal.RequireFromString("50.00").Equal(resp.Subtotal))
		carts.AssertExpectations(t)
	})

	t.Run("rejects more than stock", func(t *testing.T) {
		p := newTestProduct(t, "A", "10.00", 3)
		products := new(MockProductRepository)
		carts := new(MockCartRepository)
		products.On("FindByID", ctx, p.ID).Return(p, nil)

		_, err := newCartService(products, carts).SetQuantity(ctx, userID, p.ID, 4)
		require.ErrorIs(t, err, shared.ErrInsufficientStock)
		carts.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("rejects zero", func(t *testing.T) {
		_, err := newCartService(new(MockProductRepository), new(MockCartRepository)).
			SetQuantity(ctx, userID, uuid.New(), 0)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		id := uuid.New()
		products := new(MockProductRepository)
		products.On("FindByID", ctx, id).Return(nil, shared.NewNotFoundError("product"))

		_, err := newCartService(products, new(MockCartRepository)).SetQuantity(ctx, userID, id, 1)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCartService_AddItem_DefaultsToOne(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	p := newTestProduct(t, "A", "10.00", 5)
	products := new(MockProductRepository)
	carts := new(MockCartRepository)
	products.On("FindByID", ctx, p.ID).Return(p, nil)
	carts.On("Upsert", ctx, mock.MatchedBy(func(item *cart.Item) bool { return item.Quantity == 1 })).Return(nil)

	resp, err := newCartService(products, carts).AddItem(ctx, userID, p.ID, AddItemRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Quantity)
}

func TestCartService_RemoveItem(t *testing.T) {
	ctx := context.Background()
	userID, productID := uuid.New(), uuid.New()
	carts := new(MockCartRepository)
	carts.On("Delete", ctx, userID, productID).Return(shared.NewNotFoundError("cart item"))

	err := newCartService(new(MockProductRepository), carts).RemoveItem(ctx, userID, productID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
