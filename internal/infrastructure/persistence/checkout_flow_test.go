package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	apporder "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type checkoutFlow struct {
	db       *gorm.DB
	checkout *apporder.CheckoutService
	orders   *apporder.OrderService
	carts    *GormCartRepository
}

func newCheckoutFlow(t *testing.T) *checkoutFlow {
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)
	return &checkoutFlow{
		db:       db,
		checkout: apporder.NewCheckoutService(scope, nil),
		orders:   apporder.NewOrderService(scope, NewGormOrderRepository(db), order.DefaultPolicy(), nil),
		carts:    NewGormCartRepository(db),
	}
}

func (f *checkoutFlow) addToCart(t *testing.T, userID, productID uuid.UUID, qty int) {
	t.Helper()
	item, err := cart.NewItem(userID, productID, qty)
	require.NoError(t, err)
	require.NoError(t, f.carts.Upsert(context.Background(), item))
}

func (f *checkoutFlow) cartSize(t *testing.T, userID uuid.UUID) int {
	t.Helper()
	items, err := f.carts.FindByUser(context.Background(), userID)
	require.NoError(t, err)
	return len(items)
}

func TestCheckoutFlow_PlacesOrder(t *testing.T) {
	f := newCheckoutFlow(t)
	ctx := context.Background()
	userID := uuid.New()
	a := seedProduct(t, f.db, "A", "10.00", 5)
	b := seedProduct(t, f.db, "B", "5.00", 5)
	f.addToCart(t, userID, a.ID, 2)
	f.addToCart(t, userID, b.ID, 1)

	resp, err := f.checkout.PlaceOrder(ctx, userID, apporder.PlaceOrderRequest{ShippingAddress: "1 Vinyl Street"})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("25.00").Equal(resp.Total))
	assert.Equal(t, 3, stockOf(t, f.db, a.ID))
	assert.Equal(t, 4, stockOf(t, f.db, b.ID))
	assert.Equal(t, 0, f.cartSize(t, userID))

	mine, err := f.orders.ListMine(ctx, userID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "PROCESSING", mine[0].Status)
	sum := decimal.Zero
	for _, item := range mine[0].Items {
		sum = sum.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	assert.True(t, sum.Equal(mine[0].Total), "total equals the sum of its lines")
}

func TestCheckoutFlow_InsufficientStockChangesNothing(t *testing.T) {
	f := newCheckoutFlow(t)
	ctx := context.Background()
	userID := uuid.New()
	a := seedProduct(t, f.db, "A", "10.00", 3)
	f.addToCart(t, userID, a.ID, 10)

	_, err := f.checkout.PlaceOrder(ctx, userID, apporder.PlaceOrderRequest{ShippingAddress: "1 Vinyl Street"})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 10, domainErr.Details["requested"])
	assert.Equal(t, 3, domainErr.Details["available"])

	assert.Equal(t, 3, stockOf(t, f.db, a.ID))
	assert.Equal(t, 1, f.cartSize(t, userID))
	var count int64
	require.NoError(t, f.db.Table("orders").Count(&count).Error)
	assert.Zero(t, count)
}

func TestCheckoutFlow_CancelRestocks(t *testing.T) {
	f := newCheckoutFlow(t)
	ctx := context.Background()
	userID := uuid.New()
	a := seedProduct(t, f.db, "A", "10.00", 5)
	f.addToCart(t, userID, a.ID, 2)

	placed, err := f.checkout.PlaceOrder(ctx, userID, apporder.PlaceOrderRequest{ShippingAddress: "1 Vinyl Street"})
	require.NoError(t, err)
	require.Equal(t, 3, stockOf(t, f.db, a.ID))

	cancelled, err := f.orders.Cancel(ctx, userID, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	assert.Equal(t, 5, stockOf(t, f.db, a.ID))

	_, err = f.orders.Cancel(ctx, userID, placed.ID)
	assert.ErrorIs(t, err, shared.ErrNotCancellable)
	assert.Equal(t, 5, stockOf(t, f.db, a.ID), "second cancel does not restock")

	_, err = f.orders.Cancel(ctx, uuid.New(), placed.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCheckoutFlow_CancelAfterProductDeleted(t *testing.T) {
	f := newCheckoutFlow(t)
	ctx := context.Background()
	userID := uuid.New()
	gone := seedProduct(t, f.db, "Withdrawn Pressing", "30.00", 2)
	kept := seedProduct(t, f.db, "Reissue", "15.00", 4)
	f.addToCart(t, userID, gone.ID, 1)
	f.addToCart(t, userID, kept.ID, 2)

	placed, err := f.checkout.PlaceOrder(ctx, userID, apporder.PlaceOrderRequest{ShippingAddress: "1 Vinyl Street"})
	require.NoError(t, err)
	require.NoError(t, f.db.Exec("DELETE FROM products WHERE id = ?", gone.ID).Error)

	cancelled, err := f.orders.Cancel(ctx, userID, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	assert.Equal(t, 4, stockOf(t, f.db, kept.ID))

	got, err := f.orders.Get(ctx, userID, placed.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	var names []string
	for _, item := range got.Items {
		names = append(names, item.ProductName)
	}
	assert.Contains(t, names, "Withdrawn Pressing", "line items outlive the product")
}

func TestCheckoutFlow_EmptyCart(t *testing.T) {
	f := newCheckoutFlow(t)
	_, err := f.checkout.PlaceOrder(context.Background(), uuid.New(), apporder.PlaceOrderRequest{ShippingAddress: "1 Vinyl Street"})
	assert.ErrorIs(t, err, shared.ErrEmptyCart)
}

func TestCheckoutFlow_StockNeverNegative(t *testing.T) {
	f := newCheckoutFlow(t)
	ctx := context.Background()
	a := seedProduct(t, f.db, "A", "1.00", 4)
	req := apporder.PlaceOrderRequest{ShippingAddress: "1 Vinyl Street"}

	var placed []uuid.UUID
	users := make([]uuid.UUID, 6)
	for i := range users {
		users[i] = uuid.New()
		f.addToCart(t, users[i], a.ID, 1+i%2)
		resp, err := f.checkout.PlaceOrder(ctx, users[i], req)
		if err != nil {
			require.ErrorIs(t, err, shared.ErrInsufficientStock)
			continue
		}
		placed = append(placed, resp.ID)
		require.GreaterOrEqual(t, stockOf(t, f.db, a.ID), 0)
	}
	assert.Equal(t, 0, stockOf(t, f.db, a.ID))

	// users 0 (1 unit) and 1 (2 units) got theirs, user 2 took the last unit.
	require.Len(t, placed, 3)
	_, err := f.orders.Cancel(ctx, users[1], placed[1])
	require.NoError(t, err)
	assert.Equal(t, 2, stockOf(t, f.db, a.ID))
}
