package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	cartapp "github.com/storefront/backend/internal/application/cart"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// CheckoutTestSetup wires the cart and order services to a real database
type CheckoutTestSetup struct {
	DB       *TestDB
	Carts    *cartapp.CartService
	Checkout *orderapp.CheckoutService
	Orders   *orderapp.OrderService
}

func NewCheckoutTestSetup(t *testing.T, policy order.Policy) *CheckoutTestSetup {
	t.Helper()
	tdb := NewSharedTestDB(t)
	scope := persistence.NewGormTransactionScope(tdb.DB)
	productRepo := persistence.NewGormProductRepository(tdb.DB)
	return &CheckoutTestSetup{
		DB:       tdb,
		Carts:    cartapp.NewCartService(scope, persistence.NewGormCartRepository(tdb.DB), productRepo, nil),
		Checkout: orderapp.NewCheckoutService(scope, nil),
		Orders:   orderapp.NewOrderService(scope, persistence.NewGormOrderRepository(tdb.DB), policy, nil),
	}
}

func (s *CheckoutTestSetup) put(t *testing.T, userID, productID uuid.UUID, qty int) {
	t.Helper()
	_, err := s.Carts.SetQuantity(context.Background(), userID, productID, qty)
	require.NoError(t, err)
}

func placeRequest() orderapp.PlaceOrderRequest {
	return orderapp.PlaceOrderRequest{ShippingAddress: "12 Groove Lane, Bristol"}
}

func TestCheckout_PlacesOrderFromCart(t *testing.T) {
	s := NewCheckoutTestSetup(t, order.DefaultPolicy())
	ctx := context.Background()

	buyer := s.DB.SeedUser("buyer@example.com")
	lp := s.DB.SeedProduct("Blue Train", "24.99", 4)
	single := s.DB.SeedProduct("So What", "7.50", 10)
	s.put(t, buyer.ID, lp.ID, 2)
	s.put(t, buyer.ID, single.ID, 3)

	placed, err := s.Checkout.PlaceOrder(ctx, buyer.ID, placeRequest())
	require.NoError(t, err)

	assert.Equal(t, string(order.StatusProcessing), placed.Status)
	assert.True(t, decimal.RequireFromString("72.48").Equal(placed.Total), "got %s", placed.Total)
	assert.Equal(t, 5, placed.ItemCount)
	assert.Equal(t, 2, s.DB.StockOf(lp.ID))
	assert.Equal(t, 7, s.DB.StockOf(single.ID))

	cart, err := s.Carts.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// Line items keep the price paid.
	require.NoError(t, s.DB.DB.Exec("UPDATE products SET price = 99 WHERE id = ?", lp.ID).Error)
	got, err := s.Orders.Get(ctx, buyer.ID, placed.ID)
	require.NoError(t, err)
	assert.True(t, placed.Total.Equal(got.Total))
	for _, item := range got.Items {
		if item.ProductID == lp.ID {
			assert.True(t, decimal.RequireFromString("24.99").Equal(item.UnitPrice))
			assert.Equal(t, "Blue Train", item.ProductName)
		}
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	s := NewCheckoutTestSetup(t, order.DefaultPolicy())
	buyer := s.DB.SeedUser("empty@example.com")

	_, err := s.Checkout.PlaceOrder(context.Background(), buyer.ID, placeRequest())
	assert.ErrorIs(t, err, shared.ErrEmptyCart)
	assert.Zero(t, s.DB.Count("orders"))
}

func TestCheckout_InsufficientStockRollsBack(t *testing.T) {
	s := NewCheckoutTestSetup(t, order.DefaultPolicy())
	ctx := context.Background()

	buyer := s.DB.SeedUser("short@example.com")
	plenty := s.DB.SeedProduct("Kind of Blue", "19.99", 10)
	scarce := s.DB.SeedProduct("A Love Supreme", "29.99", 5)
	s.put(t, buyer.ID, plenty.ID, 2)
	s.put(t, buyer.ID, scarce.ID, 5)

	// Another buyer takes most of the scarce stock after the cart was filled.
	require.NoError(t, s.DB.DB.Exec("UPDATE products SET stock = 1 WHERE id = ?", scarce.ID).Error)

	_, err := s.Checkout.PlaceOrder(ctx, buyer.ID, placeRequest())
	require.ErrorIs(t, err, shared.ErrInsufficientStock)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, scarce.ID.String(), domainErr.Details["product_id"])
	assert.Equal(t, 1, domainErr.Details["available"])

	assert.Equal(t, 10, s.DB.StockOf(plenty.ID), "no partial reservation survives")
	assert.Equal(t, 1, s.DB.StockOf(scarce.ID))
	assert.Zero(t, s.DB.Count("orders"))
	assert.Zero(t, s.DB.Count("order_items"))
	assert.Equal(t, int64(2), s.DB.Count("cart_items"), "cart is kept for another attempt")
}

func TestCheckout_ConcurrentBuyersNeverOversell(t *testing.T) {
	s := NewCheckoutTestSetup(t, order.DefaultPolicy())
	ctx := context.Background()

	const stock = 3
	const buyers = 8
	product := s.DB.SeedProduct("Giant Steps", "21.00", stock)

	users := make([]uuid.UUID, buyers)
	for i := range users {
		users[i] = s.DB.SeedUser(fmt.Sprintf("racer%d@example.com", i)).ID
		s.put(t, users[i], product.ID, 1)
	}

	var (
		mu       sync.Mutex
		placed   int
		rejected int
	)
	var g errgroup.Group
	for _, userID := range users {
		g.Go(func() error {
			_, err := s.Checkout.PlaceOrder(ctx, userID, placeRequest())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				placed++
			case errors.Is(err, shared.ErrInsufficientStock):
				rejected++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, stock, placed)
	assert.Equal(t, buyers-stock, rejected)
	assert.Zero(t, s.DB.StockOf(product.ID))
	assert.Equal(t, int64(stock), s.DB.Count("orders"))
	assert.Equal(t, int64(buyers-stock), s.DB.Count("cart_items"), "rejected buyers keep their carts")
}

func TestCheckout_ConcurrentCrossOrderedCarts(t *testing.T) {
	s := NewCheckoutTestSetup(t, order.DefaultPolicy())
	ctx := context.Background()

	a := s.DB.SeedProduct("Side A", "10.00", 50)
	b := s.DB.SeedProduct("Side B", "10.00", 50)

	// Half the carts list A first and half B first; lock ordering keeps
	// the checkouts from deadlocking.
	const buyers = 10
	users := make([]uuid.UUID, buyers)
	for i := range users {
		users[i] = s.DB.SeedUser(fmt.Sprintf("cross%d@example.com", i)).ID
		first, second := a.ID, b.ID
		if i%2 == 1 {
			first, second = b.ID, a.ID
		}
		s.put(t, users[i], first, 1)
		s.put(t, users[i], second, 2)
	}

	var g errgroup.Group
	for _, userID := range users {
		g.Go(func() error {
			_, err := s.Checkout.PlaceOrder(ctx, userID, placeRequest())
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 50-(buyers/2)*1-(buyers/2)*2, s.DB.StockOf(a.ID))
	assert.Equal(t, 50-(buyers/2)*2-(buyers/2)*1, s.DB.StockOf(b.ID))
	assert.Equal(t, int64(buyers), s.DB.Count("orders"))
}

func TestCheckout_SameCartPlacedConcurrently(t *testing.T) {
	s := NewCheckoutTestSetup(t, order.DefaultPolicy())
	ctx := context.Background()

	buyer := s.DB.SeedUser("double-click@example.com")
	lp := s.DB.SeedProduct("Out to Lunch", "22.00", 10)
	single := s.DB.SeedProduct("Hat and Beard", "6.00", 10)
	s.put(t, buyer.ID, lp.ID, 2)
	s.put(t, buyer.ID, single.ID, 1)

	const attempts = 5
	var (
		mu       sync.Mutex
		placed   int
		rejected int
	)
	var g errgroup.Group
	for range attempts {
		g.Go(func() error {
			_, err := s.Checkout.PlaceOrder(ctx, buyer.ID, placeRequest())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				placed++
			case errors.Is(err, shared.ErrEmptyCart), errors.Is(err, shared.ErrCartChanged):
				rejected++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 1, placed, "one cart turns into one order")
	assert.Equal(t, attempts-1, rejected)
	assert.Equal(t, int64(1), s.DB.Count("orders"))
	assert.Equal(t, int64(2), s.DB.Count("order_items"))
	assert.Equal(t, 8, s.DB.StockOf(lp.ID))
	assert.Equal(t, 9, s.DB.StockOf(single.ID))
	assert.Zero(t, s.DB.Count("cart_items"))
}
