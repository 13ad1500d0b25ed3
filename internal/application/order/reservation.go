package order

import (
	"bytes"
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
)

// ReservedLine is a cart line whose product row is locked and has enough stock
type ReservedLine struct {
	Product  *catalog.Product
	Quantity int
}

// Amount returns the line total at the product's current price
func (l ReservedLine) Amount() decimal.Decimal {
	return l.Product.LineTotal(l.Quantity)
}

// Reservation is the verified content of a cart
type Reservation struct {
	Lines []ReservedLine
	Total decimal.Decimal
}

// compareIDs is the order stock rows are locked and adjusted in
func compareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}

// ReserveStock locks the products of the cart and checks each requested
// quantity against stock. Rows are locked in product ID order so two
// checkouts sharing products cannot deadlock; the quantities are then checked
// in cart order and the first shortage aborts the reservation with an
// INSUFFICIENT_STOCK error. A product that no longer exists yields NOT_FOUND.
//
// It must run inside a transaction: the locks are what keep the stock it read
// valid until the caller decrements it.
func ReserveStock(ctx context.Context, products catalog.ProductRepository, items []cart.Item) (*Reservation, error) {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	slices.SortFunc(ids, compareIDs)

	locked := make(map[uuid.UUID]*catalog.Product, len(ids))
	for _, id := range slices.Compact(ids) {
		product, err := products.FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = product
	}

	r := &Reservation{
		Lines: make([]ReservedLine, 0, len(items)),
		Total: decimal.Zero,
	}
	for _, item := range items {
		product := locked[item.ProductID]
		if err := product.EnsureAvailable(item.Quantity); err != nil {
			return nil, err
		}
		line := ReservedLine{Product: product, Quantity: item.Quantity}
		r.Lines = append(r.Lines, line)
		r.Total = r.Total.Add(line.Amount())
	}
	r.Total = r.Total.Round(catalog.PricePrecision)
	return r, nil
}
