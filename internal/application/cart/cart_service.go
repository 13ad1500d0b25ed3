package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	apporder "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

// CartService manages shopping carts
type CartService struct {
	txScope     apporder.TransactionScope
	cartRepo    cart.ItemRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(
	txScope apporder.TransactionScope,
	cartRepo cart.ItemRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		txScope:     txScope,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// GetCart returns the user's cart lines with subtotals and the cart total
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	items, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &CartResponse{Items: make([]CartItemResponse, 0, len(items)), Total: decimal.Zero}
	if len(items) == 0 {
		return resp, nil
	}

	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		line := toCartItemResponse(p, item.Quantity)
		resp.Items = append(resp.Items, line)
		resp.ItemCount += item.Quantity
		resp.Total = resp.Total.Add(line.Subtotal)
	}
	return resp, nil
}

// SetQuantity sets the quantity of a product in the cart, adding the line if needed.
// The quantity must not exceed the product's current stock.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartItemResponse, error) {
	if err := cart.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	item, err := cart.NewItem(userID, productID, quantity)
	if err != nil {
		return nil, err
	}

	var resp CartItemResponse
	err = s.txScope.Execute(ctx, func(repos apporder.TransactionalRepositories) error {
		p, err := repos.ProductRepo().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if err := p.EnsureAvailable(quantity); err != nil {
			return err
		}
		if err := repos.CartRepo().Upsert(ctx, item); err != nil {
			return err
		}
		resp = toCartItemResponse(p, quantity)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("cart line set",
		zap.String("user_id", userID.String()),
		zap.String("product_id", productID.String()),
		zap.Int("quantity", quantity),
	)
	return &resp, nil
}

// AddItem puts a product in the cart with the requested quantity, or one
func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, req AddItemRequest) (*CartItemResponse, error) {
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	return s.SetQuantity(ctx, userID, productID, quantity)
}

// RemoveItem deletes a product from the cart
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	return s.cartRepo.Delete(ctx, userID, productID)
}

func toCartItemResponse(p *catalog.Product, quantity int) CartItemResponse {
	return CartItemResponse{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		Stock:     p.Stock,
		Quantity:  quantity,
		Subtotal:  p.LineTotal(quantity),
	}
}
