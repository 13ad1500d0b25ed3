package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// PricePrecision is the number of decimal places prices and totals are kept at
const PricePrecision = 2

// Product is a sellable catalog item with its on-hand stock
type Product struct {
	shared.BaseEntity
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
}

// NewProduct creates a new product
func NewProduct(name, description string, price decimal.Decimal, stock int, imageURL string) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: description,
		Price:       price.Round(PricePrecision),
		Stock:       stock,
		ImageURL:    imageURL,
	}, nil
}

// EnsureAvailable returns an insufficient stock error when quantity exceeds stock
func (p *Product) EnsureAvailable(quantity int) error {
	if quantity > p.Stock {
		return shared.NewInsufficientStockError(p.ID, p.Name, quantity, p.Stock)
	}
	return nil
}

// DecreaseStock removes quantity from stock
func (p *Product) DecreaseStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if err := p.EnsureAvailable(quantity); err != nil {
		return err
	}
	p.Stock -= quantity
	p.Touch(time.Now().UTC())
	return nil
}

// LineTotal returns price times quantity at currency precision
func (p *Product) LineTotal(quantity int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(quantity))).Round(PricePrecision)
}

// ProductSummary is a product together with its review aggregate
type ProductSummary struct {
	Product
	AverageRating decimal.Decimal
	ReviewCount   int64
}
