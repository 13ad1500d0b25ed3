package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/review"
)

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" swaggertype:"string" example:"24.99"`
	Stock         int             `json:"stock"`
	ImageURL      string          `json:"image_url"`
	AverageRating decimal.Decimal `json:"average_rating" swaggertype:"string" example:"4.5"`
	ReviewCount   int64           `json:"review_count"`
}

// ProductDetailResponse is a product page: the product with its reviews
type ProductDetailResponse struct {
	ProductResponse
	Reviews []ProductReviewResponse `json:"reviews"`
}

// ProductReviewResponse is one review as shown on a product page
type ProductReviewResponse struct {
	ID                uuid.UUID `json:"id"`
	Rating            int       `json:"rating"`
	Comment           string    `json:"comment"`
	ReviewerFirstName string    `json:"reviewer_first_name"`
	CreatedAt         time.Time `json:"created_at"`
}

// ToProductResponse converts a product without review data
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Stock:         p.Stock,
		ImageURL:      p.ImageURL,
		AverageRating: decimal.Zero,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToProductSummaryResponse converts a product with its review aggregate
func ToProductSummaryResponse(s *catalog.ProductSummary) ProductResponse {
	resp := ToProductResponse(&s.Product)
	resp.AverageRating = s.AverageRating
	resp.ReviewCount = s.ReviewCount
	return resp
}

func toProductReviewResponses(reviews []review.ProductReview) []ProductReviewResponse {
	responses := make([]ProductReviewResponse, len(reviews))
	for i, r := range reviews {
		responses[i] = ProductReviewResponse{
			ID:                r.ID,
			Rating:            r.Rating,
			Comment:           r.Comment,
			ReviewerFirstName: r.ReviewerFirstName,
			CreatedAt:         r.CreatedAt,
		}
	}
	return responses
}
