package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/review"
	"go.uber.org/zap"
)

// ProductCache stores the rendered product listing between requests.
// A miss is reported with ok=false and a nil error.
type ProductCache interface {
	GetList(ctx context.Context) (products []ProductResponse, ok bool, err error)
	SetList(ctx context.Context, products []ProductResponse) error
	Invalidate(ctx context.Context) error
}

// ProductService serves the public catalog
type ProductService struct {
	productRepo catalog.ProductRepository
	reviewRepo  review.ReviewRepository
	cache       ProductCache
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, reviewRepo review.ReviewRepository, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		logger:      logger,
	}
}

// SetCache enables caching of the product listing
func (s *ProductService) SetCache(cache ProductCache) {
	s.cache = cache
}

// List returns every product with its average rating, ordered by name.
// Cache failures fall through to the database.
func (s *ProductService) List(ctx context.Context) ([]ProductResponse, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetList(ctx)
		if err != nil {
			s.logger.Warn("product cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	summaries, err := s.productRepo.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]ProductResponse, len(summaries))
	for i := range summaries {
		products[i] = ToProductSummaryResponse(&summaries[i])
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, products); err != nil {
			s.logger.Warn("product cache write failed", zap.Error(err))
		}
	}
	return products, nil
}

// Get returns a product with its average rating and reviews
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductDetailResponse, error) {
	summary, err := s.productRepo.GetSummary(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProductDetailResponse{
		ProductResponse: ToProductSummaryResponse(summary),
		Reviews:         toProductReviewResponses(reviews),
	}, nil
}
