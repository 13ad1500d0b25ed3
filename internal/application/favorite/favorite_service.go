package favorite

import (
	"context"
	"time"

	"github.com/google/uuid"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/favorite"
)

// FavoriteService manages a user's favorite products
type FavoriteService struct {
	favoriteRepo favorite.FavoriteRepository
	productRepo  catalog.ProductRepository
	now          func() time.Time
}

// NewFavoriteService creates a new FavoriteService
func NewFavoriteService(favoriteRepo favorite.FavoriteRepository, productRepo catalog.ProductRepository) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Add marks a product as favorite; unknown products are NOT_FOUND
// and a product already marked is ALREADY_EXISTS
func (s *FavoriteService) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}
	f, err := favorite.NewFavorite(userID, productID, s.now())
	if err != nil {
		return err
	}
	return s.favoriteRepo.Add(ctx, f)
}

// Remove unmarks a product
func (s *FavoriteService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return s.favoriteRepo.Remove(ctx, userID, productID)
}

// List returns the user's favorite products, most recently added first
func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID) ([]appcatalog.ProductResponse, error) {
	products, err := s.favoriteRepo.ListProducts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return appcatalog.ToProductResponses(products), nil
}
