package review

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReviewService handles product reviews
type ReviewService struct {
	reviewRepo     review.ReviewRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewRepo review.ReviewRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SetEventPublisher sets the publisher for review events
func (s *ReviewService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create posts a review of an existing product. A second review of the same
// product by the same user fails with ALREADY_EXISTS.
func (s *ReviewService) Create(ctx context.Context, userID uuid.UUID, req CreateReviewRequest) (*ReviewResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	r, err := review.NewReview(userID, req.ProductID, req.Rating, req.Comment, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Create(ctx, r); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, r)
	resp := ToReviewResponse(r)
	return &resp, nil
}

// Delete removes one of the user's own reviews. Someone else's review is NOT_FOUND.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	r, err := s.reviewRepo.FindByIDForUser(ctx, userID, reviewID)
	if err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, r.ID); err != nil {
		return err
	}

	r.MarkDeleted()
	s.publishEvents(ctx, r)
	return nil
}

func (s *ReviewService) publishEvents(ctx context.Context, r *review.Review) {
	events := r.GetDomainEvents()
	r.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish review events",
			zap.String("review_id", r.ID.String()),
			zap.Error(err),
		)
	}
}
