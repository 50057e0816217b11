package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/venkatakausik18/snap-n-shop-central/internal/api/middleware"
	appErrors "github.com/venkatakausik18/snap-n-shop-central/internal/errors"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	repository "github.com/venkatakausik18/snap-n-shop-central/internal/repositories"
)

type ReviewService interface {
	CreateReview(ctx context.Context, userID uuid.UUID, req *models.CreateReviewRequest) (*models.Review, error)
	ListReviews(ctx context.Context, productID uuid.UUID, page, size int) ([]models.Review, int, error)
	UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, req *models.UpdateReviewRequest) (*models.Review, error)
	DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error
	MarkHelpful(ctx context.Context, reviewID uuid.UUID) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	orderRepo  repository.OrderRepository
	products   ProductService
	policy     *bluemonday.Policy
}

func NewReviewService(reviewRepo repository.ReviewRepository, orderRepo repository.OrderRepository, products ProductService) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
		products:   products,
		policy:     bluemonday.StrictPolicy(),
	}
}

// sanitize strips all markup from customer supplied text.
func (s *reviewService) sanitize(text string) string {
	return strings.TrimSpace(s.policy.Sanitize(text))
}

func (s *reviewService) CreateReview(ctx context.Context, userID uuid.UUID, req *models.CreateReviewRequest) (*models.Review, error) {
	logger := middleware.LoggerFromContext(ctx)

	if _, err := s.products.GetProductByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	review := &models.Review{
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    req.Rating,
		Title:     s.sanitize(req.Title),
		Comment:   s.sanitize(req.Comment),
	}

	if req.OrderItemID != nil {
		owned, err := s.orderRepo.OrderLineOwnedBy(ctx, *req.OrderItemID, userID, req.ProductID)
		if err != nil {
			return nil, appErrors.DatabaseError("Failed to verify purchase").WithError(err)
		}

		if !owned {
			return nil, appErrors.ValidationError("Order item does not belong to this user and product")
		}

		review.OrderItemID = req.OrderItemID
		review.IsVerifiedPurchase = true
	}

	if err := s.reviewRepo.CreateReview(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, appErrors.DuplicateEntryError("You have already reviewed this product").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to create review").WithError(err)
	}

	s.refreshRating(ctx, review.ProductID)

	logger.Info("Review created", slog.String("reviewId", review.ID.String()), slog.String("productId", review.ProductID.String()))

	return review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, productID uuid.UUID, page, size int) ([]models.Review, int, error) {
	page, size = models.NormalizePage(page, size)

	reviews, total, err := s.reviewRepo.ListApprovedByProduct(ctx, productID, page, size)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch reviews").WithError(err)
	}

	return reviews, total, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, req *models.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.ownedReview(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}

	if req.Title != nil {
		review.Title = s.sanitize(*req.Title)
	}

	if req.Comment != nil {
		review.Comment = s.sanitize(*req.Comment)
	}

	if err := s.reviewRepo.UpdateReview(ctx, review); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Review not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to update review").WithError(err)
	}

	if req.Rating != nil {
		s.refreshRating(ctx, review.ProductID)
	}

	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	review, err := s.ownedReview(ctx, userID, reviewID)
	if err != nil {
		return err
	}

	if err := s.reviewRepo.DeleteReview(ctx, reviewID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Review not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to delete review").WithError(err)
	}

	s.refreshRating(ctx, review.ProductID)

	return nil
}

func (s *reviewService) MarkHelpful(ctx context.Context, reviewID uuid.UUID) error {
	if err := s.reviewRepo.IncrementHelpful(ctx, reviewID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Review not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to record vote").WithError(err)
	}

	return nil
}

// ownedReview reports a review written by someone else as missing.
func (s *reviewService) ownedReview(ctx context.Context, userID, reviewID uuid.UUID) (*models.Review, error) {
	review, err := s.reviewRepo.GetReviewByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Review not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch review").WithError(err)
	}

	if review.UserID != userID {
		return nil, appErrors.NotFoundError("Review not found")
	}

	return review, nil
}

// refreshRating keeps the product's rating in step. A failure leaves the old
// aggregate in place until the next review change.
func (s *reviewService) refreshRating(ctx context.Context, productID uuid.UUID) {
	if err := s.reviewRepo.RefreshProductRating(ctx, productID); err != nil {
		middleware.LoggerFromContext(ctx).Error("Failed to refresh product rating",
			slog.String("productId", productID.String()), slog.Any("error", err))

		return
	}

	s.products.InvalidateProduct(ctx, productID)
}
