package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	"github.com/venkatakausik18/snap-n-shop-central/internal/utils"
)

// ErrDuplicateReview is returned when the user already reviewed the product.
var ErrDuplicateReview = errors.New("review already exists for this product")

const uniqueViolation = "23505"

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *models.Review) error
	GetReviewByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListApprovedByProduct(ctx context.Context, productID uuid.UUID, page, size int) ([]models.Review, int, error)
	UpdateReview(ctx context.Context, review *models.Review) error
	DeleteReview(ctx context.Context, id, userID uuid.UUID) error
	IncrementHelpful(ctx context.Context, id uuid.UUID) error
	RefreshProductRating(ctx context.Context, productID uuid.UUID) error
}

type reviewRepository struct {
	DB *sql.DB
}

func NewReviewRepo(db *sql.DB) ReviewRepository {
	return &reviewRepository{DB: db}
}

const reviewColumns = `id, product_id, user_id, order_item_id, rating, COALESCE(title, ''), COALESCE(comment, ''),
			is_verified_purchase, is_approved, helpful_votes, created_at, updated_at`

func scanReview(row rowScanner, review *models.Review) error {
	var orderItemID uuid.NullUUID

	err := row.Scan(&review.ID, &review.ProductID, &review.UserID, &orderItemID, &review.Rating, &review.Title,
		&review.Comment, &review.IsVerifiedPurchase, &review.IsApproved, &review.HelpfulVotes,
		&review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return err
	}

	if orderItemID.Valid {
		review.OrderItemID = &orderItemID.UUID
	}

	return nil
}

func (r *reviewRepository) CreateReview(ctx context.Context, review *models.Review) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO reviews (product_id, user_id, order_item_id, rating, title, comment, is_verified_purchase, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, is_approved, helpful_votes, created_at, updated_at`

	var orderItemID uuid.NullUUID
	if review.OrderItemID != nil {
		orderItemID = uuid.NullUUID{UUID: *review.OrderItemID, Valid: true}
	}

	err := r.DB.QueryRowContext(dbCtx, query, review.ProductID, review.UserID, orderItemID, review.Rating,
		nullIfEmpty(review.Title), nullIfEmpty(review.Comment), review.IsVerifiedPurchase).
		Scan(&review.ID, &review.IsApproved, &review.HelpfulVotes, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateReview
		}

		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *reviewRepository) GetReviewByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review := &models.Review{}

	if err := scanReview(r.DB.QueryRowContext(dbCtx, query, id), review); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

func (r *reviewRepository) ListApprovedByProduct(ctx context.Context, productID uuid.UUID, page, size int) ([]models.Review, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM reviews WHERE product_id = $1 AND is_approved = TRUE`
	if err := r.DB.QueryRowContext(dbCtx, countQuery, productID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	page, size = models.NormalizePage(page, size)

	query := `SELECT ` + reviewColumns + `
		FROM reviews
		WHERE product_id = $1 AND is_approved = TRUE
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, productID, size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}

	for rows.Next() {
		var review models.Review

		if err := scanReview(rows, &review); err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}

		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate reviews: %w", err)
	}

	return reviews, total, nil
}

// UpdateReview only touches a review owned by review.UserID.
func (r *reviewRepository) UpdateReview(ctx context.Context, review *models.Review) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE reviews
		SET rating = $1, title = $2, comment = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, review.Rating, nullIfEmpty(review.Title), nullIfEmpty(review.Comment),
		review.ID, review.UserID).Scan(&review.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}

		return fmt.Errorf("failed to update review: %w", err)
	}

	return nil
}

func (r *reviewRepository) DeleteReview(ctx context.Context, id, userID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM reviews WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	return expectOneRow(result)
}

func (r *reviewRepository) IncrementHelpful(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx,
		`UPDATE reviews SET helpful_votes = helpful_votes + 1 WHERE id = $1 AND is_approved = TRUE`, id)
	if err != nil {
		return fmt.Errorf("failed to vote review helpful: %w", err)
	}

	return expectOneRow(result)
}

// RefreshProductRating recomputes the denormalised rating and review count from approved reviews.
func (r *reviewRepository) RefreshProductRating(ctx context.Context, productID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET rating = COALESCE((SELECT ROUND(AVG(rating)::numeric, 2) FROM reviews WHERE product_id = $1 AND is_approved = TRUE), 0),
			review_count = (SELECT COUNT(*) FROM reviews WHERE product_id = $1 AND is_approved = TRUE),
			updated_at = NOW()
		WHERE id = $1`

	if _, err := r.DB.ExecContext(dbCtx, query, productID); err != nil {
		return fmt.Errorf("failed to refresh product rating: %w", err)
	}

	return nil
}
