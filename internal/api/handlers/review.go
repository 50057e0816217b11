package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/venkatakausik18/snap-n-shop-central/internal/api/middleware"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	service "github.com/venkatakausik18/snap-n-shop-central/internal/services"
	"github.com/venkatakausik18/snap-n-shop-central/internal/utils"
	"github.com/venkatakausik18/snap-n-shop-central/internal/utils/response"
)

type ReviewHandler struct {
	reviewService service.ReviewService
	validator     *validator.Validate
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, validator: validator.New()}
}

// ListReviews godoc
//
//	@Summary		List reviews of a product
//	@Tags			Reviews
//	@Produce		json
//	@Param			id			path		string											true	"Product ID (UUID)"	Format(uuid)
//	@Param			page		query		int												false	"Page number (default: 1)"					minimum(1)
//	@Param			pageSize	query		int												false	"Items per page (default: 10, max: 100)"	minimum(1)	maximum(100)
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.Review}	"Reviews"
//	@Failure		400			{object}	response.ErrorResponse							"Invalid product ID format"
//	@Failure		500			{object}	response.ErrorResponse							"Internal server error"
//	@Router			/products/{id}/reviews [get]
func (h *ReviewHandler) ListReviews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		productID, ok := pathID(w, r, logger)
		if !ok {
			return
		}

		page, pageSize := models.NormalizePage(utils.QueryInt(r, "page", 1), utils.QueryInt(r, "pageSize", models.DefaultPageSize))

		reviews, total, err := h.reviewService.ListReviews(r.Context(), productID, page, pageSize)
		if err != nil {
			logger.Error("Failed to list reviews", slog.String("productId", productID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     reviews,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}

// CreateReview godoc
//
//	@Summary		Review a product
//	@Description	Creates the caller's review of a product. Passing an order item of the caller marks it as a verified purchase.
//	@Tags			Reviews
//	@Accept			json
//	@Produce		json
//	@Param			review	body		models.CreateReviewRequest	true	"Review"
//	@Success		201		{object}	models.Review				"Created review"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Failure		409		{object}	response.ErrorResponse		"Product already reviewed"
//	@Security		BearerAuth
//	@Router			/reviews [post]
func (h *ReviewHandler) CreateReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		var req models.CreateReviewRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		review, err := h.reviewService.CreateReview(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Warn("Failed to create review", slog.String("productId", req.ProductID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, review)
	}
}

// UpdateReview godoc
//
//	@Summary	Edit a review
//	@Tags		Reviews
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Review ID (UUID)"	Format(uuid)
//	@Param		review	body		models.UpdateReviewRequest	true	"Changed fields"
//	@Success	200		{object}	models.Review				"Updated review"
//	@Failure	400		{object}	response.ErrorResponse		"Validation error"
//	@Failure	401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure	404		{object}	response.ErrorResponse		"Review not found"
//	@Security	BearerAuth
//	@Router		/reviews/{id} [put]
func (h *ReviewHandler) UpdateReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		id, ok := pathID(w, r, logger)
		if !ok {
			return
		}

		var req models.UpdateReviewRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		review, err := h.reviewService.UpdateReview(r.Context(), claims.UserID, id, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, review)
	}
}

// DeleteReview godoc
//
//	@Summary	Delete a review
//	@Tags		Reviews
//	@Param		id	path	string	true	"Review ID (UUID)"	Format(uuid)
//	@Success	204
//	@Failure	401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure	404	{object}	response.ErrorResponse	"Review not found"
//	@Security	BearerAuth
//	@Router		/reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		id, ok := pathID(w, r, logger)
		if !ok {
			return
		}

		if err := h.reviewService.DeleteReview(r.Context(), claims.UserID, id); err != nil {
			response.Error(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// MarkHelpful godoc
//
//	@Summary	Vote a review as helpful
//	@Tags		Reviews
//	@Param		id	path	string	true	"Review ID (UUID)"	Format(uuid)
//	@Success	204
//	@Failure	404	{object}	response.ErrorResponse	"Review not found"
//	@Failure	429	{object}	response.ErrorResponse	"Too many requests"
//	@Router		/reviews/{id}/helpful [post]
func (h *ReviewHandler) MarkHelpful() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, ok := pathID(w, r, logger)
		if !ok {
			return
		}

		if err := h.reviewService.MarkHelpful(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
