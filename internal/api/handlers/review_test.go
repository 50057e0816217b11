package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/venkatakausik18/snap-n-shop-central/internal/api/handlers"
	"github.com/venkatakausik18/snap-n-shop-central/internal/api/middleware"
	appErrors "github.com/venkatakausik18/snap-n-shop-central/internal/errors"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	"github.com/venkatakausik18/snap-n-shop-central/internal/services/mocks"
	"github.com/venkatakausik18/snap-n-shop-central/internal/testutils"
)

func TestCreateReview(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	body := `{"product_id":"` + productID.String() + `","rating":5,"title":"Great","comment":"Keeps coffee hot"}`

	t.Run("Success", func(t *testing.T) {
		reviewService := new(mocks.ReviewService)
		h := handlers.NewReviewHandler(reviewService)

		reviewService.On("CreateReview", mock.Anything, userID, mock.MatchedBy(func(r *models.CreateReviewRequest) bool {
			return r.ProductID == productID && r.Rating == 5
		})).Return(&models.Review{ID: uuid.New(), ProductID: productID, UserID: userID, Rating: 5, IsApproved: true}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/reviews", strings.NewReader(body), userID, nil)
		rr := httptest.NewRecorder()

		h.CreateReview().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var review models.Review
		decodeData(t, rr, &review)
		assert.Equal(t, 5, review.Rating)
		assert.True(t, review.IsApproved)
	})

	t.Run("Failure - Rating Out Of Range", func(t *testing.T) {
		reviewService := new(mocks.ReviewService)
		h := handlers.NewReviewHandler(reviewService)

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/reviews",
			strings.NewReader(`{"product_id":"`+productID.String()+`","rating":6}`), userID, nil)
		rr := httptest.NewRecorder()

		h.CreateReview().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		reviewService.AssertNotCalled(t, "CreateReview")
	})

	t.Run("Failure - Duplicate", func(t *testing.T) {
		reviewService := new(mocks.ReviewService)
		h := handlers.NewReviewHandler(reviewService)

		reviewService.On("CreateReview", mock.Anything, userID, mock.Anything).
			Return(nil, appErrors.DuplicateEntryError("You have already reviewed this product")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/reviews", strings.NewReader(body), userID, nil)
		rr := httptest.NewRecorder()

		h.CreateReview().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		reviewService := new(mocks.ReviewService)
		h := handlers.NewReviewHandler(reviewService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/reviews", strings.NewReader(body), nil)
		rr := httptest.NewRecorder()

		h.CreateReview().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestListReviews(t *testing.T) {
	productID := uuid.New()

	reviewService := new(mocks.ReviewService)
	h := handlers.NewReviewHandler(reviewService)

	reviewService.On("ListReviews", mock.Anything, productID, 1, models.DefaultPageSize).
		Return([]models.Review{{ID: uuid.New(), Rating: 4}}, 1, nil).Once()

	req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/products/"+productID.String()+"/reviews", nil,
		map[string]string{"id": productID.String()})
	rr := httptest.NewRecorder()

	h.ListReviews().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var page models.PaginatedResponse
	decodeData(t, rr, &page)
	assert.Equal(t, 1, page.Total)
	reviewService.AssertExpectations(t)
}

func TestUpdateAndDeleteReview(t *testing.T) {
	userID := uuid.New()
	reviewID := uuid.New()
	params := map[string]string{"id": reviewID.String()}

	t.Run("Success - Update", func(t *testing.T) {
		reviewService := new(mocks.ReviewService)
		h := handlers.NewReviewHandler(reviewService)

		reviewService.On("UpdateReview", mock.Anything, userID, reviewID, mock.MatchedBy(func(r *models.UpdateReviewRequest) bool {
			return r.Rating != nil && *r.Rating == 3
		})).Return(&models.Review{ID: reviewID, Rating: 3}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/reviews/"+reviewID.String(), strings.NewReader(`{"rating":3}`), userID, params)
		rr := httptest.NewRecorder()

		h.UpdateReview().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		reviewService.AssertExpectations(t)
	})

	t.Run("Failure - Update Someone Else's Review", func(t *testing.T) {
		reviewService := new(mocks.ReviewService)
		h := handlers.NewReviewHandler(reviewService)

		reviewService.On("UpdateReview", mock.Anything, userID, reviewID, mock.Anything).
			Return(nil, appErrors.NotFoundError("Review not found")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/reviews/"+reviewID.String(), strings.NewReader(`{"rating":3}`), userID, params)
		rr := httptest.NewRecorder()

		h.UpdateReview().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Success - Delete", func(t *testing.T) {
		reviewService := new(mocks.ReviewService)
		h := handlers.NewReviewHandler(reviewService)

		reviewService.On("DeleteReview", mock.Anything, userID, reviewID).Return(nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/reviews/"+reviewID.String(), nil, userID, params)
		rr := httptest.NewRecorder()

		h.DeleteReview().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.Bytes())
	})

	t.Run("Success - Mark Helpful Anonymously", func(t *testing.T) {
		reviewService := new(mocks.ReviewService)
		h := handlers.NewReviewHandler(reviewService)

		reviewService.On("MarkHelpful", mock.Anything, reviewID).Return(nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/reviews/"+reviewID.String()+"/helpful", nil, params)
		rr := httptest.NewRecorder()

		h.MarkHelpful().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		reviewService.AssertExpectations(t)
	})

	t.Run("Failure - Rate Limited", func(t *testing.T) {
		reviewService := new(mocks.ReviewService)
		h := handlers.NewReviewHandler(reviewService)
		limited := middleware.NewRateLimiter(0.01, 1).Limit(h.MarkHelpful())

		reviewService.On("MarkHelpful", mock.Anything, reviewID).Return(nil).Once()

		first := httptest.NewRecorder()
		limited.ServeHTTP(first, testutils.CreateTestRequestWithoutContext(http.MethodPost, "/reviews/"+reviewID.String()+"/helpful", nil, params))

		second := httptest.NewRecorder()
		limited.ServeHTTP(second, testutils.CreateTestRequestWithoutContext(http.MethodPost, "/reviews/"+reviewID.String()+"/helpful", nil, params))

		assert.Equal(t, http.StatusNoContent, first.Code)
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		reviewService.AssertNumberOfCalls(t, "MarkHelpful", 1)
	})
}
