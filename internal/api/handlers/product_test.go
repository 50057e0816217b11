package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/venkatakausik18/snap-n-shop-central/internal/api/handlers"
	appErrors "github.com/venkatakausik18/snap-n-shop-central/internal/errors"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	"github.com/venkatakausik18/snap-n-shop-central/internal/services/mocks"
	"github.com/venkatakausik18/snap-n-shop-central/internal/testutils"
)

func TestGetProduct(t *testing.T) {
	productID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		productService := new(mocks.ProductService)
		h := handlers.NewProductHandler(productService)

		productService.On("GetProductByID", mock.Anything, productID).Return(&models.Product{
			ID:       productID,
			Title:    "Ceramic Mug",
			Price:    decimal.RequireFromString("349.00"),
			IsActive: true,
		}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/products/"+productID.String(), nil, map[string]string{"id": productID.String()})
		rr := httptest.NewRecorder()

		h.GetProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var product models.Product
		decodeData(t, rr, &product)
		assert.Equal(t, "Ceramic Mug", product.Title)
		assert.True(t, decimal.RequireFromString("349").Equal(product.Price))
	})

	t.Run("Failure - Inactive Product Hidden", func(t *testing.T) {
		productService := new(mocks.ProductService)
		h := handlers.NewProductHandler(productService)

		productService.On("GetProductByID", mock.Anything, productID).Return(&models.Product{ID: productID}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/products/"+productID.String(), nil, map[string]string{"id": productID.String()})
		rr := httptest.NewRecorder()

		h.GetProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Failure - Invalid ID", func(t *testing.T) {
		productService := new(mocks.ProductService)
		h := handlers.NewProductHandler(productService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/products/xyz", nil, map[string]string{"id": "xyz"})
		rr := httptest.NewRecorder()

		h.GetProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		productService.AssertNotCalled(t, "GetProductByID")
	})
}

func TestListProducts(t *testing.T) {
	t.Run("Success - Filters Parsed", func(t *testing.T) {
		productService := new(mocks.ProductService)
		h := handlers.NewProductHandler(productService)
		categoryID := uuid.New()

		matchFilter := mock.MatchedBy(func(f models.ProductFilter) bool {
			return f.CategoryID != nil && *f.CategoryID == categoryID &&
				f.MinPrice != nil && f.MinPrice.Equal(decimal.NewFromInt(100)) &&
				f.MaxPrice != nil && f.MaxPrice.Equal(decimal.RequireFromString("999.50")) &&
				f.Featured && !f.Bestseller &&
				f.Search == "mug" && f.Page == 3 && f.PageSize == 20
		})
		productService.On("ListProducts", mock.Anything, matchFilter).
			Return([]models.Product{{ID: uuid.New(), Title: "Mug"}}, 41, nil).Once()

		target := "/products?category_id=" + categoryID.String() + "&min_price=100&max_price=999.50&featured=true&search=mug&page=3&pageSize=20"
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, target, nil, nil)
		rr := httptest.NewRecorder()

		h.ListProducts().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var page models.PaginatedResponse
		decodeData(t, rr, &page)
		assert.Equal(t, 41, page.Total)
		assert.Equal(t, 3, page.Page)
		assert.Equal(t, 20, page.PageSize)
		productService.AssertExpectations(t)
	})

	t.Run("Success - Slug Filters", func(t *testing.T) {
		productService := new(mocks.ProductService)
		h := handlers.NewProductHandler(productService)

		matchFilter := mock.MatchedBy(func(f models.ProductFilter) bool {
			return f.CategorySlug == "kitchen" && f.SubcategorySlug == "mugs" && f.CategoryID == nil
		})
		productService.On("ListProducts", mock.Anything, matchFilter).Return([]models.Product{}, 0, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/products?category=kitchen&subcategory=mugs", nil, nil)
		rr := httptest.NewRecorder()

		h.ListProducts().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		productService.AssertExpectations(t)
	})

	tests := []struct {
		name  string
		query string
	}{
		{"Failure - Invalid Category", "category_id=shoes"},
		{"Failure - Invalid Subcategory", "subcategory_id=1"},
		{"Failure - Invalid Price", "min_price=cheap"},
		{"Failure - Negative Price", "max_price=-5"},
		{"Failure - Invalid Flag", "bestseller=maybe"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			productService := new(mocks.ProductService)
			h := handlers.NewProductHandler(productService)

			req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/products?"+tc.query, nil, nil)
			rr := httptest.NewRecorder()

			h.ListProducts().ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, appErrors.ErrCodeBadRequest, decodeError(t, rr).Code)
			productService.AssertNotCalled(t, "ListProducts")
		})
	}

	t.Run("Failure - Inverted Range", func(t *testing.T) {
		productService := new(mocks.ProductService)
		h := handlers.NewProductHandler(productService)

		productService.On("ListProducts", mock.Anything, mock.AnythingOfType("models.ProductFilter")).
			Return(nil, 0, appErrors.ValidationError("min_price cannot exceed max_price")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/products?min_price=50&max_price=10", nil, nil)
		rr := httptest.NewRecorder()

		h.ListProducts().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, appErrors.ErrCodeValidation, decodeError(t, rr).Code)
	})
}

func TestListCategories(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		productService := new(mocks.ProductService)
		h := handlers.NewProductHandler(productService)

		productService.On("ListCategories", mock.Anything).
			Return([]models.Category{{ID: uuid.New(), Name: "Kitchen", Slug: "kitchen"}}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/categories", nil, nil)
		rr := httptest.NewRecorder()

		h.ListCategories().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var categories []models.Category
		decodeData(t, rr, &categories)
		require.Len(t, categories, 1)
		assert.Equal(t, "kitchen", categories[0].Slug)
	})

	t.Run("Failure - Service Error", func(t *testing.T) {
		productService := new(mocks.ProductService)
		h := handlers.NewProductHandler(productService)

		productService.On("ListCategories", mock.Anything).Return(nil, appErrors.DatabaseError("Failed to list categories")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/categories", nil, nil)
		rr := httptest.NewRecorder()

		h.ListCategories().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestListSubcategories(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		productService := new(mocks.ProductService)
		h := handlers.NewProductHandler(productService)

		productService.On("ListSubcategories", mock.Anything, "kitchen").
			Return([]models.Subcategory{{ID: uuid.New(), Name: "Mugs", Slug: "mugs"}}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/categories/kitchen/subcategories", nil,
			map[string]string{"slug": "kitchen"})
		rr := httptest.NewRecorder()

		h.ListSubcategories().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var subcategories []models.Subcategory
		decodeData(t, rr, &subcategories)
		require.Len(t, subcategories, 1)
		assert.Equal(t, "mugs", subcategories[0].Slug)
		productService.AssertExpectations(t)
	})

	t.Run("Failure - Service Error", func(t *testing.T) {
		productService := new(mocks.ProductService)
		h := handlers.NewProductHandler(productService)

		productService.On("ListSubcategories", mock.Anything, "kitchen").
			Return(nil, appErrors.DatabaseError("Failed to fetch subcategories")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/categories/kitchen/subcategories", nil,
			map[string]string{"slug": "kitchen"})
		rr := httptest.NewRecorder()

		h.ListSubcategories().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
