package service_test

import (
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/venkatakausik18/snap-n-shop-central/internal/cache"
	"github.com/venkatakausik18/snap-n-shop-central/internal/config"
	appErrors "github.com/venkatakausik18/snap-n-shop-central/internal/errors"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	"github.com/venkatakausik18/snap-n-shop-central/internal/repositories/mocks"
	service "github.com/venkatakausik18/snap-n-shop-central/internal/services"
)

func newProductService(t *testing.T) (*mocks.ProductRepository, redismock.ClientMock, service.ProductService) {
	t.Helper()

	client, redisMock := redismock.NewClientMock()
	repo := new(mocks.ProductRepository)

	return repo, redisMock, service.NewProductService(repo, cache.NewRedisCache(client, &config.CacheConfig{DefaultTTL: time.Minute}))
}

func TestProductService_GetProductByID(t *testing.T) {
	ctx := t.Context()
	productID := uuid.New()
	key := cache.Key(cache.ProductKeyPrefix, productID.String())
	product := &models.Product{ID: productID, Title: "Ceramic Mug", Price: decimal.RequireFromString("349.50"), Currency: "INR"}

	t.Run("Cache hit skips the database", func(t *testing.T) {
		repo, redisMock, productService := newProductService(t)

		data, err := json.Marshal(product)
		require.NoError(t, err)
		redisMock.ExpectGet(key).SetVal(string(data))

		got, err := productService.GetProductByID(ctx, productID)

		require.NoError(t, err)
		assert.Equal(t, productID, got.ID)
		assert.True(t, product.Price.Equal(got.Price))
		repo.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("Cache miss loads and stores", func(t *testing.T) {
		repo, redisMock, productService := newProductService(t)

		data, err := json.Marshal(product)
		require.NoError(t, err)
		redisMock.ExpectGet(key).SetErr(redis.Nil)
		repo.On("GetProductByID", ctx, productID).Return(product, nil).Once()
		redisMock.ExpectSet(key, data, 10*time.Minute).SetVal("OK")

		got, err := productService.GetProductByID(ctx, productID)

		require.NoError(t, err)
		assert.Equal(t, "Ceramic Mug", got.Title)
		repo.AssertExpectations(t)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("Redis outage falls back to the database", func(t *testing.T) {
		repo, redisMock, productService := newProductService(t)

		redisMock.ExpectGet(key).SetErr(errors.New("connection refused"))
		repo.On("GetProductByID", ctx, productID).Return(product, nil).Once()

		got, err := productService.GetProductByID(ctx, productID)

		require.NoError(t, err)
		assert.Equal(t, productID, got.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		repo, redisMock, productService := newProductService(t)

		redisMock.ExpectGet(key).SetErr(redis.Nil)
		repo.On("GetProductByID", ctx, productID).Return(nil, sql.ErrNoRows).Once()

		got, err := productService.GetProductByID(ctx, productID)

		assert.Nil(t, got)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestProductService_ListProducts(t *testing.T) {
	ctx := t.Context()

	t.Run("Search keeps the repository order", func(t *testing.T) {
		repo, _, productService := newProductService(t)
		filter := models.ProductFilter{Search: "mug", CategorySlug: "kitchen", Page: 2, PageSize: 2}

		products := []models.Product{
			{ID: uuid.New(), Title: "Travel Mug Lid"},
			{ID: uuid.New(), Title: "Coffee Table", Description: "goes well with a mug"},
		}
		repo.On("ListProducts", ctx, filter).Return(products, 4, nil).Once()

		got, total, err := productService.ListProducts(ctx, filter)

		require.NoError(t, err)
		assert.Equal(t, 4, total)
		assert.Equal(t, products, got)
		repo.AssertExpectations(t)
	})

	t.Run("Paging is normalised", func(t *testing.T) {
		repo, _, productService := newProductService(t)

		repo.On("ListProducts", ctx, models.ProductFilter{Page: 1, PageSize: models.DefaultPageSize}).
			Return([]models.Product{}, 0, nil).Once()

		_, _, err := productService.ListProducts(ctx, models.ProductFilter{})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Inverted price range", func(t *testing.T) {
		repo, _, productService := newProductService(t)
		minPrice := decimal.NewFromInt(500)
		maxPrice := decimal.NewFromInt(100)

		_, _, err := productService.ListProducts(ctx, models.ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice})

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
		repo.AssertNotCalled(t, "ListProducts", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		repo, _, productService := newProductService(t)

		repo.On("ListProducts", ctx, mock.Anything).Return(nil, 0, errors.New("timeout")).Once()

		_, _, err := productService.ListProducts(ctx, models.ProductFilter{})

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	})
}

func TestProductService_ListCategories(t *testing.T) {
	ctx := t.Context()
	repo, redisMock, productService := newProductService(t)
	categories := []models.Category{{ID: uuid.New(), Name: "Kitchen", Slug: "kitchen"}}

	data, err := json.Marshal(categories)
	require.NoError(t, err)

	redisMock.ExpectGet(cache.CategoriesKey).SetErr(redis.Nil)
	repo.On("ListCategories", ctx).Return(categories, nil).Once()
	redisMock.ExpectSet(cache.CategoriesKey, data, time.Hour).SetVal("OK")

	got, err := productService.ListCategories(ctx)

	require.NoError(t, err)
	assert.Equal(t, categories, got)
	repo.AssertExpectations(t)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestProductService_ListSubcategories(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.SubcategoriesKeyPrefix, "kitchen")
	subcategories := []models.Subcategory{{ID: uuid.New(), Name: "Mugs", Slug: "mugs"}}

	t.Run("Cache miss loads and stores", func(t *testing.T) {
		repo, redisMock, productService := newProductService(t)

		data, err := json.Marshal(subcategories)
		require.NoError(t, err)

		redisMock.ExpectGet(key).SetErr(redis.Nil)
		repo.On("ListSubcategories", ctx, "kitchen").Return(subcategories, nil).Once()
		redisMock.ExpectSet(key, data, time.Hour).SetVal("OK")

		got, err := productService.ListSubcategories(ctx, "kitchen")

		require.NoError(t, err)
		assert.Equal(t, subcategories, got)
		repo.AssertExpectations(t)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		repo, redisMock, productService := newProductService(t)

		redisMock.ExpectGet(key).SetErr(redis.Nil)
		repo.On("ListSubcategories", ctx, "kitchen").Return(nil, errors.New("timeout")).Once()

		got, err := productService.ListSubcategories(ctx, "kitchen")

		assert.Nil(t, got)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	})
}

func TestProductService_InvalidateProduct(t *testing.T) {
	ctx := t.Context()
	_, redisMock, productService := newProductService(t)
	productID := uuid.New()

	redisMock.ExpectDel(cache.Key(cache.ProductKeyPrefix, productID.String())).SetVal(1)

	productService.InvalidateProduct(ctx, productID)

	assert.NoError(t, redisMock.ExpectationsWereMet())
}
