package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/venkatakausik18/snap-n-shop-central/internal/api/middleware"
	"github.com/venkatakausik18/snap-n-shop-central/internal/cache"
	appErrors "github.com/venkatakausik18/snap-n-shop-central/internal/errors"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	repository "github.com/venkatakausik18/snap-n-shop-central/internal/repositories"
)

const (
	productCacheTTL  = 10 * time.Minute
	categoryCacheTTL = time.Hour
)

type ProductService interface {
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListSubcategories(ctx context.Context, categorySlug string) ([]models.Subcategory, error)
	InvalidateProduct(ctx context.Context, id uuid.UUID)
}

type productService struct {
	repo  repository.ProductRepository
	cache cache.Cache
}

func NewProductService(repo repository.ProductRepository, cache cache.Cache) ProductService {
	return &productService{repo: repo, cache: cache}
}

func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	logger := middleware.LoggerFromContext(ctx)

	product, err := cache.GetOrLoad(ctx, s.cache, logger, cache.Key(cache.ProductKeyPrefix, id.String()), productCacheTTL,
		func(ctx context.Context) (*models.Product, error) {
			return s.repo.GetProductByID(ctx, id)
		})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	return product, nil
}

// ListProducts applies the filter in SQL. Keyword searches come back ordered
// by relevance across all matches, so paging never reshuffles results.
func (s *productService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	filter.Page, filter.PageSize = models.NormalizePage(filter.Page, filter.PageSize)

	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, 0, appErrors.ValidationError("min_price must not exceed max_price")
	}

	products, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, total, nil
}

func (s *productService) ListCategories(ctx context.Context) ([]models.Category, error) {
	logger := middleware.LoggerFromContext(ctx)

	categories, err := cache.GetOrLoad(ctx, s.cache, logger, cache.CategoriesKey, categoryCacheTTL, s.repo.ListCategories)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	return categories, nil
}

func (s *productService) ListSubcategories(ctx context.Context, categorySlug string) ([]models.Subcategory, error) {
	logger := middleware.LoggerFromContext(ctx)

	subcategories, err := cache.GetOrLoad(ctx, s.cache, logger, cache.Key(cache.SubcategoriesKeyPrefix, categorySlug), categoryCacheTTL,
		func(ctx context.Context) ([]models.Subcategory, error) {
			return s.repo.ListSubcategories(ctx, categorySlug)
		})
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch subcategories").WithError(err)
	}

	return subcategories, nil
}

// InvalidateProduct drops the cached copy after its rating changed.
func (s *productService) InvalidateProduct(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, cache.Key(cache.ProductKeyPrefix, id.String())); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to invalidate product cache",
			slog.String("productId", id.String()), slog.Any("error", err))
	}
}
