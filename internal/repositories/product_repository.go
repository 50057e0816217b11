package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	"github.com/venkatakausik18/snap-n-shop-central/internal/search"
	"github.com/venkatakausik18/snap-n-shop-central/internal/utils"
)

type ProductRepository interface {
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListSubcategories(ctx context.Context, categorySlug string) ([]models.Subcategory, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `p.id, p.category_id, p.subcategory_id, p.title, COALESCE(p.description, ''), COALESCE(p.brand, ''),
			COALESCE(p.sku, ''), p.price, p.original_price, p.currency, p.stock_quantity, p.images, p.tags,
			p.variants, p.colors, p.sizes, p.rating, p.review_count, p.is_active, p.is_featured, p.is_bestseller,
			p.created_at, p.updated_at`

func scanProduct(row rowScanner, product *models.Product) error {
	var (
		subcategoryID uuid.NullUUID
		originalPrice decimal.NullDecimal
	)

	err := row.Scan(&product.ID, &product.CategoryID, &subcategoryID, &product.Title, &product.Description, &product.Brand,
		&product.SKU, &product.Price, &originalPrice, &product.Currency, &product.StockQuantity,
		pq.Array(&product.Images), pq.Array(&product.Tags), pq.Array(&product.Variants), pq.Array(&product.Colors),
		pq.Array(&product.Sizes), &product.Rating, &product.ReviewCount, &product.IsActive, &product.IsFeatured,
		&product.IsBestseller, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return err
	}

	if subcategoryID.Valid {
		product.SubcategoryID = &subcategoryID.UUID
	}

	if originalPrice.Valid {
		product.OriginalPrice = &originalPrice.Decimal
	}

	return nil
}

// GetProductByID returns sql.ErrNoRows for unknown or inactive products.
func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + `
		FROM products p
		WHERE p.id = $1 AND p.is_active = TRUE`

	product := &models.Product{}

	if err := scanProduct(r.DB.QueryRowContext(dbCtx, query, id), product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	return product, nil
}

// BuildProductFilter renders the WHERE clause and its positional arguments.
func BuildProductFilter(filter models.ProductFilter) (string, []any) {
	conditions := []string{"p.is_active = TRUE"}
	args := []any{}

	add := func(format string, values ...any) {
		placeholders := make([]any, len(values))
		for i, v := range values {
			args = append(args, v)
			placeholders[i] = len(args)
		}
		conditions = append(conditions, fmt.Sprintf(format, placeholders...))
	}

	if filter.CategoryID != nil {
		add("p.category_id = $%d", *filter.CategoryID)
	}

	if filter.SubcategoryID != nil {
		add("p.subcategory_id = $%d", *filter.SubcategoryID)
	}

	if filter.CategorySlug != "" {
		add("p.category_id = (SELECT id FROM categories WHERE slug = $%d)", filter.CategorySlug)
	}

	if filter.SubcategorySlug != "" {
		add("p.subcategory_id = (SELECT id FROM subcategories WHERE slug = $%d)", filter.SubcategorySlug)
	}

	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := "%" + search.EscapeLike(term) + "%"
		args = append(args, pattern, pattern, strings.ToLower(term))
		conditions = append(conditions, fmt.Sprintf("(p.title ILIKE $%d OR p.brand ILIKE $%d OR %s)",
			len(args)-2, len(args)-1, search.TagMatch(len(args))))
	}

	if filter.MinPrice != nil {
		add("p.price >= $%d", *filter.MinPrice)
	}

	if filter.MaxPrice != nil {
		add("p.price <= $%d", *filter.MaxPrice)
	}

	if filter.Featured {
		conditions = append(conditions, "p.is_featured = TRUE")
	}

	if filter.Bestseller {
		conditions = append(conditions, "p.is_bestseller = TRUE")
	}

	return strings.Join(conditions, " AND "), args
}

// BuildProductOrder renders the ORDER BY clause, appending any arguments it
// needs to args. A search sorts the whole result set by relevance before the
// default ordering applies.
func BuildProductOrder(filter models.ProductFilter, args []any) (string, []any) {
	order := "p.is_featured DESC, p.is_bestseller DESC, p.rating DESC, p.created_at DESC"

	relevance := search.Relevance(filter.Search, func(value any) int {
		args = append(args, value)
		return len(args)
	})
	if relevance == "" {
		return order, args
	}

	return relevance + " DESC, p.rating DESC, " + order, args
}

func (r *productRepository) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	where, args := BuildProductFilter(filter)

	var total int

	countQuery := `SELECT COUNT(*) FROM products p WHERE ` + where
	if err := r.DB.QueryRowContext(dbCtx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	page, size := models.NormalizePage(filter.Page, filter.PageSize)
	offset := (page - 1) * size

	order, args := BuildProductOrder(filter, args)

	query := fmt.Sprintf(`SELECT %s
		FROM products p
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`, productColumns, where, order, len(args)+1, len(args)+2)

	rows, err := r.DB.QueryContext(dbCtx, query, append(args, size, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}

	for rows.Next() {
		var product models.Product

		if err := scanProduct(rows, &product); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, total, nil
}

func (r *productRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, name, slug, COALESCE(description, ''), COALESCE(image_url, ''), created_at, updated_at
		FROM categories
		WHERE is_active = TRUE
		ORDER BY name`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}

	for rows.Next() {
		var c models.Category

		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}

		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// ListSubcategories returns the active subcategories of an active category,
// by name. An unknown slug yields an empty list.
func (r *productRepository) ListSubcategories(ctx context.Context, categorySlug string) ([]models.Subcategory, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT s.id, s.category_id, s.name, s.slug, COALESCE(s.description, ''), COALESCE(s.image_url, ''),
			s.created_at, s.updated_at
		FROM subcategories s
		JOIN categories c ON c.id = s.category_id
		WHERE c.slug = $1 AND c.is_active = TRUE AND s.is_active = TRUE
		ORDER BY s.name`

	rows, err := r.DB.QueryContext(dbCtx, query, categorySlug)
	if err != nil {
		return nil, fmt.Errorf("failed to list subcategories: %w", err)
	}
	defer rows.Close()

	subcategories := []models.Subcategory{}

	for rows.Next() {
		var s models.Subcategory

		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Slug, &s.Description, &s.ImageURL,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subcategory: %w", err)
		}

		subcategories = append(subcategories, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subcategories: %w", err)
	}

	return subcategories, nil
}
