package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/venkatakausik18/snap-n-shop-central/internal/api/middleware"
	"github.com/venkatakausik18/snap-n-shop-central/internal/errors"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	service "github.com/venkatakausik18/snap-n-shop-central/internal/services"
	"github.com/venkatakausik18/snap-n-shop-central/internal/utils"
	"github.com/venkatakausik18/snap-n-shop-central/internal/utils/response"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GetProduct godoc
//
//	@Summary		Get a product by ID
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Product			"Product"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid product ID format"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, ok := pathID(w, r, logger)
		if !ok {
			return
		}

		product, err := h.productService.GetProductByID(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get product", slog.String("productId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if !product.IsActive {
			response.Error(w, errors.NotFoundError("Product not found"))
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// ListProducts godoc
//
//	@Summary		List products
//	@Description	Lists active products with optional category, price and flag filters. A search term orders all matches by relevance.
//	@Tags			Products
//	@Produce		json
//	@Param			category_id		query		string											false	"Category ID (UUID)"
//	@Param			subcategory_id	query		string											false	"Subcategory ID (UUID)"
//	@Param			category		query		string											false	"Category slug"
//	@Param			subcategory		query		string											false	"Subcategory slug"
//	@Param			search			query		string											false	"Search term"
//	@Param			min_price		query		string											false	"Minimum price"
//	@Param			max_price		query		string											false	"Maximum price"
//	@Param			featured		query		bool											false	"Only featured products"
//	@Param			bestseller		query		bool											false	"Only bestsellers"
//	@Param			page			query		int												false	"Page number (default: 1)"					minimum(1)
//	@Param			pageSize		query		int												false	"Items per page (default: 10, max: 100)"	minimum(1)	maximum(100)
//	@Success		200				{object}	models.PaginatedResponse{Data=[]models.Product}	"Products"
//	@Failure		400				{object}	response.ErrorResponse							"Invalid filter"
//	@Failure		500				{object}	response.ErrorResponse							"Internal server error"
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		filter, err := parseProductFilter(r.URL.Query())
		if err != nil {
			logger.Warn("Invalid product filter", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Invalid query parameters").WithDetail(err.Error()))
			return
		}

		filter.Page = utils.QueryInt(r, "page", 1)
		filter.PageSize = utils.QueryInt(r, "pageSize", models.DefaultPageSize)

		products, total, err := h.productService.ListProducts(r.Context(), filter)
		if err != nil {
			logger.Error("Failed to list products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		page, pageSize := models.NormalizePage(filter.Page, filter.PageSize)

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     products,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}

// ListCategories godoc
//
//	@Summary	List categories
//	@Tags		Products
//	@Produce	json
//	@Success	200	{array}		models.Category			"Categories"
//	@Failure	500	{object}	response.ErrorResponse	"Internal server error"
//	@Router		/categories [get]
func (h *ProductHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		categories, err := h.productService.ListCategories(r.Context())
		if err != nil {
			logger.Error("Failed to list categories", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}

// ListSubcategories godoc
//
//	@Summary	List subcategories
//	@Tags		Products
//	@Produce	json
//	@Param		slug	path		string					true	"Category slug"
//	@Success	200		{array}		models.Subcategory		"Active subcategories by name"
//	@Failure	500		{object}	response.ErrorResponse	"Internal server error"
//	@Router		/categories/{slug}/subcategories [get]
func (h *ProductHandler) ListSubcategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		slug := r.PathValue("slug")

		subcategories, err := h.productService.ListSubcategories(r.Context(), slug)
		if err != nil {
			logger.Error("Failed to list subcategories", slog.String("category", slug), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, subcategories)
	}
}

func parseProductFilter(q url.Values) (models.ProductFilter, error) {
	var filter models.ProductFilter

	if raw := q.Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.BadRequestError("invalid category_id")
		}

		filter.CategoryID = &id
	}

	if raw := q.Get("subcategory_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.BadRequestError("invalid subcategory_id")
		}

		filter.SubcategoryID = &id
	}

	for name, dest := range map[string]**decimal.Decimal{"min_price": &filter.MinPrice, "max_price": &filter.MaxPrice} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}

		price, err := decimal.NewFromString(raw)
		if err != nil || price.IsNegative() {
			return filter, errors.BadRequestError("invalid " + name)
		}

		*dest = &price
	}

	for name, dest := range map[string]*bool{"featured": &filter.Featured, "bestseller": &filter.Bestseller} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}

		flag, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errors.BadRequestError("invalid " + name)
		}

		*dest = flag
	}

	filter.CategorySlug = q.Get("category")
	filter.SubcategorySlug = q.Get("subcategory")
	filter.Search = q.Get("search")

	return filter, nil
}
