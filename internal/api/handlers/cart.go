package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/venkatakausik18/snap-n-shop-central/internal/api/middleware"
	"github.com/venkatakausik18/snap-n-shop-central/internal/errors"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	service "github.com/venkatakausik18/snap-n-shop-central/internal/services"
	"github.com/venkatakausik18/snap-n-shop-central/internal/utils"
	"github.com/venkatakausik18/snap-n-shop-central/internal/utils/response"
)

type CartHandler struct {
	cartService    service.CartService
	productService service.ProductService
	sessions       SessionFactory
	validator      *validator.Validate
}

func NewCartHandler(cartService service.CartService, productService service.ProductService, sessions SessionFactory) *CartHandler {
	return &CartHandler{
		cartService:    cartService,
		productService: productService,
		sessions:       sessions,
		validator:      validator.New(),
	}
}

func (h *CartHandler) resolveOwner(w http.ResponseWriter, r *http.Request, logger *slog.Logger, create bool) (models.Owner, bool, bool) {
	owner, ok, err := cartOwner(w, r, h.sessions, create)
	if err != nil {
		logger.Error("Failed to resolve cart owner", slog.Any("error", err))
		response.Error(w, errors.InternalError("Failed to resolve guest session").WithError(err))

		return models.Owner{}, false, false
	}

	return owner, ok, true
}

// GetCart godoc
//
//	@Summary		Get the current cart
//	@Description	Returns the cart of the signed-in user or of the guest session cookie. Authentication is optional.
//	@Tags			Carts
//	@Produce		json
//	@Success		200	{object}	models.Cart				"Current cart"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/carts [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		owner, found, ok := h.resolveOwner(w, r, logger, false)
		if !ok {
			return
		}

		if !found {
			response.Success(w, http.StatusOK, models.NewCart(nil))
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), owner)
		if err != nil {
			logger.Error("Failed to get cart", slog.String("owner", owner.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// AddItem godoc
//
//	@Summary		Add an item to the cart
//	@Description	Adds a product line, or increases the quantity of the line with the same variant, color and size. The unit price is taken from the catalog.
//	@Tags			Carts
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddItemRequest	true	"Product and discriminators"
//	@Success		200		{object}	models.Cart				"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Failure		404		{object}	response.ErrorResponse	"Product not found"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/carts/items [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")
			return
		}

		product, err := h.productService.GetProductByID(r.Context(), req.ProductID)
		if err != nil {
			logger.Warn("Product lookup failed", slog.String("productId", req.ProductID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if !product.IsActive {
			response.Error(w, errors.NotFoundError("Product not found"))
			return
		}

		owner, _, ok := h.resolveOwner(w, r, logger, true)
		if !ok {
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), owner, models.NewCartLine{
			ProductID:      product.ID,
			UnitPrice:      product.Price,
			Quantity:       req.Quantity,
			Discriminators: req.Discriminators,
		})
		if err != nil {
			logger.Error("Failed to add cart item", slog.String("owner", owner.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart", slog.String("owner", owner.String()), slog.String("productId", product.ID.String()))
		response.Success(w, http.StatusOK, cart)
	}
}

// UpdateQuantity godoc
//
//	@Summary		Change a cart line quantity
//	@Description	Sets the quantity of a cart line. Zero or a negative value removes the line.
//	@Tags			Carts
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string							true	"Cart line ID (UUID)"	Format(uuid)
//	@Param			quantity	body		models.UpdateQuantityRequest	true	"New quantity"
//	@Success		200			{object}	models.Cart						"Updated cart"
//	@Failure		400			{object}	response.ErrorResponse			"Validation error"
//	@Failure		404			{object}	response.ErrorResponse			"Cart line not found"
//	@Failure		500			{object}	response.ErrorResponse			"Internal server error"
//	@Router			/carts/items/{id} [put]
func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		lineID, ok := pathID(w, r, logger)
		if !ok {
			return
		}

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		owner, found, ok := h.resolveOwner(w, r, logger, false)
		if !ok {
			return
		}

		if !found {
			response.Error(w, errors.NotFoundError("Cart item not found"))
			return
		}

		cart, err := h.cartService.UpdateQuantity(r.Context(), owner, lineID, *req.Quantity)
		if err != nil {
			logger.Error("Failed to update cart item", slog.String("lineId", lineID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// RemoveItem godoc
//
//	@Summary		Remove a cart line
//	@Tags			Carts
//	@Produce		json
//	@Param			id	path		string					true	"Cart line ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Cart				"Updated cart"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid ID format"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/carts/items/{id} [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		lineID, ok := pathID(w, r, logger)
		if !ok {
			return
		}

		owner, found, ok := h.resolveOwner(w, r, logger, false)
		if !ok {
			return
		}

		if !found {
			response.Success(w, http.StatusOK, models.NewCart(nil))
			return
		}

		cart, err := h.cartService.RemoveItem(r.Context(), owner, lineID)
		if err != nil {
			logger.Error("Failed to remove cart item", slog.String("lineId", lineID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// ClearCart godoc
//
//	@Summary		Empty the cart
//	@Tags			Carts
//	@Produce		json
//	@Success		200	{object}	models.Cart				"Empty cart"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/carts [delete]
func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		owner, found, ok := h.resolveOwner(w, r, logger, false)
		if !ok {
			return
		}

		if found {
			if err := h.cartService.Clear(r.Context(), owner); err != nil {
				logger.Error("Failed to clear cart", slog.String("owner", owner.String()), slog.Any("error", err))
				response.Error(w, err)
				return
			}
		}

		response.Success(w, http.StatusOK, models.NewCart(nil))
	}
}

// MergeCart godoc
//
//	@Summary		Merge the guest cart into the signed-in user's cart
//	@Description	Moves every line of the guest session cookie onto the authenticated user and forgets the session.
//	@Tags			Carts
//	@Produce		json
//	@Success		200	{object}	models.MergeResult		"Merge result with the refreshed cart"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/carts/merge [post]
func (h *CartHandler) MergeCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		result, err := h.cartService.MergeGuestCart(r.Context(), h.sessions.ForRequest(w, r), claims.UserID)
		if err != nil {
			logger.Error("Failed to merge guest cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if result == nil {
			cart, err := h.cartService.GetCart(r.Context(), models.UserOwner(claims.UserID))
			if err != nil {
				response.Error(w, err)
				return
			}

			result = &models.MergeResult{Cart: cart}
		}

		response.Success(w, http.StatusOK, result)
	}
}
