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

type OrderHandler struct {
	orderService service.OrderService
	cartService  service.CartService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService, cartService service.CartService) *OrderHandler {
	return &OrderHandler{orderService: orderService, cartService: cartService, validator: validator.New()}
}

// Checkout godoc
//
//	@Summary		Place an order from the current cart
//	@Description	Snapshots the signed-in user's cart into an order, charges it through the selected payment method and empties the cart.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			order	body		models.CheckoutRequest	true	"Shipping address and payment method"
//	@Success		201		{object}	models.CheckoutResponse	"Order created"
//	@Failure		400		{object}	response.ErrorResponse	"Validation error or empty cart"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		402		{object}	response.ErrorResponse	"Payment declined"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Failure		502		{object}	response.ErrorResponse	"Payment provider unavailable"
//	@Security		BearerAuth
//	@Router			/orders [post]
func (h *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		var req models.CheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid checkout input")
			return
		}

		owner := models.UserOwner(claims.UserID)

		cart, err := h.cartService.GetCart(r.Context(), owner)
		if err != nil {
			response.Error(w, err)
			return
		}

		resp, err := h.orderService.CreateOrder(r.Context(), owner, cart.Lines, &req)
		if err != nil {
			logger.Error("Checkout failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		// the order stands even if the cart cannot be emptied
		if err := h.cartService.Clear(r.Context(), owner); err != nil {
			logger.Warn("Failed to clear cart after checkout",
				slog.String("orderId", resp.Order.ID.String()), slog.Any("error", err))
		}

		logger.Info("Order placed", slog.String("orderId", resp.Order.ID.String()),
			slog.String("orderNumber", resp.Order.OrderNumber))
		response.Success(w, http.StatusCreated, resp)
	}
}

// GetOrder godoc
//
//	@Summary		Get an order by ID
//	@Description	Retrieves an order placed by the authenticated user.
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string					true	"Order ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Order			"Order"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid order ID format"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"Order not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders/{id} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
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

		order, err := h.orderService.GetOrder(r.Context(), claims.UserID, id)
		if err != nil {
			logger.Warn("Failed to get order", slog.String("orderId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// ListOrders godoc
//
//	@Summary		List the user's orders
//	@Description	Optional status filter and a case-insensitive search over the order number and shipping name.
//	@Tags			Orders
//	@Produce		json
//	@Param			status		query		string											false	"Order status"
//	@Param			search		query		string											false	"Order number or shipping name"
//	@Param			page		query		int												false	"Page number (default: 1)"					minimum(1)
//	@Param			pageSize	query		int												false	"Items per page (default: 10, max: 100)"	minimum(1)	maximum(100)
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.Order}	"Orders, newest first"
//	@Failure		400			{object}	response.ErrorResponse							"Unknown status"
//	@Failure		401			{object}	response.ErrorResponse							"Authentication required"
//	@Failure		500			{object}	response.ErrorResponse							"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		page, pageSize := models.NormalizePage(utils.QueryInt(r, "page", 1), utils.QueryInt(r, "pageSize", models.DefaultPageSize))

		filter := models.OrderFilter{
			Status:   models.OrderStatus(r.URL.Query().Get("status")),
			Search:   r.URL.Query().Get("search"),
			Page:     page,
			PageSize: pageSize,
		}

		orders, total, err := h.orderService.ListOrders(r.Context(), claims.UserID, filter)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     orders,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}

// CancelOrder godoc
//
//	@Summary		Cancel an order
//	@Description	Cancels an order that has not been processed yet.
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string					true	"Order ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Order			"Cancelled order"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"Order not found"
//	@Failure		409	{object}	response.ErrorResponse	"Order can no longer be cancelled"
//	@Security		BearerAuth
//	@Router			/orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder() http.HandlerFunc {
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

		order, err := h.orderService.CancelOrder(r.Context(), claims.UserID, id)
		if err != nil {
			logger.Warn("Failed to cancel order", slog.String("orderId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// UpdateOrderStatus godoc
//
//	@Summary		Update order status
//	@Description	Admin only. Moves an order along its lifecycle. Only forward transitions and the cancel or refund branches are accepted. A refund also marks the payment refunded.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Order ID (UUID)"	Format(uuid)
//	@Param			status	body		models.UpdateOrderStatusRequest	true	"New status"
//	@Success		200		{object}	models.Order					"Updated order"
//	@Failure		400		{object}	response.ErrorResponse			"Invalid input"
//	@Failure		401		{object}	response.ErrorResponse			"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse			"Admin role required"
//	@Failure		404		{object}	response.ErrorResponse			"Order not found"
//	@Failure		409		{object}	response.ErrorResponse			"Transition not allowed"
//	@Security		BearerAuth
//	@Router			/orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		if _, ok := requireClaims(w, r, logger); !ok {
			return
		}

		id, ok := pathID(w, r, logger)
		if !ok {
			return
		}

		var req models.UpdateOrderStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		order, err := h.orderService.UpdateOrderStatus(r.Context(), id, req.Status)
		if err != nil {
			logger.Warn("Failed to update order status", slog.String("orderId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order status updated", slog.String("orderId", id.String()), slog.String("status", string(order.Status)))
		response.Success(w, http.StatusOK, order)
	}
}
