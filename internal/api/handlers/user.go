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

type UserHandler struct {
	userService service.UserService
	cartService service.CartService
	sessions    SessionFactory
	validator   *validator.Validate
}

func NewUserHandler(userService service.UserService, cartService service.CartService, sessions SessionFactory) *UserHandler {
	return &UserHandler{
		userService: userService,
		cartService: cartService,
		sessions:    sessions,
		validator:   validator.New(),
	}
}

// Register godoc
//
//	@Summary		Register a new user
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			user	body		models.RegisterRequest	true	"Registration details"
//	@Success		201		{object}	models.User				"Created user"
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Failure		409		{object}	response.ErrorResponse	"Email already registered"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/users/register [post]
func (h *UserHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.RegisterRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid registration input")
			return
		}

		user, err := h.userService.Register(r.Context(), &req)
		if err != nil {
			logger.Error("User registration failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, user)
	}
}

// Login godoc
//
//	@Summary		Log in
//	@Description	Issues a bearer token. A guest cart held by the session cookie is merged into the user's cart.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.LoginRequest		true	"Email and password"
//	@Success		200			{object}	models.LoginResponse	"Token and merged cart"
//	@Failure		400			{object}	response.ErrorResponse	"Validation error"
//	@Failure		401			{object}	response.ErrorResponse	"Invalid email or password"
//	@Failure		429			{object}	response.ErrorResponse	"Too many login attempts"
//	@Router			/users/login [post]
func (h *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.LoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid login input")
			return
		}

		resp, err := h.userService.Login(r.Context(), &req)
		if err != nil {
			logger.Warn("Login failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		// a failed merge leaves the guest cart in place for a later attempt
		merged, err := h.cartService.MergeGuestCart(r.Context(), h.sessions.ForRequest(w, r), resp.UserID)
		if err != nil {
			logger.Error("Guest cart merge on login failed", slog.String("userId", resp.UserID.String()), slog.Any("error", err))
		}

		resp.Cart = merged

		response.Success(w, http.StatusOK, resp)
	}
}

// Profile godoc
//
//	@Summary	Get the signed-in user's profile
//	@Tags		Users
//	@Produce	json
//	@Success	200	{object}	models.User				"User"
//	@Failure	401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure	404	{object}	response.ErrorResponse	"User not found"
//	@Security	BearerAuth
//	@Router		/users/profile [get]
func (h *UserHandler) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		user, err := h.userService.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			logger.Warn("Failed to load profile", slog.String("userId", claims.UserID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, user)
	}
}
