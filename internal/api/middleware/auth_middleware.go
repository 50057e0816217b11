package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/venkatakausik18/snap-n-shop-central/internal/errors"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	"github.com/venkatakausik18/snap-n-shop-central/internal/utils/response"
)

type contextKey uuid.UUID

var UserContextKey = contextKey(uuid.New())

type AuthMiddleware struct {
	jwtKey []byte
}

func NewAuthMiddleware(jwtKey []byte) *AuthMiddleware {

	return &AuthMiddleware{jwtKey: jwtKey}

}

// Authenticate rejects requests without a valid bearer token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authorization header is required"))
			return
		}

		claims, appErr := m.parse(logger, authHeader)
		if appErr != nil {
			response.Error(w, appErr)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), logger, claims)))
	}
}

// OptionalAuthenticate attaches the caller's claims when a valid bearer token
// is present and lets guests through otherwise. A malformed or expired token
// is still rejected so that a signed-in user never silently falls back to a
// guest cart.
func (m *AuthMiddleware) OptionalAuthenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, appErr := m.parse(logger, authHeader)
		if appErr != nil {
			response.Error(w, appErr)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), logger, claims)))
	}
}

func (m *AuthMiddleware) parse(logger *slog.Logger, authHeader string) (*models.Claims, *errors.AppError) {

	// "Bearer <token>"
	tokenParts := strings.Split(authHeader, " ")

	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		logger.Warn("Invalid authorization header format")
		return nil, errors.UnauthorizedError("Invalid authorization format")
	}

	claims := &models.Claims{}

	token, err := jwt.ParseWithClaims(tokenParts[1], claims, func(t *jwt.Token) (any, error) {
		return m.jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		logger.Warn("JWT validation failed", slog.Any("error", err))
		return nil, errors.UnauthorizedError("Invalid or expired token")
	}

	if claims.UserID == uuid.Nil {
		logger.Warn("Token without subject")
		return nil, errors.UnauthorizedError("Invalid token")
	}

	return claims, nil
}

func withClaims(ctx context.Context, logger *slog.Logger, claims *models.Claims) context.Context {
	ctx = context.WithValue(ctx, UserContextKey, claims)

	requestScopedLogger := logger.With(slog.String("userId", claims.UserID.String()))
	ctx = context.WithValue(ctx, LoggerKey, requestScopedLogger)

	requestScopedLogger.Debug("User authenticated")

	return ctx
}

// RequireRole admits only callers whose token carries one of roles. It runs
// after Authenticate.
func RequireRole(roles ...models.Role) func(http.Handler) http.HandlerFunc {
	return func(next http.Handler) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			logger := LoggerFromContext(r.Context())

			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				logger.Warn("Role check without authenticated user")
				response.Error(w, errors.UnauthorizedError("Authentication required"))
				return
			}

			if !slices.Contains(roles, claims.Role) {
				logger.Warn("Forbidden: role not allowed", slog.String("role", string(claims.Role)))
				response.Error(w, errors.ForbiddenError("You do not have permission to perform this action"))
				return
			}

			next.ServeHTTP(w, r)
		}
	}
}

// ClaimsFromContext returns the authenticated caller, if any.
func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)

	return claims, ok && claims != nil
}
