package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/venkatakausik18/snap-n-shop-central/internal/api/middleware"
	"github.com/venkatakausik18/snap-n-shop-central/internal/errors"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	"github.com/venkatakausik18/snap-n-shop-central/internal/session"
	"github.com/venkatakausik18/snap-n-shop-central/internal/utils"
	"github.com/venkatakausik18/snap-n-shop-central/internal/utils/response"
)

// SessionFactory builds the guest session resolver bound to one request.
type SessionFactory interface {
	ForRequest(w http.ResponseWriter, r *http.Request) *session.Resolver
}

func requireClaims(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*models.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		logger.Warn("Unauthorized access attempt: missing user claims")
		response.Error(w, errors.UnauthorizedError("Authentication required"))

		return nil, false
	}

	return claims, true
}

func pathID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	id, err := utils.ParsePathUUID(r, "id")
	if err != nil {
		logger.Warn("Invalid path id", slog.String("error", err.Error()))
		response.Error(w, errors.BadRequestError("Invalid ID format").WithError(err))

		return uuid.Nil, false
	}

	return id, true
}

// cartOwner resolves the signed-in user or, for guests, the session id from
// the cart cookie. When create is false a guest without a cookie gets ok=false.
func cartOwner(w http.ResponseWriter, r *http.Request, sessions SessionFactory, create bool) (models.Owner, bool, error) {
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		return models.UserOwner(claims.UserID), true, nil
	}

	resolver := sessions.ForRequest(w, r)

	if !create {
		id, ok, err := resolver.SessionID(r.Context())
		if err != nil || !ok {
			return models.Owner{}, false, err
		}

		return models.GuestOwner(id), true, nil
	}

	id, err := resolver.GetOrCreateSessionID(r.Context())
	if err != nil {
		return models.Owner{}, false, err
	}

	return models.GuestOwner(id), true, nil
}
