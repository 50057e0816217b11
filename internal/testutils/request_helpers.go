package testutils

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/google/uuid"
	"github.com/venkatakausik18/snap-n-shop-central/internal/api/middleware"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	"github.com/venkatakausik18/snap-n-shop-central/internal/session"
)

func newRequest(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return req.WithContext(context.WithValue(req.Context(), middleware.LoggerKey, logger))
}

// CreateTestRequestWithContext builds a request as the auth middleware would
// leave it for a signed-in user.
func CreateTestRequestWithContext(method, target string, body io.Reader, userID uuid.UUID, pathParams map[string]string) *http.Request {
	req := newRequest(method, target, body, pathParams)

	claims := &models.Claims{UserID: userID, Email: "shopper@example.com"}

	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
}

func CreateTestRequestWithoutContext(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	return newRequest(method, target, body, pathParams)
}

// CreateGuestRequest builds an anonymous request carrying the guest cart cookie.
func CreateGuestRequest(method, target string, body io.Reader, sessionID string, pathParams map[string]string) *http.Request {
	req := newRequest(method, target, body, pathParams)
	req.AddCookie(&http.Cookie{Name: session.DefaultKey, Value: sessionID})

	return req
}
