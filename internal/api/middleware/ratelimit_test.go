package middleware_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/venkatakausik18/snap-n-shop-central/internal/api/middleware"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_Limit(t *testing.T) {
	t.Run("Burst Exhausted Per IP", func(t *testing.T) {
		limiter := middleware.NewRateLimiter(0.001, 2)
		handler := limiter.Limit(okHandler())

		codes := make([]int, 0, 3)

		for range 3 {
			req := withTestLogger(httptest.NewRequest(http.MethodPost, "/carts/items", nil))
			req.RemoteAddr = "203.0.113.7:51234"
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)
			codes = append(codes, rr.Code)

			if rr.Code == http.StatusTooManyRequests {
				assert.Equal(t, "1", rr.Header().Get("Retry-After"))
			}
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("Separate Buckets Per Client", func(t *testing.T) {
		limiter := middleware.NewRateLimiter(0.001, 1)
		handler := limiter.Limit(okHandler())

		for _, addr := range []string{"198.51.100.1:1000", "198.51.100.2:1000"} {
			req := withTestLogger(httptest.NewRequest(http.MethodPost, "/carts/items", nil))
			req.RemoteAddr = addr
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
		}
	})

	t.Run("Authenticated User Keyed By ID", func(t *testing.T) {
		limiter := middleware.NewRateLimiter(0.001, 1)
		handler := limiter.Limit(okHandler())
		claims := &models.Claims{UserID: uuid.New()}

		codes := make([]int, 0, 2)

		// same user from two addresses shares one bucket
		for _, addr := range []string{"198.51.100.1:1000", "198.51.100.2:1000"} {
			req := withTestLogger(httptest.NewRequest(http.MethodPost, "/orders", nil))
			req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
			req.RemoteAddr = addr
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)
			codes = append(codes, rr.Code)
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
	})
}

func TestRateLimiter_Run(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		limiter.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}

func TestLogging(t *testing.T) {
	t.Run("Generates Correlation ID", func(t *testing.T) {
		var sawLogger bool

		handler := middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, sawLogger = r.Context().Value(middleware.LoggerKey).(*slog.Logger)
			w.WriteHeader(http.StatusTeapot)
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/carts", nil))

		assert.Equal(t, http.StatusTeapot, rr.Code)
		assert.True(t, sawLogger)
		_, err := uuid.Parse(rr.Header().Get("X-Request-ID"))
		assert.NoError(t, err)
	})

	t.Run("Keeps Incoming Correlation ID", func(t *testing.T) {
		handler := middleware.Logging(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/carts", nil)
		req.Header.Set("X-Request-ID", "req-42")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, "req-42", rr.Header().Get("X-Request-ID"))
	})
}
