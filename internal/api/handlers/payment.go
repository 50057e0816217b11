package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/venkatakausik18/snap-n-shop-central/internal/api/middleware"
	"github.com/venkatakausik18/snap-n-shop-central/internal/errors"
	service "github.com/venkatakausik18/snap-n-shop-central/internal/services"
	"github.com/venkatakausik18/snap-n-shop-central/internal/utils/response"
)

const maxWebhookBytes = 64 << 10

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// HandleStripeWebhook godoc
//
//	@Summary		Stripe webhook
//	@Description	Receives payment intent and refund events signed by Stripe and updates the matching order.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			Stripe-Signature	header		string					true	"Stripe signature header"
//	@Success		200					{object}	map[string]bool			"Event accepted"
//	@Failure		400					{object}	response.ErrorResponse	"Missing or invalid signature"
//	@Failure		500					{object}	response.ErrorResponse	"Internal server error"
//	@Router			/payments/webhook [post]
func (h *PaymentHandler) HandleStripeWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
		if err != nil {
			logger.Error("Error reading webhook body", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Failed to read request body").WithError(err))
			return
		}

		signature := r.Header.Get("Stripe-Signature")
		if signature == "" {
			logger.Warn("Missing Stripe signature")
			response.Error(w, errors.BadRequestError("Stripe Signature is required"))
			return
		}

		event, err := h.paymentService.ProcessWebhook(r.Context(), payload, signature)
		if err != nil {
			logger.Error("Failed to process payment webhook", slog.String("eventId", event.ID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Payment webhook processed", slog.String("eventId", event.ID), slog.String("type", string(event.Type)))
		response.Success(w, http.StatusOK, map[string]bool{"received": true})
	}
}
