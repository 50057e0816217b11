package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	stripego "github.com/stripe/stripe-go/v81"
	"github.com/venkatakausik18/snap-n-shop-central/internal/api/middleware"
	appErrors "github.com/venkatakausik18/snap-n-shop-central/internal/errors"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	repository "github.com/venkatakausik18/snap-n-shop-central/internal/repositories"
	"github.com/venkatakausik18/snap-n-shop-central/pkg/stripe"
)

// PaymentGateway charges a freshly persisted order.
type PaymentGateway interface {
	Charge(ctx context.Context, order *models.Order) (*models.PaymentResult, error)
}

// Gateways routes a charge to the gateway registered for the order's payment method.
type Gateways map[models.PaymentMethod]PaymentGateway

func (g Gateways) Charge(ctx context.Context, order *models.Order) (*models.PaymentResult, error) {
	gateway, ok := g[order.PaymentMethod]
	if !ok {
		return nil, appErrors.ValidationError("Unsupported payment method: " + string(order.PaymentMethod))
	}

	return gateway.Charge(ctx, order)
}

// CashOnDeliveryGateway never collects money up front.
type CashOnDeliveryGateway struct{}

func (CashOnDeliveryGateway) Charge(context.Context, *models.Order) (*models.PaymentResult, error) {
	return &models.PaymentResult{Outcome: models.PaymentOutcomePending}, nil
}

type stripeGateway struct {
	client  stripe.Client
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[*stripe.PaymentIntent]
}

func NewStripeGateway(client stripe.Client, timeout time.Duration) PaymentGateway {
	breaker := gobreaker.NewCircuitBreaker[*stripe.PaymentIntent](gobreaker.Settings{
		Name:        "stripe",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", slog.String("breaker", name),
				slog.String("from", from.String()), slog.String("to", to.String()))
		},
	})

	return &stripeGateway{client: client, timeout: timeout, breaker: breaker}
}

// MinorUnits converts an amount to the smallest currency unit Stripe expects.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func (g *stripeGateway) Charge(ctx context.Context, order *models.Order) (*models.PaymentResult, error) {
	intent, err := g.breaker.Execute(func() (*stripe.PaymentIntent, error) {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()

		return g.client.CreatePaymentIntent(callCtx, &stripe.PaymentIntentRequest{
			Amount:      MinorUnits(order.TotalAmount),
			Currency:    strings.ToLower(order.Currency),
			Description: "Order " + order.OrderNumber,
			OrderNumber: order.OrderNumber,
		})
	})
	if err != nil {
		return nil, appErrors.ThirdPartyError("Payment provider unavailable").WithError(err)
	}

	return intentResult(intent), nil
}

func intentResult(intent *stripe.PaymentIntent) *models.PaymentResult {
	result := &models.PaymentResult{Reference: intent.ID, ClientSecret: intent.ClientSecret}

	switch intent.Status {
	case stripego.PaymentIntentStatusSucceeded:
		result.Outcome = models.PaymentOutcomeSucceeded
	case stripego.PaymentIntentStatusCanceled:
		result.Outcome = models.PaymentOutcomeFailed
	default:
		result.Outcome = models.PaymentOutcomePending
	}

	if intent.LastPaymentError != nil {
		result.Outcome = models.PaymentOutcomeFailed
		result.FailureCode = string(intent.LastPaymentError.Code)
	}

	return result
}

// PaymentService finishes card payments from Stripe webhook events.
type PaymentService interface {
	ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error)
}

type paymentService struct {
	orderRepo    repository.OrderRepository
	stripeClient stripe.Client
	notifier     NotificationService
}

func NewPaymentService(orderRepo repository.OrderRepository, stripeClient stripe.Client, notifier NotificationService) PaymentService {
	return &paymentService{orderRepo: orderRepo, stripeClient: stripeClient, notifier: notifier}
}

type webhookTransition struct {
	paymentStatus models.PaymentStatus
	status        models.OrderStatus
	// object field holding the payment intent id
	referenceField string
}

var webhookTransitions = map[stripego.EventType]webhookTransition{
	stripego.EventTypePaymentIntentSucceeded:     {models.PaymentStatusCompleted, models.OrderStatusConfirmed, "id"},
	stripego.EventTypePaymentIntentPaymentFailed: {models.PaymentStatusFailed, models.OrderStatusCancelled, "id"},
	stripego.EventTypeChargeRefunded:             {models.PaymentStatusRefunded, models.OrderStatusRefunded, "payment_intent"},
}

func (s *paymentService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error) {
	logger := middleware.LoggerFromContext(ctx)

	event, err := s.stripeClient.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return stripe.Event{}, appErrors.BadRequestError("Webhook signature verification failed").WithError(err)
	}

	transition, ok := webhookTransitions[event.Type]
	if !ok {
		logger.Debug("Ignoring webhook event", slog.String("type", string(event.Type)))

		return event, nil
	}

	if event.Data == nil {
		return event, appErrors.BadRequestError("Webhook event has no data")
	}

	reference, _ := event.Data.Object[transition.referenceField].(string)
	if reference == "" {
		return event, appErrors.BadRequestError("Missing payment intent ID in webhook")
	}

	orderID, err := s.orderRepo.UpdateByPaymentReference(ctx, reference, transition.paymentStatus, transition.status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Warn("Webhook for unknown payment reference", slog.String("reference", reference))

			return event, nil
		}

		if errors.Is(err, repository.ErrTransitionRejected) {
			logger.Warn("Webhook transition rejected, order left unchanged",
				slog.String("reference", reference), slog.String("type", string(event.Type)),
				slog.String("error", err.Error()))

			return event, nil
		}

		return event, appErrors.DatabaseError("Failed to update order payment").WithError(err)
	}

	logger.Info("Order payment updated from webhook",
		slog.String("orderId", orderID.String()), slog.String("paymentStatus", string(transition.paymentStatus)))

	if transition.status == models.OrderStatusConfirmed && s.notifier != nil {
		if order, err := s.orderRepo.GetOrderByID(ctx, orderID); err == nil {
			s.notifier.OrderConfirmed(ctx, order)
		}
	}

	return event, nil
}
