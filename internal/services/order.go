package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/venkatakausik18/snap-n-shop-central/internal/api/middleware"
	"github.com/venkatakausik18/snap-n-shop-central/internal/config"
	appErrors "github.com/venkatakausik18/snap-n-shop-central/internal/errors"
	"github.com/venkatakausik18/snap-n-shop-central/internal/metrics"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	repository "github.com/venkatakausik18/snap-n-shop-central/internal/repositories"
)

type OrderService interface {
	CreateOrder(ctx context.Context, owner models.Owner, lines []models.CartLine, req *models.CheckoutRequest) (*models.CheckoutResponse, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, filter models.OrderFilter) ([]models.Order, int, error)
	CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error)
}

// Pricing holds the checkout rates as exact decimals.
type Pricing struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShipping          decimal.Decimal
	Currency              string
}

func PricingFromConfig(cfg config.Pricing) Pricing {
	return Pricing{
		TaxRate:               decimal.NewFromFloat(cfg.TaxRate),
		FreeShippingThreshold: decimal.NewFromFloat(cfg.FreeShippingThreshold),
		FlatShipping:          decimal.NewFromFloat(cfg.FlatShipping),
		Currency:              cfg.Currency,
	}
}

// Totals are the amounts stamped on an order header.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Price computes order totals from cart lines. Shipping is waived only when
// the subtotal is strictly above the threshold.
func (p Pricing) Price(lines []models.CartLine) Totals {
	subtotal, _ := models.CartTotals(lines)

	shipping := p.FlatShipping
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(p.TaxRate).Round(2)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Discount: decimal.Zero,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}

const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewOrderNumber returns ORD-<unix millis>-<6 upper-case alphanumerics>.
func NewOrderNumber(now time.Time) (string, error) {
	suffix := make([]byte, 6)
	limit := big.NewInt(int64(len(orderNumberAlphabet)))

	for i := range suffix {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}

		suffix[i] = orderNumberAlphabet[n.Int64()]
	}

	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix), nil
}

type orderService struct {
	orderRepo repository.OrderRepository
	gateway   PaymentGateway
	notifier  NotificationService
	pricing   Pricing
	now       func() time.Time
}

func NewOrderService(orderRepo repository.OrderRepository, gateway PaymentGateway, notifier NotificationService, pricing Pricing) OrderService {
	return &orderService{orderRepo: orderRepo, gateway: gateway, notifier: notifier, pricing: pricing, now: time.Now}
}

// snapshot copies the cart lines so later catalog or cart edits never reach the order.
func snapshot(orderID uuid.UUID, lines []models.CartLine, now time.Time) []models.OrderLine {
	items := make([]models.OrderLine, 0, len(lines))

	for _, line := range lines {
		item := models.OrderLine{
			ID:             uuid.New(),
			OrderID:        orderID,
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			TotalPrice:     line.LineTotal(),
			Discriminators: line.Discriminators,
			CreatedAt:      now,
		}

		if line.Product != nil {
			item.ProductTitle = line.Product.Title
			item.ProductImageURL = line.Product.ImageURL
		}

		items = append(items, item)
	}

	return items
}

// CreateOrder freezes lines into an order, persists header and lines together
// and then asks the payment gateway to charge it. The caller clears the cart
// only after a successful return.
func (s *orderService) CreateOrder(ctx context.Context, owner models.Owner, lines []models.CartLine, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {
	logger := middleware.LoggerFromContext(ctx)

	if owner.IsGuest() {
		return nil, appErrors.AuthRequiredError("Sign in to place an order")
	}

	if len(lines) == 0 {
		return nil, appErrors.ValidationError("Cannot create an order from an empty cart")
	}

	now := s.now()

	orderNumber, err := NewOrderNumber(now)
	if err != nil {
		return nil, appErrors.InternalError("Failed to generate order number").WithError(err)
	}

	totals := s.pricing.Price(lines)
	orderID := uuid.New()

	order := &models.Order{
		ID:              orderID,
		OrderNumber:     orderNumber,
		UserID:          *owner.UserID,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   req.PaymentMethod,
		Subtotal:        totals.Subtotal,
		TaxAmount:       totals.Tax,
		ShippingAmount:  totals.Shipping,
		DiscountAmount:  totals.Discount,
		TotalAmount:     totals.Total,
		Currency:        s.pricing.Currency,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
		Items:           snapshot(orderID, lines, now),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, repository.ErrPartialOrder) {
			logger.Error("Order header may be stored without lines", slog.String("orderNumber", orderNumber), slog.Any("error", err))

			return nil, appErrors.PartialOrderError("Order could not be completed").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to create order").WithError(err)
	}

	metrics.RecordOrderCreated(string(order.PaymentMethod))

	result, err := s.gateway.Charge(ctx, order)
	if err != nil {
		// the provider may still have created the intent, so the order stays
		// pending for the webhook or a customer cancel
		logger.Error("Payment gateway error, order left pending", slog.String("orderNumber", orderNumber), slog.Any("error", err))
		metrics.RecordPaymentOutcome("error")

		if appErr, ok := appErrors.IsAppError(err); ok {
			return nil, appErr
		}

		return nil, appErrors.ThirdPartyError("Payment could not be processed").WithError(err)
	}

	metrics.RecordPaymentOutcome(string(result.Outcome))

	switch result.Outcome {
	case models.PaymentOutcomeSucceeded:
		if err := s.recordPayment(ctx, order, models.PaymentStatusCompleted, models.OrderStatusConfirmed, result.Reference); err != nil {
			return nil, err
		}

		s.notifier.OrderConfirmed(ctx, order)

	case models.PaymentOutcomeFailed:
		_ = s.recordPayment(ctx, order, models.PaymentStatusFailed, models.OrderStatusCancelled, result.Reference)

		detail := "The payment was declined"
		if result.FailureCode != "" {
			detail = "The payment was declined: " + result.FailureCode
		}

		return nil, appErrors.PaymentFailedError("Payment failed").WithDetail(detail)

	default:
		if result.Reference != "" {
			if err := s.recordPayment(ctx, order, models.PaymentStatusPending, models.OrderStatusPending, result.Reference); err != nil {
				return nil, err
			}
		}

		s.notifier.OrderPlaced(ctx, order)
	}

	logger.Info("Order created", slog.String("orderId", order.ID.String()), slog.String("orderNumber", orderNumber),
		slog.String("status", string(order.Status)), slog.String("total", order.TotalAmount.StringFixed(2)))

	return &models.CheckoutResponse{Order: order, ClientSecret: result.ClientSecret}, nil
}

func (s *orderService) recordPayment(ctx context.Context, order *models.Order, paymentStatus models.PaymentStatus, status models.OrderStatus, reference string) error {
	if err := s.orderRepo.UpdatePayment(ctx, order.ID, paymentStatus, status, reference); err != nil {
		middleware.LoggerFromContext(ctx).Error("Failed to record payment outcome",
			slog.String("orderId", order.ID.String()), slog.Any("error", err))

		return appErrors.DatabaseError("Failed to update order payment").WithError(err)
	}

	order.PaymentStatus = paymentStatus
	order.Status = status

	if reference != "" {
		order.PaymentReference = reference
	}

	return nil
}

func (s *orderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	// another user's order is reported as missing
	if order.UserID != userID {
		return nil, appErrors.NotFoundError("Order not found")
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID, filter models.OrderFilter) ([]models.Order, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, appErrors.ValidationError("Unknown order status: " + string(filter.Status))
	}

	filter.Page, filter.PageSize = models.NormalizePage(filter.Page, filter.PageSize)

	orders, total, err := s.orderRepo.ListOrdersByUser(ctx, userID, filter)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

func (s *orderService) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.Cancellable() {
		return nil, appErrors.InvalidTransitionError(fmt.Sprintf("Order in status %s can no longer be cancelled", order.Status))
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, models.OrderStatusCancelled); err != nil {
		return nil, appErrors.DatabaseError("Failed to cancel order").WithError(err)
	}

	order.Status = models.OrderStatusCancelled

	middleware.LoggerFromContext(ctx).Info("Order cancelled by customer", slog.String("orderId", orderID.String()))

	return order, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, appErrors.InvalidTransitionError(fmt.Sprintf("Cannot move order from %s to %s", order.Status, status))
	}

	// a refund also refunds the payment
	if status == models.OrderStatusRefunded {
		if err := s.recordPayment(ctx, order, models.PaymentStatusRefunded, status, ""); err != nil {
			return nil, err
		}
	} else {
		if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, status); err != nil {
			return nil, appErrors.DatabaseError("Failed to update order status").WithError(err)
		}

		order.Status = status
	}

	middleware.LoggerFromContext(ctx).Info("Order status updated", slog.String("orderId", orderID.String()),
		slog.String("status", string(order.Status)), slog.String("paymentStatus", string(order.PaymentStatus)))

	return order, nil
}
