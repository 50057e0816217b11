package service

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/venkatakausik18/snap-n-shop-central/internal/api/middleware"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	repository "github.com/venkatakausik18/snap-n-shop-central/internal/repositories"
	"github.com/venkatakausik18/snap-n-shop-central/pkg/sendgrid"
)

// NotificationService emails customers about their orders. Delivery failures
// are logged and never surface to the caller.
type NotificationService interface {
	OrderPlaced(ctx context.Context, order *models.Order)
	OrderConfirmed(ctx context.Context, order *models.Order)
}

type notificationService struct {
	userRepo     repository.UserRepository
	emailService sendgrid.EmailService
}

func NewNotificationService(userRepo repository.UserRepository, emailService sendgrid.EmailService) NotificationService {
	return &notificationService{userRepo: userRepo, emailService: emailService}
}

func (n *notificationService) OrderPlaced(ctx context.Context, order *models.Order) {
	n.send(ctx, order, fmt.Sprintf("We received your order %s", order.OrderNumber),
		"Thanks for shopping with us. We will let you know once your order is confirmed.")
}

func (n *notificationService) OrderConfirmed(ctx context.Context, order *models.Order) {
	n.send(ctx, order, fmt.Sprintf("Order %s confirmed", order.OrderNumber),
		"Your payment was received and your order is confirmed.")
}

func (n *notificationService) send(ctx context.Context, order *models.Order, subject, intro string) {
	logger := middleware.LoggerFromContext(ctx).With(slog.String("orderNumber", order.OrderNumber))

	user, err := n.userRepo.GetUserByID(ctx, order.UserID)
	if err != nil {
		logger.Warn("Skipping order email, customer lookup failed", slog.Any("error", err))

		return
	}

	text, htmlBody := renderOrderEmail(user.Name, intro, order)

	msg := &sendgrid.Message{To: user.Email, ToName: user.Name, Subject: subject, Text: text, HTML: htmlBody}

	if err := n.emailService.Send(ctx, msg); err != nil {
		logger.Error("Failed to send order email", slog.Any("error", err))

		return
	}

	logger.Info("Order email sent", slog.String("subject", subject))
}

func renderOrderEmail(name, intro string, order *models.Order) (string, string) {
	var text, body strings.Builder

	fmt.Fprintf(&text, "Hi %s,\n\n%s\n\nOrder %s\n", name, intro, order.OrderNumber)
	fmt.Fprintf(&body, "<p>Hi %s,</p><p>%s</p><h3>Order %s</h3><ul>",
		html.EscapeString(name), html.EscapeString(intro), html.EscapeString(order.OrderNumber))

	for _, line := range order.Items {
		fmt.Fprintf(&text, "  %d x %s  %s %s\n", line.Quantity, line.ProductTitle, line.TotalPrice.StringFixed(2), order.Currency)
		fmt.Fprintf(&body, "<li>%d &times; %s: %s %s</li>", line.Quantity, html.EscapeString(line.ProductTitle),
			line.TotalPrice.StringFixed(2), order.Currency)
	}

	fmt.Fprintf(&text, "\nSubtotal: %s\nTax: %s\nShipping: %s\nTotal: %s %s\n",
		order.Subtotal.StringFixed(2), order.TaxAmount.StringFixed(2), order.ShippingAmount.StringFixed(2),
		order.TotalAmount.StringFixed(2), order.Currency)
	fmt.Fprintf(&body, "</ul><p>Total: <strong>%s %s</strong></p>", order.TotalAmount.StringFixed(2), order.Currency)

	return text.String(), body.String()
}
