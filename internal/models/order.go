package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

type PaymentStatus string

type PaymentMethod string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"

	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusProcessing        PaymentStatus = "processing"
	PaymentStatusCompleted         PaymentStatus = "completed"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"

	PaymentMethodCard           PaymentMethod = "card"
	PaymentMethodCashOnDelivery PaymentMethod = "cod"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped,
	OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded,
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusRefunded},
	OrderStatusDelivered:  {OrderStatusRefunded},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Predecessors lists the statuses from which next may be reached, in a fixed
// order.
func Predecessors(next OrderStatus) []OrderStatus {
	from := []OrderStatus{}

	for _, status := range orderStatuses {
		if status.CanTransitionTo(next) {
			from = append(from, status)
		}
	}

	return from
}

func (s OrderStatus) Valid() bool {
	return slices.Contains(orderStatuses, s)
}

// Cancellable reports whether a customer may still cancel the order.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

type ShippingInfo struct {
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	Phone        string `json:"phone,omitempty" validate:"omitempty,max=20"`
	AddressLine1 string `json:"address_line_1" validate:"required"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	PostalCode   string `json:"postal_code" validate:"required"`
	Country      string `json:"country" validate:"required"`
}

// OrderLine is a frozen copy of a cart line at checkout time.
type OrderLine struct {
	ID              uuid.UUID       `json:"id"`
	OrderID         uuid.UUID       `json:"order_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductTitle    string          `json:"product_title"`
	ProductImageURL string          `json:"product_image_url,omitempty"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	Discriminators
	CreatedAt time.Time `json:"created_at"`
}

type Order struct {
	ID               uuid.UUID       `json:"id"`
	OrderNumber      string          `json:"order_number"`
	UserID           uuid.UUID       `json:"user_id"`
	Status           OrderStatus     `json:"status"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	ShippingAmount   decimal.Decimal `json:"shipping_amount"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Currency         string          `json:"currency"`
	ShippingAddress  ShippingInfo    `json:"shipping_address"`
	Notes            string          `json:"notes,omitempty"`
	Items            []OrderLine     `json:"items"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type CheckoutRequest struct {
	ShippingAddress ShippingInfo  `json:"shipping_address" validate:"required"`
	PaymentMethod   PaymentMethod `json:"payment_method" validate:"required,oneof=card cod"`
	Notes           string        `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// CheckoutResponse carries the client secret when the card payment still has
// to be confirmed by the customer.
type CheckoutResponse struct {
	Order        *Order `json:"order"`
	ClientSecret string `json:"client_secret,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled refunded"`
}

// OrderFilter narrows a customer's order history. Search matches the order
// number or the shipping name.
type OrderFilter struct {
	Status   OrderStatus
	Search   string
	Page     int
	PageSize int
}

// PaymentOutcome is what a payment gateway reports for a charge attempt.
type PaymentOutcome string

const (
	PaymentOutcomePending   PaymentOutcome = "pending"
	PaymentOutcomeSucceeded PaymentOutcome = "succeeded"
	PaymentOutcomeFailed    PaymentOutcome = "failed"
)

type PaymentResult struct {
	Outcome      PaymentOutcome
	Reference    string
	ClientSecret string
	FailureCode  string
}
