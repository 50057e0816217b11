// Package mocks holds testify mocks for the service interfaces used by the HTTP handlers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	service "github.com/venkatakausik18/snap-n-shop-central/internal/services"
	"github.com/venkatakausik18/snap-n-shop-central/pkg/stripe"
)

type CartService struct {
	mock.Mock
}

func (m *CartService) GetCart(ctx context.Context, owner models.Owner) (*models.Cart, error) {
	args := m.Called(ctx, owner)

	cart, _ := args.Get(0).(*models.Cart)

	return cart, args.Error(1)
}

func (m *CartService) AddItem(ctx context.Context, owner models.Owner, line models.NewCartLine) (*models.Cart, error) {
	args := m.Called(ctx, owner, line)

	cart, _ := args.Get(0).(*models.Cart)

	return cart, args.Error(1)
}

func (m *CartService) UpdateQuantity(ctx context.Context, owner models.Owner, lineID uuid.UUID, quantity int) (*models.Cart, error) {
	args := m.Called(ctx, owner, lineID, quantity)

	cart, _ := args.Get(0).(*models.Cart)

	return cart, args.Error(1)
}

func (m *CartService) RemoveItem(ctx context.Context, owner models.Owner, lineID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, owner, lineID)

	cart, _ := args.Get(0).(*models.Cart)

	return cart, args.Error(1)
}

func (m *CartService) Clear(ctx context.Context, owner models.Owner) error {
	return m.Called(ctx, owner).Error(0)
}

func (m *CartService) MergeGuestCart(ctx context.Context, session service.GuestSession, userID uuid.UUID) (*models.MergeResult, error) {
	args := m.Called(ctx, session, userID)

	result, _ := args.Get(0).(*models.MergeResult)

	return result, args.Error(1)
}

type OrderService struct {
	mock.Mock
}

func (m *OrderService) CreateOrder(ctx context.Context, owner models.Owner, lines []models.CartLine, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {
	args := m.Called(ctx, owner, lines, req)

	resp, _ := args.Get(0).(*models.CheckoutResponse)

	return resp, args.Error(1)
}

func (m *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, userID, orderID)

	order, _ := args.Get(0).(*models.Order)

	return order, args.Error(1)
}

func (m *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, filter models.OrderFilter) ([]models.Order, int, error) {
	args := m.Called(ctx, userID, filter)

	orders, _ := args.Get(0).([]models.Order)

	return orders, args.Int(1), args.Error(2)
}

func (m *OrderService) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, userID, orderID)

	order, _ := args.Get(0).(*models.Order)

	return order, args.Error(1)
}

func (m *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, orderID, status)

	order, _ := args.Get(0).(*models.Order)

	return order, args.Error(1)
}

type ProductService struct {
	mock.Mock
}

func (m *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)

	product, _ := args.Get(0).(*models.Product)

	return product, args.Error(1)
}

func (m *ProductService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	args := m.Called(ctx, filter)

	products, _ := args.Get(0).([]models.Product)

	return products, args.Int(1), args.Error(2)
}

func (m *ProductService) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)

	categories, _ := args.Get(0).([]models.Category)

	return categories, args.Error(1)
}

func (m *ProductService) ListSubcategories(ctx context.Context, categorySlug string) ([]models.Subcategory, error) {
	args := m.Called(ctx, categorySlug)

	subcategories, _ := args.Get(0).([]models.Subcategory)

	return subcategories, args.Error(1)
}

func (m *ProductService) InvalidateProduct(ctx context.Context, id uuid.UUID) {
	m.Called(ctx, id)
}

type ReviewService struct {
	mock.Mock
}

func (m *ReviewService) CreateReview(ctx context.Context, userID uuid.UUID, req *models.CreateReviewRequest) (*models.Review, error) {
	args := m.Called(ctx, userID, req)

	review, _ := args.Get(0).(*models.Review)

	return review, args.Error(1)
}

func (m *ReviewService) ListReviews(ctx context.Context, productID uuid.UUID, page, size int) ([]models.Review, int, error) {
	args := m.Called(ctx, productID, page, size)

	reviews, _ := args.Get(0).([]models.Review)

	return reviews, args.Int(1), args.Error(2)
}

func (m *ReviewService) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, req *models.UpdateReviewRequest) (*models.Review, error) {
	args := m.Called(ctx, userID, reviewID, req)

	review, _ := args.Get(0).(*models.Review)

	return review, args.Error(1)
}

func (m *ReviewService) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	return m.Called(ctx, userID, reviewID).Error(0)
}

func (m *ReviewService) MarkHelpful(ctx context.Context, reviewID uuid.UUID) error {
	return m.Called(ctx, reviewID).Error(0)
}

type UserService struct {
	mock.Mock
}

func (m *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)

	user, _ := args.Get(0).(*models.User)

	return user, args.Error(1)
}

func (m *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)

	resp, _ := args.Get(0).(*models.LoginResponse)

	return resp, args.Error(1)
}

func (m *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)

	user, _ := args.Get(0).(*models.User)

	return user, args.Error(1)
}

type PaymentService struct {
	mock.Mock
}

func (m *PaymentService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error) {
	args := m.Called(ctx, payload, signature)

	return args.Get(0).(stripe.Event), args.Error(1)
}

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) OrderPlaced(ctx context.Context, order *models.Order) {
	m.Called(ctx, order)
}

func (m *NotificationService) OrderConfirmed(ctx context.Context, order *models.Order) {
	m.Called(ctx, order)
}

type PaymentGateway struct {
	mock.Mock
}

func (m *PaymentGateway) Charge(ctx context.Context, order *models.Order) (*models.PaymentResult, error) {
	args := m.Called(ctx, order)

	result, _ := args.Get(0).(*models.PaymentResult)

	return result, args.Error(1)
}
