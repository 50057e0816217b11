// Package mocks holds testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
)

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) ListLines(ctx context.Context, owner models.Owner) ([]models.CartLine, error) {
	args := m.Called(ctx, owner)

	lines, _ := args.Get(0).([]models.CartLine)

	return lines, args.Error(1)
}

func (m *CartRepository) InsertLine(ctx context.Context, owner models.Owner, line *models.CartLine) error {
	return m.Called(ctx, owner, line).Error(0)
}

func (m *CartRepository) UpdateQuantity(ctx context.Context, owner models.Owner, lineID uuid.UUID, quantity int) error {
	return m.Called(ctx, owner, lineID, quantity).Error(0)
}

func (m *CartRepository) DeleteLine(ctx context.Context, owner models.Owner, lineID uuid.UUID) error {
	return m.Called(ctx, owner, lineID).Error(0)
}

func (m *CartRepository) DeleteByOwner(ctx context.Context, owner models.Owner) error {
	return m.Called(ctx, owner).Error(0)
}

func (m *CartRepository) ReassignSessionLines(ctx context.Context, sessionID string, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, sessionID, userID)

	return args.Get(0).(int64), args.Error(1)
}

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)

	order, _ := args.Get(0).(*models.Order)

	return order, args.Error(1)
}

func (m *OrderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, filter models.OrderFilter) ([]models.Order, int, error) {
	args := m.Called(ctx, userID, filter)

	orders, _ := args.Get(0).([]models.Order)

	return orders, args.Int(1), args.Error(2)
}

func (m *OrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *OrderRepository) UpdatePayment(ctx context.Context, id uuid.UUID, paymentStatus models.PaymentStatus, status models.OrderStatus, reference string) error {
	return m.Called(ctx, id, paymentStatus, status, reference).Error(0)
}

func (m *OrderRepository) UpdateByPaymentReference(ctx context.Context, reference string, paymentStatus models.PaymentStatus, status models.OrderStatus) (uuid.UUID, error) {
	args := m.Called(ctx, reference, paymentStatus, status)

	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *OrderRepository) OrderLineOwnedBy(ctx context.Context, orderItemID, userID, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orderItemID, userID, productID)

	return args.Bool(0), args.Error(1)
}

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)

	product, _ := args.Get(0).(*models.Product)

	return product, args.Error(1)
}

func (m *ProductRepository) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	args := m.Called(ctx, filter)

	products, _ := args.Get(0).([]models.Product)

	return products, args.Int(1), args.Error(2)
}

func (m *ProductRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)

	categories, _ := args.Get(0).([]models.Category)

	return categories, args.Error(1)
}

func (m *ProductRepository) ListSubcategories(ctx context.Context, categorySlug string) ([]models.Subcategory, error) {
	args := m.Called(ctx, categorySlug)

	subcategories, _ := args.Get(0).([]models.Subcategory)

	return subcategories, args.Error(1)
}

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)

	user, _ := args.Get(0).(*models.User)

	return user, args.Error(1)
}

func (m *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)

	user, _ := args.Get(0).(*models.User)

	return user, args.Error(1)
}

type ReviewRepository struct {
	mock.Mock
}

func (m *ReviewRepository) CreateReview(ctx context.Context, review *models.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *ReviewRepository) GetReviewByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, id)

	review, _ := args.Get(0).(*models.Review)

	return review, args.Error(1)
}

func (m *ReviewRepository) ListApprovedByProduct(ctx context.Context, productID uuid.UUID, page, size int) ([]models.Review, int, error) {
	args := m.Called(ctx, productID, page, size)

	reviews, _ := args.Get(0).([]models.Review)

	return reviews, args.Int(1), args.Error(2)
}

func (m *ReviewRepository) UpdateReview(ctx context.Context, review *models.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *ReviewRepository) DeleteReview(ctx context.Context, id, userID uuid.UUID) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *ReviewRepository) IncrementHelpful(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ReviewRepository) RefreshProductRating(ctx context.Context, productID uuid.UUID) error {
	return m.Called(ctx, productID).Error(0)
}

type RateLimitRepository struct {
	mock.Mock
}

func (m *RateLimitRepository) CheckLoginRateLimit(ctx context.Context, email string) (bool, int, int, error) {
	args := m.Called(ctx, email)

	return args.Bool(0), args.Int(1), args.Int(2), args.Error(3)
}
