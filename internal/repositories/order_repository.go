package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	"github.com/venkatakausik18/snap-n-shop-central/internal/search"
	"github.com/venkatakausik18/snap-n-shop-central/internal/utils"
)

// ErrPartialOrder is returned when the order lines could not be written and
// the header insert could not be rolled back either.
var ErrPartialOrder = errors.New("order header persisted without its lines")

// ErrTransitionRejected is returned when a payment event would move an order
// out of a status that does not allow it.
var ErrTransitionRejected = errors.New("order status transition rejected")

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, filter models.OrderFilter) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	UpdatePayment(ctx context.Context, id uuid.UUID, paymentStatus models.PaymentStatus, status models.OrderStatus, reference string) error
	UpdateByPaymentReference(ctx context.Context, reference string, paymentStatus models.PaymentStatus, status models.OrderStatus) (uuid.UUID, error)
	OrderLineOwnedBy(ctx context.Context, orderItemID, userID, productID uuid.UUID) (bool, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

const orderColumns = `id, order_number, user_id, status, payment_status, payment_method, COALESCE(payment_reference, ''),
			subtotal, tax_amount, shipping_amount, discount_amount, total_amount, currency,
			shipping_first_name, shipping_last_name, COALESCE(shipping_phone, ''), shipping_address_line_1,
			COALESCE(shipping_address_line_2, ''), shipping_city, shipping_state, shipping_postal_code, shipping_country,
			COALESCE(notes, ''), created_at, updated_at`

const orderLineColumns = `id, order_id, product_id, product_title, COALESCE(product_image_url, ''), quantity,
			unit_price, total_price, selected_variant, selected_color, selected_size, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner, order *models.Order) error {
	addr := &order.ShippingAddress

	return row.Scan(&order.ID, &order.OrderNumber, &order.UserID, &order.Status, &order.PaymentStatus, &order.PaymentMethod,
		&order.PaymentReference, &order.Subtotal, &order.TaxAmount, &order.ShippingAmount, &order.DiscountAmount,
		&order.TotalAmount, &order.Currency, &addr.FirstName, &addr.LastName, &addr.Phone, &addr.AddressLine1,
		&addr.AddressLine2, &addr.City, &addr.State, &addr.PostalCode, &addr.Country, &order.Notes,
		&order.CreatedAt, &order.UpdatedAt)
}

func scanOrderLine(row rowScanner, line *models.OrderLine) error {
	return row.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.ProductTitle, &line.ProductImageURL, &line.Quantity,
		&line.UnitPrice, &line.TotalPrice, &line.Variant, &line.Color, &line.Size, &line.CreatedAt)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}

	return s
}

// CreateOrder writes the header and every line in one transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) (err error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin order transaction: %w", err)
	}

	headerWritten := false

	defer func() {
		if err == nil {
			return
		}

		if rbErr := tx.Rollback(); rbErr != nil && headerWritten {
			err = fmt.Errorf("%w: %w (rollback: %v)", ErrPartialOrder, err, rbErr)
		}
	}()

	addr := order.ShippingAddress

	headerQuery := `
		INSERT INTO orders (id, order_number, user_id, status, payment_status, payment_method, payment_reference,
			subtotal, tax_amount, shipping_amount, discount_amount, total_amount, currency,
			shipping_first_name, shipping_last_name, shipping_phone, shipping_address_line_1, shipping_address_line_2,
			shipping_city, shipping_state, shipping_postal_code, shipping_country, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, NOW(), NOW())
		RETURNING created_at, updated_at`

	err = tx.QueryRowContext(dbCtx, headerQuery, order.ID, order.OrderNumber, order.UserID, order.Status, order.PaymentStatus,
		order.PaymentMethod, nullIfEmpty(order.PaymentReference), order.Subtotal, order.TaxAmount, order.ShippingAmount,
		order.DiscountAmount, order.TotalAmount, order.Currency, addr.FirstName, addr.LastName, nullIfEmpty(addr.Phone),
		addr.AddressLine1, nullIfEmpty(addr.AddressLine2), addr.City, addr.State, addr.PostalCode, addr.Country,
		nullIfEmpty(order.Notes)).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	headerWritten = true

	lineQuery := `
		INSERT INTO order_items (id, order_id, product_id, product_title, product_image_url, quantity,
			unit_price, total_price, selected_variant, selected_color, selected_size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		_, err = tx.ExecContext(dbCtx, lineQuery, item.ID, order.ID, item.ProductID, item.ProductTitle,
			nullIfEmpty(item.ProductImageURL), item.Quantity, item.UnitPrice, item.TotalPrice,
			item.Variant, item.Color, item.Size)
		if err != nil {
			return fmt.Errorf("failed to insert an order item: %w", err)
		}

		item.CreatedAt = order.CreatedAt
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

// GetOrderByID returns sql.ErrNoRows when the order does not exist.
func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1`

	order := &models.Order{}

	if err := scanOrder(r.DB.QueryRowContext(dbCtx, query, id), order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	lines, err := r.linesFor(dbCtx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}

	order.Items = lines[id]
	if order.Items == nil {
		order.Items = []models.OrderLine{}
	}

	return order, nil
}

// BuildOrderFilter renders the WHERE clause for a user's order history.
func BuildOrderFilter(userID uuid.UUID, filter models.OrderFilter) (string, []any) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	if term := strings.TrimSpace(filter.Search); term != "" {
		args = append(args, "%"+search.EscapeLike(term)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(order_number ILIKE $%d OR shipping_first_name ILIKE $%d OR shipping_last_name ILIKE $%d)", n, n, n))
	}

	return strings.Join(conditions, " AND "), args
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, filter models.OrderFilter) ([]models.Order, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	where, args := BuildOrderFilter(userID, filter)

	var total int

	countQuery := `SELECT COUNT(*) FROM orders WHERE ` + where
	if err := r.DB.QueryRowContext(dbCtx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	page, size := models.NormalizePage(filter.Page, filter.PageSize)
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s
		FROM orders
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, orderColumns, where, len(args)+1, len(args)+2)

	rows, err := r.DB.QueryContext(dbCtx, query, append(args, size, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	ids := []uuid.UUID{}

	for rows.Next() {
		var order models.Order

		if err := scanOrder(rows, &order); err != nil {
			return nil, 0, fmt.Errorf("failed to scan the orders: %w", err)
		}

		orders = append(orders, order)
		ids = append(ids, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate orders: %w", err)
	}

	if len(ids) == 0 {
		return orders, total, nil
	}

	lines, err := r.linesFor(dbCtx, ids)
	if err != nil {
		return nil, 0, err
	}

	for i := range orders {
		orders[i].Items = lines[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []models.OrderLine{}
		}
	}

	return orders, total, nil
}

func (r *orderRepository) linesFor(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]models.OrderLine, error) {

	ids := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		ids[i] = id.String()
	}

	query := `SELECT ` + orderLineColumns + `
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY created_at, id`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get the order items: %w", err)
	}
	defer rows.Close()

	lines := make(map[uuid.UUID][]models.OrderLine, len(orderIDs))

	for rows.Next() {
		var line models.OrderLine

		if err := scanOrderLine(rows, &line); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		lines[line.OrderID] = append(lines[line.OrderID], line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order items: %w", err)
	}

	return lines, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return expectOneRow(result)
}

// UpdatePayment records the gateway outcome. An empty reference keeps the
// stored one.
func (r *orderRepository) UpdatePayment(ctx context.Context, id uuid.UUID, paymentStatus models.PaymentStatus, status models.OrderStatus, reference string) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders
		SET payment_status = $1, status = $2, payment_reference = COALESCE($3, payment_reference), updated_at = NOW()
		WHERE id = $4`

	result, err := r.DB.ExecContext(dbCtx, query, paymentStatus, status, nullIfEmpty(reference), id)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	return expectOneRow(result)
}

func (r *orderRepository) UpdateByPaymentReference(ctx context.Context, reference string, paymentStatus models.PaymentStatus, status models.OrderStatus) (uuid.UUID, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	from := make([]string, 0, 4)
	for _, s := range models.Predecessors(status) {
		from = append(from, string(s))
	}

	query := `
		UPDATE orders
		SET payment_status = $1, status = $2, updated_at = NOW()
		WHERE payment_reference = $3 AND status = ANY($4)
		RETURNING id`

	var id uuid.UUID

	err := r.DB.QueryRowContext(dbCtx, query, paymentStatus, status, reference, pq.Array(from)).Scan(&id)
	if err == nil {
		return id, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("failed to update order by payment reference: %w", err)
	}

	// nothing matched: either the reference is unknown or the order has moved on
	var current models.OrderStatus

	if err := r.DB.QueryRowContext(dbCtx, `SELECT status FROM orders WHERE payment_reference = $1`, reference).Scan(&current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, err
		}

		return uuid.Nil, fmt.Errorf("failed to read order by payment reference: %w", err)
	}

	return uuid.Nil, fmt.Errorf("%w: %s to %s", ErrTransitionRejected, current, status)
}

// OrderLineOwnedBy reports whether the order line belongs to one of the
// user's orders and is for the given product.
func (r *orderRepository) OrderLineOwnedBy(ctx context.Context, orderItemID, userID, productID uuid.UUID) (bool, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM order_items oi
			JOIN orders o ON o.id = oi.order_id
			WHERE oi.id = $1 AND o.user_id = $2 AND oi.product_id = $3
		)`

	var exists bool

	if err := r.DB.QueryRowContext(dbCtx, query, orderItemID, userID, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check order item ownership: %w", err)
	}

	return exists, nil
}

func expectOneRow(result sql.Result) error {
	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}
