package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	"github.com/venkatakausik18/snap-n-shop-central/internal/utils"
)

type CartRepository interface {
	ListLines(ctx context.Context, owner models.Owner) ([]models.CartLine, error)
	InsertLine(ctx context.Context, owner models.Owner, line *models.CartLine) error
	UpdateQuantity(ctx context.Context, owner models.Owner, lineID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, owner models.Owner, lineID uuid.UUID) error
	DeleteByOwner(ctx context.Context, owner models.Owner) error
	ReassignSessionLines(ctx context.Context, sessionID string, userID uuid.UUID) (int64, error)
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

// OwnerColumn returns the cart_items column that scopes rows to owner and
// the value to compare it with.
func OwnerColumn(owner models.Owner) (string, any) {
	if owner.UserID != nil {
		return "user_id", *owner.UserID
	}

	return "session_id", owner.SessionID
}

func ownerArgs(owner models.Owner) (any, any) {
	if owner.UserID != nil {
		return *owner.UserID, nil
	}

	return nil, owner.SessionID
}

func (r *cartRepository) ListLines(ctx context.Context, owner models.Owner) ([]models.CartLine, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	column, value := OwnerColumn(owner)

	query := fmt.Sprintf(`
		SELECT ci.id, ci.user_id, ci.session_id, ci.product_id, ci.quantity, ci.price,
			ci.selected_variant, ci.selected_color, ci.selected_size, ci.created_at, ci.updated_at,
			p.title, COALESCE(p.brand, ''), COALESCE(p.images[1], ''), p.stock_quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.%s = $1
		ORDER BY ci.created_at DESC`, column)

	rows, err := r.DB.QueryContext(dbCtx, query, value)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	lines := []models.CartLine{}

	for rows.Next() {
		var (
			line      models.CartLine
			userID    uuid.NullUUID
			sessionID sql.NullString
			product   models.ProductSummary
		)

		err := rows.Scan(&line.ID, &userID, &sessionID, &line.ProductID, &line.Quantity, &line.UnitPrice,
			&line.Variant, &line.Color, &line.Size, &line.CreatedAt, &line.UpdatedAt,
			&product.Title, &product.Brand, &product.ImageURL, &product.StockQuantity)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		if userID.Valid {
			line.UserID = &userID.UUID
		}

		if sessionID.Valid {
			line.SessionID = &sessionID.String
		}

		line.Product = &product
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart items: %w", err)
	}

	return lines, nil
}

func (r *cartRepository) InsertLine(ctx context.Context, owner models.Owner, line *models.CartLine) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	userID, sessionID := ownerArgs(owner)

	query := `
		INSERT INTO cart_items (id, user_id, session_id, product_id, quantity, price, selected_variant, selected_color, selected_size, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, line.ID, userID, sessionID, line.ProductID, line.Quantity, line.UnitPrice,
		line.Variant, line.Color, line.Size).Scan(&line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}

	line.UserID = owner.UserID
	if owner.UserID == nil {
		line.SessionID = &owner.SessionID
	}

	return nil
}

// UpdateQuantity returns sql.ErrNoRows when the line does not belong to owner.
func (r *cartRepository) UpdateQuantity(ctx context.Context, owner models.Owner, lineID uuid.UUID, quantity int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	column, value := OwnerColumn(owner)

	query := fmt.Sprintf(`
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2 AND %s = $3`, column)

	result, err := r.DB.ExecContext(dbCtx, query, quantity, lineID, value)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// DeleteLine is a no-op for ids that do not exist or belong to someone else.
func (r *cartRepository) DeleteLine(ctx context.Context, owner models.Owner, lineID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	column, value := OwnerColumn(owner)

	query := fmt.Sprintf(`DELETE FROM cart_items WHERE id = $1 AND %s = $2`, column)

	if _, err := r.DB.ExecContext(dbCtx, query, lineID, value); err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteByOwner(ctx context.Context, owner models.Owner) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	column, value := OwnerColumn(owner)

	query := fmt.Sprintf(`DELETE FROM cart_items WHERE %s = $1`, column)

	if _, err := r.DB.ExecContext(dbCtx, query, value); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

// ReassignSessionLines moves every guest line to the user in one statement.
func (r *cartRepository) ReassignSessionLines(ctx context.Context, sessionID string, userID uuid.UUID) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE cart_items
		SET user_id = $1, session_id = NULL, updated_at = NOW()
		WHERE session_id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, userID, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to reassign guest cart items: %w", err)
	}

	moved, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get reassigned rows: %w", err)
	}

	return moved, nil
}
