package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Owner identifies who a cart belongs to: an authenticated user or a guest
// session, never both.
type Owner struct {
	UserID    *uuid.UUID
	SessionID string
}

func UserOwner(userID uuid.UUID) Owner {
	return Owner{UserID: &userID}
}

func GuestOwner(sessionID string) Owner {
	return Owner{SessionID: sessionID}
}

func (o Owner) IsGuest() bool {
	return o.UserID == nil
}

func (o Owner) Valid() bool {
	return (o.UserID != nil) != (o.SessionID != "")
}

func (o Owner) String() string {
	if o.UserID != nil {
		return "user:" + o.UserID.String()
	}

	return "session:" + o.SessionID
}

// Discriminators together with the product id identify a cart line.
type Discriminators struct {
	Variant string `json:"selected_variant,omitempty" validate:"omitempty,max=64"`
	Color   string `json:"selected_color,omitempty" validate:"omitempty,max=64"`
	Size    string `json:"selected_size,omitempty" validate:"omitempty,max=64"`
}

// ProductSummary is the catalog data shown next to a cart line.
type ProductSummary struct {
	Title         string `json:"title"`
	Brand         string `json:"brand,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
	StockQuantity int    `json:"stock_quantity"`
}

type CartLine struct {
	ID        uuid.UUID       `json:"id"`
	UserID    *uuid.UUID      `json:"user_id,omitempty"`
	SessionID *string         `json:"session_id,omitempty"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discriminators
	Product   *ProductSummary `json:"product,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l CartLine) Matches(productID uuid.UUID, d Discriminators) bool {
	return l.ProductID == productID && l.Discriminators == d
}

type Cart struct {
	Lines     []CartLine      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// NewCart derives the totals from lines. Totals are never stored.
func NewCart(lines []CartLine) *Cart {
	if lines == nil {
		lines = []CartLine{}
	}

	total, count := CartTotals(lines)

	return &Cart{Lines: lines, Total: total, ItemCount: count}
}

func CartTotals(lines []CartLine) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0

	for _, line := range lines {
		total = total.Add(line.LineTotal())
		count += line.Quantity
	}

	return total, count
}

// NewCartLine is the input to the cart store's add operation. UnitPrice is
// captured from the catalog by the caller.
type NewCartLine struct {
	ProductID uuid.UUID
	UnitPrice decimal.Decimal
	Quantity  int
	Discriminators
}

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"`
	Discriminators
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type MergeResult struct {
	Merged     int   `json:"merged"`
	Collisions int   `json:"collisions"`
	Cart       *Cart `json:"cart"`
}
