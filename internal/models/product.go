package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Subcategory struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Product struct {
	ID            uuid.UUID        `json:"id"`
	CategoryID    uuid.UUID        `json:"category_id"`
	SubcategoryID *uuid.UUID       `json:"subcategory_id,omitempty"`
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	Brand         string           `json:"brand,omitempty"`
	SKU           string           `json:"sku,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Currency      string           `json:"currency"`
	StockQuantity int              `json:"stock_quantity"`
	Images        []string         `json:"images"`
	Tags          []string         `json:"tags"`
	Variants      []string         `json:"variants"`
	Colors        []string         `json:"colors"`
	Sizes         []string         `json:"sizes"`
	Rating        float64          `json:"rating"`
	ReviewCount   int              `json:"review_count"`
	IsActive      bool             `json:"is_active"`
	IsFeatured    bool             `json:"is_featured"`
	IsBestseller  bool             `json:"is_bestseller"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}

	return p.Images[0]
}

// ProductFilter holds the catalog listing predicates. Zero values mean "no filter".
type ProductFilter struct {
	CategoryID      *uuid.UUID
	SubcategoryID   *uuid.UUID
	CategorySlug    string
	SubcategorySlug string
	Search          string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	Featured        bool
	Bestseller      bool
	Page            int
	PageSize        int
}
