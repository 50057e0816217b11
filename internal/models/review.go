package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID                 uuid.UUID  `json:"id"`
	ProductID          uuid.UUID  `json:"product_id"`
	UserID             uuid.UUID  `json:"user_id"`
	OrderItemID        *uuid.UUID `json:"order_item_id,omitempty"`
	Rating             int        `json:"rating"`
	Title              string     `json:"title,omitempty"`
	Comment            string     `json:"comment,omitempty"`
	IsVerifiedPurchase bool       `json:"is_verified_purchase"`
	IsApproved         bool       `json:"is_approved"`
	HelpfulVotes       int        `json:"helpful_votes"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type CreateReviewRequest struct {
	ProductID   uuid.UUID  `json:"product_id" validate:"required"`
	OrderItemID *uuid.UUID `json:"order_item_id,omitempty"`
	Rating      int        `json:"rating" validate:"required,min=1,max=5"`
	Title       string     `json:"title,omitempty" validate:"omitempty,max=200"`
	Comment     string     `json:"comment,omitempty" validate:"omitempty,max=5000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Title   *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=5000"`
}
