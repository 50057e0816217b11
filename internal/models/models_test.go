package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewCart(t *testing.T) {
	t.Run("Totals from lines", func(t *testing.T) {
		lines := []CartLine{
			{ID: uuid.New(), ProductID: uuid.New(), Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
			{ID: uuid.New(), ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.RequireFromString("50.50")},
		}

		cart := NewCart(lines)

		assert.True(t, decimal.RequireFromString("250.50").Equal(cart.Total))
		assert.Equal(t, 3, cart.ItemCount)
		assert.Len(t, cart.Lines, 2)
	})

	t.Run("Empty cart", func(t *testing.T) {
		cart := NewCart(nil)

		assert.True(t, cart.Total.IsZero())
		assert.Equal(t, 0, cart.ItemCount)
		assert.NotNil(t, cart.Lines)
	})
}

func TestCartLineMatches(t *testing.T) {
	productID := uuid.New()
	line := CartLine{ProductID: productID, Discriminators: Discriminators{Color: "red", Size: "M"}}

	assert.True(t, line.Matches(productID, Discriminators{Color: "red", Size: "M"}))
	assert.False(t, line.Matches(productID, Discriminators{Color: "red", Size: "L"}))
	assert.False(t, line.Matches(productID, Discriminators{Color: "red"}))
	assert.False(t, line.Matches(uuid.New(), Discriminators{Color: "red", Size: "M"}))
}

func TestOwner(t *testing.T) {
	userID := uuid.New()

	assert.True(t, UserOwner(userID).Valid())
	assert.False(t, UserOwner(userID).IsGuest())
	assert.True(t, GuestOwner("guest_1_abc").Valid())
	assert.True(t, GuestOwner("guest_1_abc").IsGuest())
	assert.False(t, Owner{}.Valid())
	assert.False(t, Owner{UserID: &userID, SessionID: "guest_1_abc"}.Valid())
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusConfirmed, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusDelivered, OrderStatusRefunded, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
		{OrderStatusShipped, OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, OrderStatusConfirmed.Cancellable())
	assert.False(t, OrderStatusShipped.Cancellable())
}

func TestPredecessors(t *testing.T) {
	assert.Equal(t, []OrderStatus{OrderStatusPending}, Predecessors(OrderStatusConfirmed))
	assert.Equal(t, []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing},
		Predecessors(OrderStatusCancelled))
	assert.Equal(t, []OrderStatus{OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered},
		Predecessors(OrderStatusRefunded))
	assert.Empty(t, Predecessors(OrderStatusPending))
	assert.NotContains(t, Predecessors(OrderStatusConfirmed), OrderStatusCancelled)

	assert.True(t, OrderStatusShipped.Valid())
	assert.False(t, OrderStatus("lost").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestNormalizePage(t *testing.T) {
	page, size := NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, size)

	page, size = NormalizePage(3, 1000)
	assert.Equal(t, 3, page)
	assert.Equal(t, MaxPageSize, size)
}
