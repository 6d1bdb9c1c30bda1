package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusPendingPayment, StatusPaid, true},
		{StatusPendingPayment, StatusPaymentFailed, true},
		{StatusPaymentFailed, StatusPendingPayment, true},
		{StatusPaid, StatusConfirmed, true},
		{StatusConfirmed, StatusPreparing, true},
		{StatusPreparing, StatusOutForDelivery, true},
		{StatusOutForDelivery, StatusDelivered, true},
		{StatusPendingPayment, StatusDelivered, false},
		{StatusPaid, StatusPendingPayment, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusPreparing, StatusCancelled, false},
		{StatusExpired, StatusPaid, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestOrderPortionSlots(t *testing.T) {
	mixed := Order{MealCount: 5, PortionSize: PortionMixed, LargeMeals: 2, OrderItems: []OrderItem{
		{PortionSize: PortionLarge},
		{PortionSize: PortionStandard},
	}}
	assert.Equal(t, 1, mixed.PortionSlots(PortionLarge))
	assert.Equal(t, 2, mixed.PortionSlots(PortionStandard))

	large := Order{MealCount: 5, PortionSize: PortionLarge, OrderItems: []OrderItem{{PortionSize: PortionLarge}}}
	assert.Equal(t, 4, large.PortionSlots(PortionLarge))
	assert.Equal(t, 0, large.PortionSlots(PortionStandard))
}

func TestOrderEditableAndLive(t *testing.T) {
	assert.True(t, Order{Status: StatusPaid}.Editable())
	assert.False(t, Order{Status: StatusPreparing}.Editable())
	assert.True(t, Order{Status: StatusPaymentFailed}.Live())
	assert.False(t, Order{Status: StatusExpired}.Live())
	assert.False(t, Order{Status: StatusCancelled}.Live())
}

func TestWeekIsOpen(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	week := Week{Published: true, OrderDeadline: now.Add(time.Hour)}
	assert.True(t, week.IsOpen(now))
	assert.False(t, week.IsOpen(now.Add(2*time.Hour)))

	week.Published = false
	assert.False(t, week.IsOpen(now))
}

func TestUserOnboarded(t *testing.T) {
	user := User{Phone: "+201001234567", Address: "12 Road 9", Neighborhood: &Neighborhood{Name: "Maadi", IsServiced: true}}
	assert.True(t, user.Onboarded())

	user.Neighborhood.IsServiced = false
	assert.False(t, user.Onboarded())

	user.Neighborhood = nil
	assert.False(t, user.Onboarded())
}
