package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/Kariqs/mealplan-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryOrderLifecycle(t *testing.T) {
	stores := NewMemoryStores()
	ctx := context.Background()

	order := models.Order{UserID: 1, WeekID: 1, MealCount: 5, PortionSize: models.PortionMixed, LargeMeals: 1, Status: models.StatusPendingPayment}
	require.NoError(t, stores.Orders.Create(ctx, &order))
	require.NotZero(t, order.ID)

	second := models.Order{UserID: 1, WeekID: 1, MealCount: 5, PortionSize: models.PortionStandard, Status: models.StatusPendingPayment}
	assert.ErrorIs(t, stores.Orders.Create(ctx, &second), ErrDuplicate)

	require.NoError(t, stores.Orders.AddItem(ctx, &models.OrderItem{OrderID: order.ID, MealID: 1, PortionSize: models.PortionLarge}))
	assert.ErrorIs(t, stores.Orders.AddItem(ctx, &models.OrderItem{OrderID: order.ID, MealID: 1, PortionSize: models.PortionLarge}), ErrPortionFull)
	for i := 0; i < 4; i++ {
		require.NoError(t, stores.Orders.AddItem(ctx, &models.OrderItem{OrderID: order.ID, MealID: 2, PortionSize: models.PortionStandard}))
	}
	assert.ErrorIs(t, stores.Orders.AddItem(ctx, &models.OrderItem{OrderID: order.ID, MealID: 2, PortionSize: models.PortionStandard}), ErrOrderFull)

	got, err := stores.Orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.OrderItems, 5)

	got.OrderItems[0].MealName = "mutated"
	again, err := stores.Orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, again.OrderItems[0].MealName)

	require.NoError(t, stores.Orders.RemoveItem(ctx, order.ID, got.OrderItems[1].ID))
	assert.ErrorIs(t, stores.Orders.RemoveItem(ctx, order.ID, got.OrderItems[1].ID), ErrNotFound)

	assert.ErrorIs(t, stores.Orders.TransitionStatus(ctx, order.ID, models.StatusPaid, models.StatusConfirmed), ErrConflict)
	require.NoError(t, stores.Orders.TransitionStatus(ctx, order.ID, models.StatusPendingPayment, models.StatusCancelled))
	assert.ErrorIs(t, stores.Orders.AddItem(ctx, &models.OrderItem{OrderID: order.ID, MealID: 2, PortionSize: models.PortionStandard}), ErrOrderLocked)

	// A cancelled order no longer blocks a new one for the same week.
	require.NoError(t, stores.Orders.Create(ctx, &second))
}

func TestMemoryOrderListing(t *testing.T) {
	stores := NewMemoryStores()
	ctx := context.Background()

	for week := uint(1); week <= 3; week++ {
		for user := uint(1); user <= 2; user++ {
			o := models.Order{UserID: user, WeekID: week, MealCount: 5, PortionSize: models.PortionStandard, Status: models.StatusPendingPayment}
			require.NoError(t, stores.Orders.Create(ctx, &o))
		}
	}
	require.NoError(t, stores.Orders.TransitionStatus(ctx, 1, models.StatusPendingPayment, models.StatusPaid))

	page, total, err := stores.Orders.List(ctx, OrderQuery{Limit: 4, Sort: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	require.Len(t, page, 4)
	assert.Equal(t, uint(1), page[0].ID)

	page, total, err = stores.Orders.List(ctx, OrderQuery{Offset: 4, Limit: 4, Sort: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	assert.Len(t, page, 2)

	page, total, err = stores.Orders.List(ctx, OrderQuery{WeekID: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, page, 2)

	page, _, err = stores.Orders.List(ctx, OrderQuery{Status: models.StatusPaid, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, uint(1), page[0].ID)

	mine, err := stores.Orders.ListByUser(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	count, err := stores.Orders.CountUndelivered(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	expired, err := stores.Orders.ExpireUnpaid(ctx, []uint{1, 2})
	require.NoError(t, err)
	assert.Len(t, expired, 3)
	for _, o := range expired {
		assert.Equal(t, models.StatusExpired, o.Status)
	}
}

func TestMemoryWeekMenu(t *testing.T) {
	stores := NewMemoryStores()
	ctx := context.Background()
	now := time.Now()

	soup := models.Meal{Name: "Soup", Active: true}
	stew := models.Meal{Name: "Stew", Active: false}
	require.NoError(t, stores.Meals.Create(ctx, &soup))
	require.NoError(t, stores.Meals.Create(ctx, &stew))

	past := models.Week{Label: "past", StartDate: now.Add(-72 * time.Hour), OrderDeadline: now.Add(-96 * time.Hour), Published: true}
	next := models.Week{Label: "next", StartDate: now.Add(72 * time.Hour), OrderDeadline: now.Add(24 * time.Hour)}
	require.NoError(t, stores.Weeks.Create(ctx, &next))
	require.NoError(t, stores.Weeks.Create(ctx, &past))

	assert.ErrorIs(t, stores.Weeks.SetMenu(ctx, next.ID, []uint{soup.ID, 99}), ErrNotFound)
	require.NoError(t, stores.Weeks.SetMenu(ctx, next.ID, []uint{soup.ID, stew.ID}))

	week, err := stores.Weeks.FindByID(ctx, next.ID, true)
	require.NoError(t, err)
	require.Len(t, week.Meals, 1)
	assert.Equal(t, "Soup", week.Meals[0].Name)

	has, err := stores.Weeks.HasMeal(ctx, next.ID, stew.ID)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, stores.Meals.Delete(ctx, stew.ID))
	has, err = stores.Weeks.HasMeal(ctx, next.ID, stew.ID)
	require.NoError(t, err)
	assert.False(t, has)

	published, err := stores.Weeks.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "past", published[0].Label)

	all, err := stores.Weeks.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "past", all[0].Label)

	closed, err := stores.Weeks.ListClosed(ctx, now)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, past.ID, closed[0].ID)
}

func TestMemoryUsersAndResetTokens(t *testing.T) {
	stores := NewMemoryStores()
	ctx := context.Background()

	n := models.Neighborhood{Name: "Dokki", IsServiced: true}
	require.NoError(t, stores.Neighborhoods.Create(ctx, &n))

	user := models.User{Email: "a@b.com", Phone: "+201001234567", Address: "x", NeighborhoodID: &n.ID}
	require.NoError(t, stores.Users.Create(ctx, &user))
	assert.ErrorIs(t, stores.Users.Create(ctx, &models.User{Email: "a@b.com"}), ErrDuplicate)

	found, err := stores.Users.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.NotNil(t, found.Neighborhood)
	assert.True(t, found.Onboarded())

	assert.ErrorIs(t, stores.Users.SetResetToken(ctx, "nobody@b.com", "tok"), ErrNotFound)
	require.NoError(t, stores.Users.SetResetToken(ctx, "a@b.com", "tok"))
	assert.ErrorIs(t, stores.Users.ResetPassword(ctx, "", "hash"), ErrNotFound)
	require.NoError(t, stores.Users.ResetPassword(ctx, "tok", "hash"))

	found, err = stores.Users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", found.Password)
	assert.Empty(t, found.PasswordResetToken)
}
