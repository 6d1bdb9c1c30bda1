// Package repositories persists the domain models behind small store interfaces.
package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Kariqs/mealplan-api/models"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicate   = errors.New("record already exists")
	ErrConflict    = errors.New("record was modified concurrently")
	ErrOrderFull   = errors.New("order already has all its meals")
	ErrPortionFull = errors.New("no meals of this portion size left in the order")
	ErrOrderLocked = errors.New("order can no longer change")
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetResetToken(ctx context.Context, email, token string) error
	ResetPassword(ctx context.Context, token, hashedPassword string) error
}

type AdminStore interface {
	Create(ctx context.Context, admin *models.Admin) error
	FindByID(ctx context.Context, id uint) (models.Admin, error)
	FindByEmail(ctx context.Context, email string) (models.Admin, error)
	Count(ctx context.Context) (int64, error)
}

type MealStore interface {
	List(ctx context.Context, activeOnly bool) ([]models.Meal, error)
	FindByID(ctx context.Context, id uint) (models.Meal, error)
	Create(ctx context.Context, meal *models.Meal) error
	Update(ctx context.Context, meal *models.Meal) error
	Delete(ctx context.Context, id uint) error
}

type WeekStore interface {
	List(ctx context.Context, publishedOnly bool) ([]models.Week, error)
	FindByID(ctx context.Context, id uint, withMeals bool) (models.Week, error)
	Create(ctx context.Context, week *models.Week) error
	Update(ctx context.Context, week *models.Week) error
	SetMenu(ctx context.Context, weekID uint, mealIDs []uint) error
	HasMeal(ctx context.Context, weekID, mealID uint) (bool, error)
	ListClosed(ctx context.Context, before time.Time) ([]models.Week, error)
}

type OrderQuery struct {
	WeekID uint
	Status string
	Offset int
	Limit  int
	Sort   string
}

type OrderStore interface {
	// Create fails with ErrDuplicate when the user already has a live order for the week.
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uint) (models.Order, error)
	FindByPaymobOrderID(ctx context.Context, paymobOrderID string) (models.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Order, error)
	List(ctx context.Context, q OrderQuery) ([]models.Order, int64, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	// TransitionStatus moves the order only if it is still in status from, else ErrConflict.
	TransitionStatus(ctx context.Context, id uint, from, to string) error
	// AddItem appends an item while holding the order, enforcing its status, the meal count and
	// the portion split.
	AddItem(ctx context.Context, item *models.OrderItem) error
	RemoveItem(ctx context.Context, orderID, itemID uint) error
	Delete(ctx context.Context, id uint) error
	// ExpireUnpaid expires unpaid orders of the given weeks and returns them.
	ExpireUnpaid(ctx context.Context, weekIDs []uint) ([]models.Order, error)
	CountUndelivered(ctx context.Context) (int64, error)
}

type NeighborhoodStore interface {
	List(ctx context.Context) ([]models.Neighborhood, error)
	FindByID(ctx context.Context, id uint) (models.Neighborhood, error)
	Create(ctx context.Context, n *models.Neighborhood) error
	Update(ctx context.Context, n *models.Neighborhood) error
	Delete(ctx context.Context, id uint) error
}

type WaitlistStore interface {
	Create(ctx context.Context, entry *models.WaitlistEntry) error
	List(ctx context.Context, offset, limit int, sort string) ([]models.WaitlistEntry, int64, error)
	Delete(ctx context.Context, id uint) error
}

type Stores struct {
	Users         UserStore
	Admins        AdminStore
	Meals         MealStore
	Weeks         WeekStore
	Orders        OrderStore
	Neighborhoods NeighborhoodStore
	Waitlist      WaitlistStore
}

var unpaidStatuses = []string{models.StatusPendingPayment, models.StatusPaymentFailed}

var undeliveredStatuses = []string{models.StatusPaid, models.StatusConfirmed, models.StatusPreparing, models.StatusOutForDelivery}
