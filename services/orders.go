package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Kariqs/mealplan-api/cache"
	"github.com/Kariqs/mealplan-api/models"
	"github.com/Kariqs/mealplan-api/payments"
	"github.com/Kariqs/mealplan-api/pricing"
	"github.com/Kariqs/mealplan-api/repositories"
	"github.com/Kariqs/mealplan-api/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type OrderService struct {
	stores  repositories.Stores
	cache   *cache.Cache
	pricing *pricing.Table
	gateway payments.Gateway
	mailer  utils.Mailer
	log     logrus.FieldLogger
	now     func() time.Time
}

type OrderServiceConfig struct {
	Stores  repositories.Stores
	Cache   *cache.Cache
	Pricing *pricing.Table
	Gateway payments.Gateway
	Mailer  utils.Mailer
	Log     logrus.FieldLogger
	Now     func() time.Time
}

func NewOrderService(cfg OrderServiceConfig) *OrderService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &OrderService{
		stores:  cfg.Stores,
		cache:   cfg.Cache,
		pricing: cfg.Pricing,
		gateway: cfg.Gateway,
		mailer:  cfg.Mailer,
		log:     cfg.Log,
		now:     cfg.Now,
	}
}

type AdminOrderPage struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
}

func storeErr(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repositories.ErrConflict):
		return ErrConflict
	}
	return err
}

// CreatePlan prices the plan and opens an unpaid order for the week.
func (s *OrderService) CreatePlan(ctx context.Context, userID uint, plan models.PlanData) (models.Order, error) {
	if plan.DeliverySlot != models.SlotMorning && plan.DeliverySlot != models.SlotEvening {
		return models.Order{}, invalidf("delivery slot must be %q or %q", models.SlotMorning, models.SlotEvening)
	}

	week, err := s.stores.Weeks.FindByID(ctx, plan.WeekID, false)
	if err != nil {
		return models.Order{}, storeErr(err)
	}
	if !week.IsOpen(s.now()) {
		return models.Order{}, ErrWeekClosed
	}

	quote, err := s.pricing.Quote(pricing.Plan{
		MealCount:   plan.MealCount,
		PortionSize: plan.PortionSize,
		LargeMeals:  plan.LargeMeals,
	})
	if err != nil {
		return models.Order{}, invalidf("%v", err)
	}

	order := models.Order{
		UserID:        userID,
		WeekID:        week.ID,
		MealCount:     plan.MealCount,
		PortionSize:   plan.PortionSize,
		DeliverySlot:  plan.DeliverySlot,
		Status:        models.StatusPendingPayment,
		SubtotalCents: quote.SubtotalCents,
		DiscountCents: quote.DiscountCents,
		TotalCents:    quote.TotalCents,
		OrderItems:    []models.OrderItem{},
	}
	if plan.PortionSize == models.PortionMixed {
		order.LargeMeals = plan.LargeMeals
	}

	if err := s.stores.Orders.Create(ctx, &order); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Order{}, ErrDuplicateOrder
		}
		return models.Order{}, err
	}
	s.cache.OrderChanged(ctx, order.ID, userID, order.WeekID)
	return order, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	return cache.Remember(ctx, s.cache, cache.UserOrdersKey(userID), func(ctx context.Context) ([]models.Order, error) {
		orders, err := s.stores.Orders.ListByUser(ctx, userID)
		if orders == nil {
			orders = []models.Order{}
		}
		return orders, err
	})
}

func (s *OrderService) cachedOrder(ctx context.Context, orderID uint) (models.Order, error) {
	order, err := cache.Remember(ctx, s.cache, cache.OrderKey(orderID), func(ctx context.Context) (models.Order, error) {
		return s.stores.Orders.FindByID(ctx, orderID)
	})
	return order, storeErr(err)
}

// Get returns the caller's order. Orders of other users are reported as missing.
func (s *OrderService) Get(ctx context.Context, userID, orderID uint) (models.Order, error) {
	order, err := s.cachedOrder(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if order.UserID != userID {
		return models.Order{}, ErrNotFound
	}
	return order, nil
}

// editableOrder loads the caller's order fresh from the store and checks it can still change.
func (s *OrderService) editableOrder(ctx context.Context, userID, orderID uint) (models.Order, error) {
	order, err := s.stores.Orders.FindByID(ctx, orderID)
	if err != nil {
		return models.Order{}, storeErr(err)
	}
	if order.UserID != userID {
		return models.Order{}, ErrNotFound
	}
	if !order.Editable() {
		return models.Order{}, ErrOrderLocked
	}
	week, err := s.stores.Weeks.FindByID(ctx, order.WeekID, false)
	if err != nil {
		return models.Order{}, storeErr(err)
	}
	if !week.IsOpen(s.now()) {
		return models.Order{}, ErrWeekClosed
	}
	return order, nil
}

func (s *OrderService) reload(ctx context.Context, order models.Order) (models.Order, error) {
	s.cache.OrderChanged(ctx, order.ID, order.UserID, order.WeekID)
	fresh, err := s.stores.Orders.FindByID(ctx, order.ID)
	return fresh, storeErr(err)
}

// AddMeal puts one meal from the week's menu into the order. For single-portion orders
// an empty portion defaults to the order's portion.
func (s *OrderService) AddMeal(ctx context.Context, userID, orderID, mealID uint, portion string) (models.Order, error) {
	order, err := s.editableOrder(ctx, userID, orderID)
	if err != nil {
		return models.Order{}, err
	}

	switch {
	case portion == "" && order.PortionSize != models.PortionMixed:
		portion = order.PortionSize
	case portion != models.PortionStandard && portion != models.PortionLarge:
		return models.Order{}, invalidf("portion size must be %q or %q", models.PortionStandard, models.PortionLarge)
	case order.PortionSize != models.PortionMixed && portion != order.PortionSize:
		return models.Order{}, invalidf("this order only takes %s portions", order.PortionSize)
	}

	onMenu, err := s.stores.Weeks.HasMeal(ctx, order.WeekID, mealID)
	if err != nil {
		return models.Order{}, err
	}
	meal, err := s.stores.Meals.FindByID(ctx, mealID)
	if errors.Is(err, repositories.ErrNotFound) || (err == nil && (!onMenu || !meal.Active)) {
		return models.Order{}, invalidf("meal %d is not on this week's menu", mealID)
	}
	if err != nil {
		return models.Order{}, err
	}

	item := models.OrderItem{
		OrderID:     order.ID,
		MealID:      meal.ID,
		MealName:    meal.Name,
		PortionSize: portion,
	}
	switch err := s.stores.Orders.AddItem(ctx, &item); {
	case errors.Is(err, repositories.ErrOrderFull):
		return models.Order{}, ErrOrderFull
	case errors.Is(err, repositories.ErrPortionFull):
		return models.Order{}, fmt.Errorf("%w: no %s meals left", ErrOrderFull, portion)
	case errors.Is(err, repositories.ErrOrderLocked):
		return models.Order{}, ErrOrderLocked
	case err != nil:
		return models.Order{}, storeErr(err)
	}
	return s.reload(ctx, order)
}

func (s *OrderService) RemoveMeal(ctx context.Context, userID, orderID, itemID uint) (models.Order, error) {
	order, err := s.editableOrder(ctx, userID, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if err := s.stores.Orders.RemoveItem(ctx, order.ID, itemID); err != nil {
		return models.Order{}, storeErr(err)
	}
	return s.reload(ctx, order)
}

// SetSkipped marks the order's delivery as skipped, or restores it.
func (s *OrderService) SetSkipped(ctx context.Context, userID, orderID uint, skipped bool) (models.Order, error) {
	order, err := s.editableOrder(ctx, userID, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if err := s.stores.Orders.UpdateFields(ctx, order.ID, map[string]any{"skipped": skipped}); err != nil {
		return models.Order{}, storeErr(err)
	}
	return s.reload(ctx, order)
}

func merchantOrderID(orderID uint) string {
	return fmt.Sprintf("%d-%s", orderID, uuid.NewString())
}

func orderIDFromMerchant(ref string) (uint, bool) {
	head, _, _ := strings.Cut(ref, "-")
	id, err := strconv.ParseUint(head, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// StartCheckout registers the order with the gateway and returns the hosted payment page.
// A failed payment may be retried; the order goes back to pending_payment first.
func (s *OrderService) StartCheckout(ctx context.Context, userID, orderID uint) (payments.Checkout, error) {
	order, err := s.stores.Orders.FindByID(ctx, orderID)
	if err != nil {
		return payments.Checkout{}, storeErr(err)
	}
	if order.UserID != userID {
		return payments.Checkout{}, ErrNotFound
	}
	if order.Status != models.StatusPendingPayment && order.Status != models.StatusPaymentFailed {
		return payments.Checkout{}, ErrOrderLocked
	}
	week, err := s.stores.Weeks.FindByID(ctx, order.WeekID, false)
	if err != nil {
		return payments.Checkout{}, storeErr(err)
	}
	if !week.IsOpen(s.now()) {
		return payments.Checkout{}, ErrWeekClosed
	}

	user, err := s.stores.Users.FindByID(ctx, userID)
	if err != nil {
		return payments.Checkout{}, storeErr(err)
	}
	if !user.Onboarded() {
		return payments.Checkout{}, ErrNotOnboarded
	}

	if order.Status == models.StatusPaymentFailed {
		if err := s.stores.Orders.TransitionStatus(ctx, order.ID, order.Status, models.StatusPendingPayment); err != nil {
			return payments.Checkout{}, storeErr(err)
		}
	}

	first, last, _ := strings.Cut(user.Name, " ")
	checkout, err := s.gateway.Checkout(ctx, payments.CheckoutRequest{
		MerchantOrderID: merchantOrderID(order.ID),
		AmountCents:     order.TotalCents,
		Currency:        s.pricing.Currency,
		Billing: payments.Billing{
			FirstName: first,
			LastName:  last,
			Email:     user.Email,
			Phone:     utils.LocalPhone(user.Phone),
			Street:    user.Address,
			City:      user.Neighborhood.Name,
		},
	})
	if err != nil {
		s.cache.OrderChanged(ctx, order.ID, order.UserID, order.WeekID)
		return payments.Checkout{}, fmt.Errorf("payment gateway: %w", err)
	}

	if err := s.stores.Orders.UpdateFields(ctx, order.ID, map[string]any{"paymob_order_id": checkout.PaymobOrderID}); err != nil {
		return payments.Checkout{}, storeErr(err)
	}
	s.cache.OrderChanged(ctx, order.ID, order.UserID, order.WeekID)
	return checkout, nil
}

func (s *OrderService) findPaidOrder(ctx context.Context, result payments.Result) (models.Order, error) {
	order, err := s.stores.Orders.FindByPaymobOrderID(ctx, result.PaymobOrderID)
	if errors.Is(err, repositories.ErrNotFound) {
		if id, ok := orderIDFromMerchant(result.MerchantOrderID); ok {
			order, err = s.stores.Orders.FindByID(ctx, id)
		}
	}
	return order, storeErr(err)
}

// ApplyPayment records a verified gateway result. Replaying the same result is a no-op,
// and a failure never downgrades an order that is already paid.
func (s *OrderService) ApplyPayment(ctx context.Context, result payments.Result) (models.Order, error) {
	order, err := s.findPaidOrder(ctx, result)
	if err != nil {
		return models.Order{}, err
	}
	if result.Pending {
		return order, nil
	}

	target := models.StatusPaymentFailed
	if result.Success {
		if result.AmountCents != order.TotalCents {
			s.log.WithFields(logrus.Fields{
				"order_id": order.ID,
				"expected": order.TotalCents,
				"received": result.AmountCents,
			}).Warn("payment amount mismatch")
			return order, ErrAmountMismatch
		}
		target = models.StatusPaid
	}

	if order.Status == target || (target == models.StatusPaid && order.Fulfilling()) ||
		(target == models.StatusPaymentFailed && !models.CanTransition(order.Status, target)) {
		return order, nil
	}
	if !models.CanTransition(order.Status, target) {
		s.log.WithFields(logrus.Fields{"order_id": order.ID, "status": order.Status, "target": target}).
			Warn("ignoring payment result for order in final state")
		return order, ErrInvalidTransition
	}

	if err := s.stores.Orders.TransitionStatus(ctx, order.ID, order.Status, target); err != nil {
		if !errors.Is(err, repositories.ErrConflict) {
			return models.Order{}, err
		}
		// A concurrent callback may already have applied the same result.
		current, ferr := s.stores.Orders.FindByID(ctx, order.ID)
		if ferr != nil || current.Status != target {
			return models.Order{}, ErrConflict
		}
		return current, nil
	}

	fields := map[string]any{"payment_reference": result.TransactionID}
	if order.PaymobOrderID == "" {
		fields["paymob_order_id"] = result.PaymobOrderID
	}
	if err := s.stores.Orders.UpdateFields(ctx, order.ID, fields); err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Error("failed to save payment reference")
	}

	fresh, err := s.reload(ctx, order)
	if err != nil {
		return models.Order{}, err
	}
	if target == models.StatusPaid {
		s.sendConfirmation(ctx, fresh)
	}
	return fresh, nil
}

func (s *OrderService) sendConfirmation(ctx context.Context, order models.Order) {
	user, err := s.stores.Users.FindByID(ctx, order.UserID)
	if err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Warn("confirmation email skipped")
		return
	}
	data := utils.EmailData{
		Name: user.Name,
		Message: fmt.Sprintf("We received your payment of %s %.2f for order #%d. Your %d meals are on their way to the kitchen.",
			s.pricing.Currency, float64(order.TotalCents)/100, order.ID, order.MealCount),
	}
	if err := s.mailer.Send(user.Email, "Order confirmed", data); err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Warn("confirmation email failed")
	}
}

// AdminList returns one page of orders, cached per filter and page.
func (s *OrderService) AdminList(ctx context.Context, weekID uint, status string, page utils.Page) (AdminOrderPage, error) {
	if status != "" && !models.IsKnownStatus(status) {
		return AdminOrderPage{}, invalidf("unknown status %q", status)
	}
	key := cache.AdminOrdersKey(weekID, status, page.Page, page.Limit, page.Sort)
	return cache.Remember(ctx, s.cache, key, func(ctx context.Context) (AdminOrderPage, error) {
		orders, total, err := s.stores.Orders.List(ctx, repositories.OrderQuery{
			WeekID: weekID,
			Status: status,
			Offset: page.Offset,
			Limit:  page.Limit,
			Sort:   page.Sort,
		})
		if orders == nil {
			orders = []models.Order{}
		}
		return AdminOrderPage{Orders: orders, Total: total}, err
	})
}

func (s *OrderService) AdminGet(ctx context.Context, orderID uint) (models.Order, error) {
	return s.cachedOrder(ctx, orderID)
}

// ChangeStatus moves an order along its lifecycle. The cached order shows the new status
// while the write is in flight and is rolled back if the write fails.
func (s *OrderService) ChangeStatus(ctx context.Context, orderID uint, status string) (models.Order, error) {
	if !models.IsKnownStatus(status) {
		return models.Order{}, invalidf("unknown status %q", status)
	}
	order, err := s.stores.Orders.FindByID(ctx, orderID)
	if err != nil {
		return models.Order{}, storeErr(err)
	}
	if !models.CanTransition(order.Status, status) {
		return models.Order{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, status)
	}

	next := order
	next.Status = status
	err = s.cache.Optimistic(ctx, cache.OrderKey(order.ID), next, func() error {
		return s.stores.Orders.TransitionStatus(ctx, order.ID, order.Status, status)
	})
	if err != nil {
		return models.Order{}, storeErr(err)
	}
	return s.reload(ctx, order)
}

func (s *OrderService) Delete(ctx context.Context, orderID uint) error {
	order, err := s.stores.Orders.FindByID(ctx, orderID)
	if err != nil {
		return storeErr(err)
	}
	if err := s.stores.Orders.Delete(ctx, order.ID); err != nil {
		return storeErr(err)
	}
	s.cache.OrderChanged(ctx, order.ID, order.UserID, order.WeekID)
	return nil
}

func (s *OrderService) CountUndelivered(ctx context.Context) (int64, error) {
	return s.stores.Orders.CountUndelivered(ctx)
}

// ExpireClosedWeeks expires unpaid orders of every week whose deadline has passed.
func (s *OrderService) ExpireClosedWeeks(ctx context.Context) (int, error) {
	weeks, err := s.stores.Weeks.ListClosed(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if len(weeks) == 0 {
		return 0, nil
	}
	ids := make([]uint, len(weeks))
	for i, w := range weeks {
		ids[i] = w.ID
	}
	expired, err := s.stores.Orders.ExpireUnpaid(ctx, ids)
	if err != nil {
		return 0, err
	}
	for _, o := range expired {
		s.cache.OrderChanged(ctx, o.ID, o.UserID, o.WeekID)
	}
	return len(expired), nil
}
