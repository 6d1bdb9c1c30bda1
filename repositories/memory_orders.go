package repositories

import (
	"context"
	"sort"
	"time"

	"github.com/Kariqs/mealplan-api/models"
)

type MemoryMealStore struct{ db *memoryDB }

func (s *MemoryMealStore) List(_ context.Context, activeOnly bool) ([]models.Meal, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	meals := make([]models.Meal, 0, len(s.db.meals))
	for _, m := range s.db.meals {
		if activeOnly && !m.Active {
			continue
		}
		meals = append(meals, m)
	}
	sort.Slice(meals, func(i, j int) bool { return meals[i].Name < meals[j].Name })
	return meals, nil
}

func (s *MemoryMealStore) FindByID(_ context.Context, id uint) (models.Meal, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	m, ok := s.db.meals[id]
	if !ok {
		return models.Meal{}, ErrNotFound
	}
	return m, nil
}

func (s *MemoryMealStore) Create(_ context.Context, meal *models.Meal) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.stamp(&meal.Model)
	s.db.meals[meal.ID] = *meal
	return nil
}

func (s *MemoryMealStore) Update(_ context.Context, meal *models.Meal) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.meals[meal.ID]; !ok {
		return ErrNotFound
	}
	s.db.stamp(&meal.Model)
	s.db.meals[meal.ID] = *meal
	return nil
}

func (s *MemoryMealStore) Delete(_ context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.meals[id]; !ok {
		return ErrNotFound
	}
	delete(s.db.meals, id)
	for weekID, ids := range s.db.weekMeals {
		kept := ids[:0]
		for _, mealID := range ids {
			if mealID != id {
				kept = append(kept, mealID)
			}
		}
		s.db.weekMeals[weekID] = kept
	}
	return nil
}

type MemoryWeekStore struct{ db *memoryDB }

func (s *MemoryWeekStore) List(_ context.Context, publishedOnly bool) ([]models.Week, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	weeks := make([]models.Week, 0, len(s.db.weeks))
	for _, w := range s.db.weeks {
		if publishedOnly && !w.Published {
			continue
		}
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].StartDate.Before(weeks[j].StartDate) })
	return weeks, nil
}

func (s *MemoryWeekStore) FindByID(_ context.Context, id uint, withMeals bool) (models.Week, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	w, ok := s.db.weeks[id]
	if !ok {
		return models.Week{}, ErrNotFound
	}
	w.Meals = nil
	if withMeals {
		for _, mealID := range s.db.weekMeals[id] {
			if m, ok := s.db.meals[mealID]; ok && m.Active {
				w.Meals = append(w.Meals, m)
			}
		}
	}
	return w, nil
}

func (s *MemoryWeekStore) Create(_ context.Context, week *models.Week) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.stamp(&week.Model)
	stored := *week
	stored.Meals = nil
	s.db.weeks[week.ID] = stored
	return nil
}

func (s *MemoryWeekStore) Update(_ context.Context, week *models.Week) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.weeks[week.ID]; !ok {
		return ErrNotFound
	}
	s.db.stamp(&week.Model)
	stored := *week
	stored.Meals = nil
	s.db.weeks[week.ID] = stored
	return nil
}

func (s *MemoryWeekStore) SetMenu(_ context.Context, weekID uint, mealIDs []uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.weeks[weekID]; !ok {
		return ErrNotFound
	}
	for _, id := range mealIDs {
		if _, ok := s.db.meals[id]; !ok {
			return ErrNotFound
		}
	}
	s.db.weekMeals[weekID] = append([]uint(nil), mealIDs...)
	return nil
}

func (s *MemoryWeekStore) HasMeal(_ context.Context, weekID, mealID uint) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, id := range s.db.weekMeals[weekID] {
		if id == mealID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryWeekStore) ListClosed(_ context.Context, before time.Time) ([]models.Week, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var weeks []models.Week
	for _, w := range s.db.weeks {
		if w.OrderDeadline.Before(before) {
			weeks = append(weeks, w)
		}
	}
	return weeks, nil
}

type MemoryOrderStore struct{ db *memoryDB }

// load returns a copy of the order with its items. Callers hold the lock.
func (s *MemoryOrderStore) load(id uint) (models.Order, bool) {
	o, ok := s.db.orders[id]
	if !ok {
		return models.Order{}, false
	}
	o.OrderItems = append([]models.OrderItem{}, s.db.items[id]...)
	return o, true
}

func (s *MemoryOrderStore) Create(_ context.Context, order *models.Order) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, o := range s.db.orders {
		if o.UserID == order.UserID && o.WeekID == order.WeekID && o.Live() {
			return ErrDuplicate
		}
	}
	s.db.stamp(&order.Model)
	for i := range order.OrderItems {
		order.OrderItems[i].OrderID = order.ID
		s.db.stamp(&order.OrderItems[i].Model)
	}
	stored := *order
	s.db.items[order.ID] = append([]models.OrderItem{}, order.OrderItems...)
	stored.OrderItems = nil
	s.db.orders[order.ID] = stored
	return nil
}

func (s *MemoryOrderStore) FindByID(_ context.Context, id uint) (models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.load(id)
	if !ok {
		return models.Order{}, ErrNotFound
	}
	return o, nil
}

func (s *MemoryOrderStore) FindByPaymobOrderID(_ context.Context, paymobOrderID string) (models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for id, o := range s.db.orders {
		if paymobOrderID != "" && o.PaymobOrderID == paymobOrderID {
			loaded, _ := s.load(id)
			return loaded, nil
		}
	}
	return models.Order{}, ErrNotFound
}

func (s *MemoryOrderStore) ListByUser(_ context.Context, userID uint) ([]models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var orders []models.Order
	for id, o := range s.db.orders {
		if o.UserID == userID {
			loaded, _ := s.load(id)
			orders = append(orders, loaded)
		}
	}
	sortByCreated(orders,
		func(o models.Order) time.Time { return o.CreatedAt },
		func(o models.Order) uint { return o.ID }, "desc")
	return orders, nil
}

func (s *MemoryOrderStore) List(_ context.Context, q OrderQuery) ([]models.Order, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	orders := []models.Order{}
	for id, o := range s.db.orders {
		if q.WeekID != 0 && o.WeekID != q.WeekID {
			continue
		}
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		loaded, _ := s.load(id)
		orders = append(orders, loaded)
	}
	sortByCreated(orders,
		func(o models.Order) time.Time { return o.CreatedAt },
		func(o models.Order) uint { return o.ID }, q.Sort)
	return window(orders, q.Offset, q.Limit), int64(len(orders)), nil
}

func (s *MemoryOrderStore) UpdateFields(_ context.Context, id uint, fields map[string]any) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.orders[id]
	if !ok {
		return ErrNotFound
	}
	for column, value := range fields {
		switch column {
		case "skipped":
			o.Skipped = value.(bool)
		case "status":
			o.Status = value.(string)
		case "paymob_order_id":
			o.PaymobOrderID = value.(string)
		case "payment_reference":
			o.PaymentReference = value.(string)
		}
	}
	s.db.stamp(&o.Model)
	s.db.orders[id] = o
	return nil
}

func (s *MemoryOrderStore) TransitionStatus(_ context.Context, id uint, from, to string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.orders[id]
	if !ok || o.Status != from {
		return ErrConflict
	}
	o.Status = to
	s.db.stamp(&o.Model)
	s.db.orders[id] = o
	return nil
}

func (s *MemoryOrderStore) AddItem(_ context.Context, item *models.OrderItem) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	order, ok := s.load(item.OrderID)
	if !ok {
		return ErrNotFound
	}
	if !order.Editable() {
		return ErrOrderLocked
	}
	if len(order.OrderItems) >= order.MealCount {
		return ErrOrderFull
	}
	if order.PortionSlots(item.PortionSize) <= 0 {
		return ErrPortionFull
	}
	s.db.stamp(&item.Model)
	s.db.items[item.OrderID] = append(s.db.items[item.OrderID], *item)
	return nil
}

func (s *MemoryOrderStore) RemoveItem(_ context.Context, orderID, itemID uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	items := s.db.items[orderID]
	for i, item := range items {
		if item.ID == itemID {
			s.db.items[orderID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryOrderStore) Delete(_ context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.orders[id]; !ok {
		return ErrNotFound
	}
	delete(s.db.orders, id)
	delete(s.db.items, id)
	return nil
}

func (s *MemoryOrderStore) ExpireUnpaid(_ context.Context, weekIDs []uint) ([]models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	closed := make(map[uint]bool, len(weekIDs))
	for _, id := range weekIDs {
		closed[id] = true
	}
	var expired []models.Order
	for id, o := range s.db.orders {
		if !closed[o.WeekID] || (o.Status != models.StatusPendingPayment && o.Status != models.StatusPaymentFailed) {
			continue
		}
		o.Status = models.StatusExpired
		s.db.stamp(&o.Model)
		s.db.orders[id] = o
		expired = append(expired, o)
	}
	return expired, nil
}

func (s *MemoryOrderStore) CountUndelivered(_ context.Context) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var count int64
	for _, o := range s.db.orders {
		for _, status := range undeliveredStatuses {
			if o.Status == status {
				count++
			}
		}
	}
	return count, nil
}
