package repositories

import (
	"context"

	"github.com/Kariqs/mealplan-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormOrderStore struct {
	db *gorm.DB
}

func (s *GormOrderStore) Create(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Concurrent plans for the same user queue on the user row.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&models.User{}, order.UserID).Error; err != nil {
			return translate(err)
		}
		var live int64
		err := tx.Model(&models.Order{}).
			Where("user_id = ? AND week_id = ?", order.UserID, order.WeekID).
			Where("status NOT IN ?", []string{models.StatusCancelled, models.StatusExpired}).
			Count(&live).Error
		if err != nil {
			return err
		}
		if live > 0 {
			return ErrDuplicate
		}
		return tx.Create(order).Error
	})
}

func (s *GormOrderStore) FindByID(ctx context.Context, id uint) (models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").First(&order, id).Error
	return order, translate(err)
}

func (s *GormOrderStore) FindByPaymobOrderID(ctx context.Context, paymobOrderID string) (models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").
		Where("paymob_order_id = ?", paymobOrderID).
		First(&order).Error
	return order, translate(err)
}

func (s *GormOrderStore) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

func (s *GormOrderStore) List(ctx context.Context, q OrderQuery) ([]models.Order, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		if q.WeekID != 0 {
			db = db.Where("week_id = ?", q.WeekID)
		}
		if q.Status != "" {
			db = db.Where("status = ?", q.Status)
		}
		return db
	}

	var count int64
	if err := filter(s.db.WithContext(ctx).Model(&models.Order{})).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := filter(s.db.WithContext(ctx).Preload("OrderItems")).
		Order("created_at " + sortDirection(q.Sort)).
		Limit(q.Limit).Offset(q.Offset).
		Find(&orders).Error
	return orders, count, err
}

func (s *GormOrderStore) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	result := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormOrderStore) TransitionStatus(ctx context.Context, id uint, from, to string) error {
	result := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (s *GormOrderStore) AddItem(ctx context.Context, item *models.OrderItem) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, item.OrderID).Error
		if err != nil {
			return translate(err)
		}
		if !order.Editable() {
			return ErrOrderLocked
		}
		if err := tx.Where("order_id = ?", order.ID).Find(&order.OrderItems).Error; err != nil {
			return err
		}
		if len(order.OrderItems) >= order.MealCount {
			return ErrOrderFull
		}
		if order.PortionSlots(item.PortionSize) <= 0 {
			return ErrPortionFull
		}
		return tx.Create(item).Error
	})
}

func (s *GormOrderStore) RemoveItem(ctx context.Context, orderID, itemID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND order_id = ?", itemID, orderID).
		Delete(&models.OrderItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormOrderStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Order{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormOrderStore) ExpireUnpaid(ctx context.Context, weekIDs []uint) ([]models.Order, error) {
	if len(weekIDs) == 0 {
		return nil, nil
	}
	var expired []models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("week_id IN ? AND status IN ?", weekIDs, unpaidStatuses).
			Find(&expired).Error
		if err != nil || len(expired) == 0 {
			return err
		}
		ids := make([]uint, len(expired))
		for i, o := range expired {
			ids[i] = o.ID
		}
		return tx.Model(&models.Order{}).
			Where("id IN ?", ids).
			Update("status", models.StatusExpired).Error
	})
	if err != nil {
		return nil, err
	}
	for i := range expired {
		expired[i].Status = models.StatusExpired
	}
	return expired, nil
}

func (s *GormOrderStore) CountUndelivered(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("status IN ?", undeliveredStatuses).
		Count(&count).Error
	return count, err
}
