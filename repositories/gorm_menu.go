package repositories

import (
	"context"
	"time"

	"github.com/Kariqs/mealplan-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormMealStore struct {
	db *gorm.DB
}

func (s *GormMealStore) List(ctx context.Context, activeOnly bool) ([]models.Meal, error) {
	query := s.db.WithContext(ctx).Order("name asc")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var meals []models.Meal
	err := query.Find(&meals).Error
	return meals, err
}

func (s *GormMealStore) FindByID(ctx context.Context, id uint) (models.Meal, error) {
	var meal models.Meal
	err := s.db.WithContext(ctx).First(&meal, id).Error
	return meal, translate(err)
}

func (s *GormMealStore) Create(ctx context.Context, meal *models.Meal) error {
	return s.db.WithContext(ctx).Create(meal).Error
}

func (s *GormMealStore) Update(ctx context.Context, meal *models.Meal) error {
	return s.db.WithContext(ctx).Save(meal).Error
}

func (s *GormMealStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Meal{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type GormWeekStore struct {
	db *gorm.DB
}

func (s *GormWeekStore) List(ctx context.Context, publishedOnly bool) ([]models.Week, error) {
	query := s.db.WithContext(ctx).Order("start_date asc")
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	var weeks []models.Week
	err := query.Find(&weeks).Error
	return weeks, err
}

func (s *GormWeekStore) FindByID(ctx context.Context, id uint, withMeals bool) (models.Week, error) {
	query := s.db.WithContext(ctx)
	if withMeals {
		query = query.Preload("Meals", "active = ?", true)
	}
	var week models.Week
	err := query.First(&week, id).Error
	return week, translate(err)
}

func (s *GormWeekStore) Create(ctx context.Context, week *models.Week) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(week).Error
}

func (s *GormWeekStore) Update(ctx context.Context, week *models.Week) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(week).Error
}

func (s *GormWeekStore) SetMenu(ctx context.Context, weekID uint, mealIDs []uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var week models.Week
		if err := tx.First(&week, weekID).Error; err != nil {
			return translate(err)
		}
		var meals []models.Meal
		if len(mealIDs) > 0 {
			if err := tx.Where("id IN ?", mealIDs).Find(&meals).Error; err != nil {
				return err
			}
			if len(meals) != len(mealIDs) {
				return ErrNotFound
			}
		}
		return tx.Model(&week).Association("Meals").Replace(meals)
	})
}

func (s *GormWeekStore) HasMeal(ctx context.Context, weekID, mealID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Table("week_meals").
		Where("week_id = ? AND meal_id = ?", weekID, mealID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormWeekStore) ListClosed(ctx context.Context, before time.Time) ([]models.Week, error) {
	var weeks []models.Week
	err := s.db.WithContext(ctx).Where("order_deadline < ?", before).Find(&weeks).Error
	return weeks, err
}
