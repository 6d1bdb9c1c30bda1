package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Kariqs/mealplan-api/cache"
	"github.com/Kariqs/mealplan-api/models"
	"github.com/Kariqs/mealplan-api/repositories"
	"gorm.io/datatypes"
)

type MenuService struct {
	meals repositories.MealStore
	weeks repositories.WeekStore
	cache *cache.Cache
}

func NewMenuService(stores repositories.Stores, c *cache.Cache) *MenuService {
	return &MenuService{meals: stores.Meals, weeks: stores.Weeks, cache: c}
}

func (s *MenuService) ListMeals(ctx context.Context) ([]models.Meal, error) {
	return cache.Remember(ctx, s.cache, cache.MealsKey, func(ctx context.Context) ([]models.Meal, error) {
		meals, err := s.meals.List(ctx, true)
		if meals == nil {
			meals = []models.Meal{}
		}
		return meals, err
	})
}

func (s *MenuService) AllMeals(ctx context.Context) ([]models.Meal, error) {
	return s.meals.List(ctx, false)
}

// GetMeal returns an active meal. Retired meals are reported as missing.
func (s *MenuService) GetMeal(ctx context.Context, id uint) (models.Meal, error) {
	meal, err := cache.Remember(ctx, s.cache, cache.MealKey(id), func(ctx context.Context) (models.Meal, error) {
		return s.meals.FindByID(ctx, id)
	})
	if err != nil {
		return models.Meal{}, storeErr(err)
	}
	if !meal.Active {
		return models.Meal{}, ErrNotFound
	}
	return meal, nil
}

// AdminMeal returns a meal whether or not it is still offered.
func (s *MenuService) AdminMeal(ctx context.Context, id uint) (models.Meal, error) {
	meal, err := s.meals.FindByID(ctx, id)
	return meal, storeErr(err)
}

func applyMealData(meal *models.Meal, data models.MealData) error {
	tags := data.Tags
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	meal.Name = data.Name
	meal.Description = data.Description
	meal.Calories = data.Calories
	meal.LargeCalories = data.LargeCalories
	meal.Tags = datatypes.JSON(raw)
	if data.Active != nil {
		meal.Active = *data.Active
	}
	return nil
}

func (s *MenuService) CreateMeal(ctx context.Context, data models.MealData) (models.Meal, error) {
	meal := models.Meal{Active: true}
	if err := applyMealData(&meal, data); err != nil {
		return models.Meal{}, err
	}
	if err := s.meals.Create(ctx, &meal); err != nil {
		return models.Meal{}, err
	}
	s.cache.MealChanged(ctx, meal.ID)
	return meal, nil
}

func (s *MenuService) UpdateMeal(ctx context.Context, id uint, data models.MealData) (models.Meal, error) {
	meal, err := s.meals.FindByID(ctx, id)
	if err != nil {
		return models.Meal{}, storeErr(err)
	}
	if err := applyMealData(&meal, data); err != nil {
		return models.Meal{}, err
	}
	if err := s.meals.Update(ctx, &meal); err != nil {
		return models.Meal{}, storeErr(err)
	}
	s.cache.MealChanged(ctx, meal.ID)
	return meal, nil
}

func (s *MenuService) SetMealImage(ctx context.Context, id uint, url string) (models.Meal, error) {
	meal, err := s.meals.FindByID(ctx, id)
	if err != nil {
		return models.Meal{}, storeErr(err)
	}
	meal.ImageURL = url
	if err := s.meals.Update(ctx, &meal); err != nil {
		return models.Meal{}, storeErr(err)
	}
	s.cache.MealChanged(ctx, meal.ID)
	return meal, nil
}

func (s *MenuService) DeleteMeal(ctx context.Context, id uint) error {
	if err := s.meals.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	s.cache.MealChanged(ctx, id)
	return nil
}

// ListWeeks returns the published weeks, earliest first.
func (s *MenuService) ListWeeks(ctx context.Context) ([]models.Week, error) {
	return cache.Remember(ctx, s.cache, cache.WeeksKey, func(ctx context.Context) ([]models.Week, error) {
		weeks, err := s.weeks.List(ctx, true)
		if weeks == nil {
			weeks = []models.Week{}
		}
		return weeks, err
	})
}

func (s *MenuService) AllWeeks(ctx context.Context) ([]models.Week, error) {
	return s.weeks.List(ctx, false)
}

// WeekMenu returns a published week with its active meals.
func (s *MenuService) WeekMenu(ctx context.Context, id uint) (models.Week, error) {
	week, err := cache.Remember(ctx, s.cache, cache.WeekMenuKey(id), func(ctx context.Context) (models.Week, error) {
		week, err := s.weeks.FindByID(ctx, id, true)
		if week.Meals == nil {
			week.Meals = []models.Meal{}
		}
		return week, err
	})
	if err != nil {
		return models.Week{}, storeErr(err)
	}
	if !week.Published {
		return models.Week{}, ErrNotFound
	}
	return week, nil
}

func validateWeek(data models.WeekData) error {
	if !data.OrderDeadline.Before(data.StartDate) {
		return invalidf("order deadline must be before the week starts")
	}
	return nil
}

func (s *MenuService) CreateWeek(ctx context.Context, data models.WeekData) (models.Week, error) {
	if err := validateWeek(data); err != nil {
		return models.Week{}, err
	}
	week := models.Week{
		Label:         data.Label,
		StartDate:     data.StartDate,
		OrderDeadline: data.OrderDeadline,
		Published:     data.Published,
	}
	if err := s.weeks.Create(ctx, &week); err != nil {
		return models.Week{}, err
	}
	s.cache.WeekChanged(ctx, week.ID)
	return week, nil
}

func (s *MenuService) UpdateWeek(ctx context.Context, id uint, data models.WeekData) (models.Week, error) {
	if err := validateWeek(data); err != nil {
		return models.Week{}, err
	}
	week, err := s.weeks.FindByID(ctx, id, false)
	if err != nil {
		return models.Week{}, storeErr(err)
	}
	week.Label = data.Label
	week.StartDate = data.StartDate
	week.OrderDeadline = data.OrderDeadline
	week.Published = data.Published
	if err := s.weeks.Update(ctx, &week); err != nil {
		return models.Week{}, storeErr(err)
	}
	s.cache.WeekChanged(ctx, week.ID)
	return week, nil
}

// SetWeekMenu replaces the meals offered in a week. Unknown meal ids are rejected.
func (s *MenuService) SetWeekMenu(ctx context.Context, id uint, mealIDs []uint) (models.Week, error) {
	seen := make(map[uint]bool, len(mealIDs))
	unique := make([]uint, 0, len(mealIDs))
	for _, mealID := range mealIDs {
		if !seen[mealID] {
			seen[mealID] = true
			unique = append(unique, mealID)
		}
	}
	if _, err := s.weeks.FindByID(ctx, id, false); err != nil {
		return models.Week{}, storeErr(err)
	}
	if err := s.weeks.SetMenu(ctx, id, unique); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Week{}, invalidf("menu references an unknown meal")
		}
		return models.Week{}, err
	}
	s.cache.WeekChanged(ctx, id)
	week, err := s.weeks.FindByID(ctx, id, true)
	return week, storeErr(err)
}
