package services

import (
	"context"
	"testing"
	"time"

	"github.com/Kariqs/mealplan-api/cache"
	"github.com/Kariqs/mealplan-api/models"
	"github.com/Kariqs/mealplan-api/repositories"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMenuService() (*MenuService, *NeighborhoodService) {
	stores := repositories.NewMemoryStores()
	log, _ := test.NewNullLogger()
	c := cache.New(cache.NewMemoryStore(), time.Minute, log)
	return NewMenuService(stores, c), NewNeighborhoodService(stores.Neighborhoods, c)
}

func TestMealCatalogueStaysFresh(t *testing.T) {
	svc, _ := newMenuService()
	ctx := context.Background()

	meal, err := svc.CreateMeal(ctx, models.MealData{Name: "Fattah", Calories: 650, Tags: []string{"beef"}})
	require.NoError(t, err)
	assert.True(t, meal.Active)
	assert.JSONEq(t, `["beef"]`, string(meal.Tags))

	meals, err := svc.ListMeals(ctx)
	require.NoError(t, err)
	require.Len(t, meals, 1)

	inactive := false
	_, err = svc.UpdateMeal(ctx, meal.ID, models.MealData{Name: "Fattah", Active: &inactive})
	require.NoError(t, err)

	meals, err = svc.ListMeals(ctx)
	require.NoError(t, err)
	assert.Empty(t, meals)
	_, err = svc.GetMeal(ctx, meal.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := svc.AllMeals(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	withImage, err := svc.SetMealImage(ctx, meal.ID, "https://cdn.test/fattah.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/fattah.jpg", withImage.ImageURL)

	require.NoError(t, svc.DeleteMeal(ctx, meal.ID))
	assert.ErrorIs(t, svc.DeleteMeal(ctx, meal.ID), ErrNotFound)
}

func TestWeekMenu(t *testing.T) {
	svc, _ := newMenuService()
	ctx := context.Background()
	start := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	_, err := svc.CreateWeek(ctx, models.WeekData{Label: "Bad", StartDate: start, OrderDeadline: start.Add(time.Hour)})
	assert.True(t, IsValidation(err))

	week, err := svc.CreateWeek(ctx, models.WeekData{Label: "Week 11", StartDate: start, OrderDeadline: start.Add(-48 * time.Hour)})
	require.NoError(t, err)

	_, err = svc.WeekMenu(ctx, week.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	week, err = svc.UpdateWeek(ctx, week.ID, models.WeekData{Label: "Week 11", StartDate: start, OrderDeadline: start.Add(-48 * time.Hour), Published: true})
	require.NoError(t, err)
	assert.True(t, week.Published)

	menu, err := svc.WeekMenu(ctx, week.ID)
	require.NoError(t, err)
	assert.Empty(t, menu.Meals)

	soup, err := svc.CreateMeal(ctx, models.MealData{Name: "Lentil Soup"})
	require.NoError(t, err)
	rice, err := svc.CreateMeal(ctx, models.MealData{Name: "Roz Bel Laban"})
	require.NoError(t, err)

	_, err = svc.SetWeekMenu(ctx, week.ID, []uint{soup.ID, 999})
	assert.True(t, IsValidation(err))

	updated, err := svc.SetWeekMenu(ctx, week.ID, []uint{soup.ID, rice.ID, soup.ID})
	require.NoError(t, err)
	assert.Len(t, updated.Meals, 2)

	menu, err = svc.WeekMenu(ctx, week.ID)
	require.NoError(t, err)
	assert.Len(t, menu.Meals, 2)

	// Retiring a meal drops it from every cached menu.
	off := false
	_, err = svc.UpdateMeal(ctx, rice.ID, models.MealData{Name: "Roz Bel Laban", Active: &off})
	require.NoError(t, err)
	menu, err = svc.WeekMenu(ctx, week.ID)
	require.NoError(t, err)
	assert.Len(t, menu.Meals, 1)

	weeks, err := svc.ListWeeks(ctx)
	require.NoError(t, err)
	assert.Len(t, weeks, 1)
}

func TestNeighborhoods(t *testing.T) {
	_, svc := newMenuService()
	ctx := context.Background()

	maadi, err := svc.Create(ctx, models.Neighborhood{Name: " Maadi ", IsServiced: true})
	require.NoError(t, err)
	assert.Equal(t, "Maadi", maadi.Name)

	_, err = svc.Create(ctx, models.Neighborhood{Name: "Maadi"})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = svc.Create(ctx, models.Neighborhood{Name: "  "})
	assert.True(t, IsValidation(err))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.Update(ctx, maadi.ID, models.Neighborhood{IsServiced: false})
	require.NoError(t, err)
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.False(t, list[0].IsServiced)
	assert.Equal(t, "Maadi", list[0].Name)

	require.NoError(t, svc.Delete(ctx, maadi.ID))
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
