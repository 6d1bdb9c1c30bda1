package models

import (
	"time"

	"gorm.io/gorm"
)

type Week struct {
	gorm.Model
	Label         string    `json:"label" binding:"required"`
	StartDate     time.Time `json:"startDate" binding:"required"`
	OrderDeadline time.Time `json:"orderDeadline" binding:"required"`
	Published     bool      `json:"published"`
	Meals         []Meal    `json:"meals,omitempty" gorm:"many2many:week_meals;"`
}

// IsOpen reports whether orders for the week can still be placed or changed.
func (w Week) IsOpen(now time.Time) bool {
	return w.Published && now.Before(w.OrderDeadline)
}

type WeekData struct {
	Label         string    `json:"label" binding:"required"`
	StartDate     time.Time `json:"startDate" binding:"required"`
	OrderDeadline time.Time `json:"orderDeadline" binding:"required"`
	Published     bool      `json:"published"`
}

type MenuData struct {
	MealIDs []uint `json:"mealIds" binding:"required"`
}
