package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Meal struct {
	gorm.Model
	Name          string         `json:"name" binding:"required"`
	Description   string         `json:"description"`
	ImageURL      string         `json:"imageUrl"`
	Calories      int            `json:"calories"`
	LargeCalories int            `json:"largeCalories"`
	Tags          datatypes.JSON `json:"tags"`
	Active        bool           `json:"active" gorm:"default:true"`
}

type MealData struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Calories      int      `json:"calories" binding:"min=0"`
	LargeCalories int      `json:"largeCalories" binding:"min=0"`
	Tags          []string `json:"tags"`
	Active        *bool    `json:"active"`
}
