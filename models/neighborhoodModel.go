package models

import "gorm.io/gorm"

type Neighborhood struct {
	gorm.Model
	Name       string `json:"name" binding:"required" gorm:"uniqueIndex;size:191"`
	IsServiced bool   `json:"isServiced"`
}
