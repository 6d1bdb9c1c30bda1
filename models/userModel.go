package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name               string        `json:"name"`
	Email              string        `json:"email" gorm:"uniqueIndex;size:191"`
	Password           string        `json:"-"`
	Phone              string        `json:"phone"`
	Address            string        `json:"address"`
	NeighborhoodID     *uint         `json:"neighborhoodId"`
	Neighborhood       *Neighborhood `json:"neighborhood,omitempty"`
	ReferralCode       string        `json:"referralCode"`
	PasswordResetToken string        `json:"-" gorm:"index;size:64"`
}

// Onboarded reports whether the profile carries everything needed to check out.
func (u User) Onboarded() bool {
	return u.Phone != "" && u.Address != "" && u.Neighborhood != nil && u.Neighborhood.IsServiced
}

type SignupData struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	ReferralCode string `json:"referralCode"`
	Neighborhood string `json:"neighborhood"`
}

type LoginData struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ProfileData struct {
	Name           string `json:"name"`
	Phone          string `json:"phone" binding:"required"`
	Address        string `json:"address" binding:"required"`
	NeighborhoodID uint   `json:"neighborhoodId" binding:"required"`
}
