package models

import "gorm.io/gorm"

const (
	WaitlistUnservicedNeighborhood = "unserviced_neighborhood"
	WaitlistInvalidReferral        = "invalid_referral_code"
	WaitlistManual                 = "manual"
)

type WaitlistEntry struct {
	gorm.Model
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	Neighborhood string `json:"neighborhood"`
	Reason       string `json:"reason"`
}
