package models

import "gorm.io/gorm"

const (
	PortionStandard = "standard"
	PortionLarge    = "large"
	PortionMixed    = "mixed"

	SlotMorning = "morning"
	SlotEvening = "evening"
)

const (
	StatusPendingPayment = "pending_payment"
	StatusPaid           = "paid"
	StatusPaymentFailed  = "payment_failed"
	StatusConfirmed      = "confirmed"
	StatusPreparing      = "preparing"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
	StatusExpired        = "expired"
)

var orderTransitions = map[string][]string{
	StatusPendingPayment: {StatusPaid, StatusPaymentFailed, StatusCancelled, StatusExpired},
	StatusPaymentFailed:  {StatusPendingPayment, StatusPaid, StatusCancelled, StatusExpired},
	StatusPaid:           {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsKnownStatus reports whether status is part of the order lifecycle.
func IsKnownStatus(status string) bool {
	switch status {
	case StatusPendingPayment, StatusPaid, StatusPaymentFailed, StatusConfirmed, StatusPreparing,
		StatusOutForDelivery, StatusDelivered, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

type Order struct {
	gorm.Model
	UserID           uint        `json:"userId" gorm:"index"`
	WeekID           uint        `json:"weekId" gorm:"index"`
	MealCount        int         `json:"mealCount"`
	PortionSize      string      `json:"portionSize" gorm:"size:16"`
	LargeMeals       int         `json:"largeMeals"`
	DeliverySlot     string      `json:"deliverySlot" gorm:"size:16"`
	Status           string      `json:"status" gorm:"size:32;index"`
	Skipped          bool        `json:"skipped"`
	SubtotalCents    int64       `json:"subtotalCents"`
	DiscountCents    int64       `json:"discountCents"`
	TotalCents       int64       `json:"totalCents"`
	PaymobOrderID    string      `json:"paymobOrderId" gorm:"index;size:64"`
	PaymentReference string      `json:"paymentReference" gorm:"size:64"`
	OrderItems       []OrderItem `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// Editable reports whether the meal selection and skip flag can still change.
func (o Order) Editable() bool {
	switch o.Status {
	case StatusPendingPayment, StatusPaymentFailed, StatusPaid, StatusConfirmed:
		return true
	}
	return false
}

// Fulfilling reports whether the order has been paid and moved on into fulfilment.
func (o Order) Fulfilling() bool {
	switch o.Status {
	case StatusConfirmed, StatusPreparing, StatusOutForDelivery, StatusDelivered:
		return true
	}
	return false
}

// Live reports whether the order still counts as the user's order for its week.
func (o Order) Live() bool {
	return o.Status != StatusCancelled && o.Status != StatusExpired
}

// PortionSlots returns how many items of the given portion the order still accepts.
func (o Order) PortionSlots(portion string) int {
	var capacity int
	switch o.PortionSize {
	case PortionMixed:
		if portion == PortionLarge {
			capacity = o.LargeMeals
		} else {
			capacity = o.MealCount - o.LargeMeals
		}
	default:
		if portion == o.PortionSize {
			capacity = o.MealCount
		}
	}
	for _, item := range o.OrderItems {
		if item.PortionSize == portion {
			capacity--
		}
	}
	return capacity
}

type OrderItem struct {
	gorm.Model
	OrderID     uint   `json:"orderId" gorm:"index"`
	MealID      uint   `json:"mealId"`
	MealName    string `json:"mealName"`
	PortionSize string `json:"portionSize" gorm:"size:16"`
}

type PlanData struct {
	WeekID       uint   `json:"weekId" binding:"required"`
	MealCount    int    `json:"mealCount" binding:"required"`
	PortionSize  string `json:"portionSize" binding:"required"`
	LargeMeals   int    `json:"largeMeals"`
	DeliverySlot string `json:"deliverySlot" binding:"required"`
}
