// Package services holds the business rules between the HTTP handlers and the stores.
package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("resource changed, retry")
	ErrWeekClosed         = errors.New("ordering for this week is closed")
	ErrOrderLocked        = errors.New("order can no longer be changed")
	ErrOrderFull          = errors.New("order already has all its meals")
	ErrInvalidTransition  = errors.New("status change not allowed")
	ErrDuplicateOrder     = errors.New("you already have an order for this week")
	ErrAmountMismatch     = errors.New("paid amount does not match order total")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("user already exists")
	ErrNotOnboarded       = errors.New("complete your profile first")
	ErrWaitlisted         = errors.New("added to the waitlist")
)

type validationError struct {
	message string
}

func (e validationError) Error() string { return e.message }

func invalidf(format string, args ...any) error {
	return validationError{message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a rule violation the client can fix.
func IsValidation(err error) bool {
	var v validationError
	return errors.As(err, &v)
}
