package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Kariqs/mealplan-api/pricing"
	"github.com/Kariqs/mealplan-api/services"
	"github.com/gin-gonic/gin"
)

// Standard response messages
const (
	msgInvalidInput        = "invalid input"
	msgInvalidID           = "invalid id"
	msgInternalServerError = "Internal server error"
	msgUnauthenticated     = "unauthenticated"
	msgResetLinkSent       = "Check your email for a password reset link."
	msgPasswordReset       = "Password has been reset successfully."
	msgInvalidResetLink    = "Invalid or expired reset link"
	msgUserCreated         = "User created successfully."
	msgLoggedOut           = "Logged out"
	msgWaitlistedReferral  = "Signups are invite only for now. You have been added to the waitlist."
	msgWaitlistedArea      = "We do not deliver to your neighborhood yet. You have been added to the waitlist."
	msgDeleted             = "Deleted successfully"
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

// respondWithError attaches err to the request for the access log and sends only the message.
func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	if err != nil {
		_ = ctx.Error(err)
	}
	sendErrorResponse(ctx, statusCode, message)
}

// handleServiceError maps a service error to its HTTP status. Unknown errors are 500s and
// their text stays out of the response.
func handleServiceError(ctx *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, pricing.ErrMealCount), errors.Is(err, pricing.ErrPortionSize), errors.Is(err, pricing.ErrLargeMeals):
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrForbidden):
		sendErrorResponse(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		sendErrorResponse(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrNotOnboarded):
		sendJSONResponse(ctx, http.StatusForbidden, gin.H{"message": err.Error(), "redirect": "/onboarding"})
	case errors.Is(err, services.ErrAmountMismatch):
		respondWithError(ctx, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrWeekClosed),
		errors.Is(err, services.ErrOrderLocked),
		errors.Is(err, services.ErrOrderFull),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrDuplicateOrder),
		errors.Is(err, services.ErrEmailTaken):
		sendErrorResponse(ctx, http.StatusConflict, err.Error())
	default:
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
	}
}

func paramID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	return uint(id), true
}
