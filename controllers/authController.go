package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Kariqs/mealplan-api/middlewares"
	"github.com/Kariqs/mealplan-api/models"
	"github.com/Kariqs/mealplan-api/services"
	"github.com/gin-gonic/gin"
)

const msgUserNotFound = "user with this email does not exist"

type CookieConfig struct {
	Secure bool
	TTL    time.Duration
}

type AuthController struct {
	accounts *services.AccountService
	cookies  CookieConfig
}

func NewAuthController(accounts *services.AccountService, cookies CookieConfig) *AuthController {
	return &AuthController{accounts: accounts, cookies: cookies}
}

func (c *AuthController) setCookie(ctx *gin.Context, name, value string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(name, value, maxAge, "/", "", c.cookies.Secure, true)
}

// Signup handles user registration. Visitors without a valid referral code end up on the
// waitlist and get 202.
func (c *AuthController) Signup(ctx *gin.Context) {
	var signUpData models.SignupData
	if err := ctx.ShouldBindJSON(&signUpData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := c.accounts.Signup(ctx.Request.Context(), signUpData)
	if errors.Is(err, services.ErrWaitlisted) {
		sendJSONResponse(ctx, http.StatusAccepted, gin.H{"message": msgWaitlistedReferral, "waitlisted": true})
		return
	}
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": msgUserCreated, "user": user})
}

// Login handles user authentication
func (c *AuthController) Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	token, user, err := c.accounts.Login(ctx.Request.Context(), loginData)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	c.setCookie(ctx, middlewares.UserCookie, token, int(c.cookies.TTL.Seconds()))
	sendJSONResponse(ctx, http.StatusOK, gin.H{"token": token, "user": user})
}

func (c *AuthController) Logout(ctx *gin.Context) {
	c.setCookie(ctx, middlewares.UserCookie, "", -1)
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgLoggedOut})
}

func (c *AuthController) Me(ctx *gin.Context) {
	userID, ok := middlewares.UserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgUnauthenticated)
		return
	}
	user, err := c.accounts.User(ctx.Request.Context(), userID)
	if errors.Is(err, services.ErrNotFound) {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgUnauthenticated)
		return
	}
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"user": user})
}

// SendPasswordResetLink sends a password reset link to the user's email
func (c *AuthController) SendPasswordResetLink(ctx *gin.Context) {
	type ForgotPasswordBody struct {
		Email string `json:"email" binding:"required,email"`
	}

	var forgotPasswordData ForgotPasswordBody
	if err := ctx.ShouldBindJSON(&forgotPasswordData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	err := c.accounts.ForgotPassword(ctx.Request.Context(), forgotPasswordData.Email)
	if errors.Is(err, services.ErrNotFound) {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUserNotFound)
		return
	}
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgResetLinkSent})
}

// ResetPassword resets a user's password using a reset token
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	type ResetPasswordInfo struct {
		Password string `json:"password" binding:"required,min=8"`
	}

	var resetPasswordData ResetPasswordInfo
	if err := ctx.ShouldBindJSON(&resetPasswordData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	err := c.accounts.ResetPassword(ctx.Request.Context(), ctx.Param("resetToken"), resetPasswordData.Password)
	if errors.Is(err, services.ErrNotFound) {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidResetLink)
		return
	}
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgPasswordReset})
}

func (c *AuthController) GetProfile(ctx *gin.Context) {
	userID, _ := middlewares.UserID(ctx)
	user, err := c.accounts.User(ctx.Request.Context(), userID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"profile": user, "onboarded": user.Onboarded()})
}

// UpdateProfile completes onboarding. An unserviced neighborhood answers 409 with
// waitlisted set.
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	var profileData models.ProfileData
	if err := ctx.ShouldBindJSON(&profileData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	userID, _ := middlewares.UserID(ctx)
	user, err := c.accounts.UpdateProfile(ctx.Request.Context(), userID, profileData)
	if errors.Is(err, services.ErrWaitlisted) {
		sendJSONResponse(ctx, http.StatusConflict, gin.H{"message": msgWaitlistedArea, "waitlisted": true})
		return
	}
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"profile": user, "onboarded": user.Onboarded()})
}

func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	token, admin, err := c.accounts.AdminLogin(ctx.Request.Context(), loginData)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	c.setCookie(ctx, middlewares.AdminCookie, token, int(c.cookies.TTL.Seconds()))
	sendJSONResponse(ctx, http.StatusOK, gin.H{"token": token, "admin": admin})
}

func (c *AuthController) AdminLogout(ctx *gin.Context) {
	c.setCookie(ctx, middlewares.AdminCookie, "", -1)
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgLoggedOut})
}

func (c *AuthController) AdminMe(ctx *gin.Context) {
	adminID, _ := middlewares.AdminID(ctx)
	admin, err := c.accounts.Admin(ctx.Request.Context(), adminID)
	if errors.Is(err, services.ErrNotFound) {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgUnauthenticated)
		return
	}
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"admin": admin})
}
