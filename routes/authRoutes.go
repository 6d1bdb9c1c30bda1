package routes

import (
	"github.com/Kariqs/mealplan-api/middlewares"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(api *gin.RouterGroup, h Handlers) {
	limited := h.AuthLimiter.Handler()

	auth := api.Group("/auth")
	{
		auth.POST("/signup", limited, h.Auth.Signup)
		auth.POST("/login", limited, h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", h.Auth.Me)
		auth.POST("/forgot-password", limited, h.Auth.SendPasswordResetLink)
		auth.POST("/reset-password/:resetToken", h.Auth.ResetPassword)
	}

	profile := api.Group("/users/profile", middlewares.RequireAuth())
	{
		profile.GET("", h.Auth.GetProfile)
		profile.PUT("", h.Auth.UpdateProfile)
	}

	api.GET("/session/gate", h.Session.GetGate)
	api.POST("/admin/login", limited, h.Auth.AdminLogin)
	api.POST("/admin/logout", h.Auth.AdminLogout)
}
