package routes

import "github.com/gin-gonic/gin"

func MenuRoutes(api *gin.RouterGroup, h Handlers) {
	api.GET("/pricing", h.Pricing.GetPricing)
	api.POST("/pricing/quote", h.Pricing.Quote)

	api.GET("/meals", h.Menu.GetMeals)
	api.GET("/meals/:id", h.Menu.GetMeal)
	api.GET("/weeks", h.Menu.GetWeeks)
	api.GET("/weeks/:id/menu", h.Menu.GetWeekMenu)

	api.GET("/neighborhoods", h.Neighborhoods.GetNeighborhoods)
	api.POST("/waitlist", h.AuthLimiter.Handler(), h.Neighborhoods.JoinWaitlist)
}
