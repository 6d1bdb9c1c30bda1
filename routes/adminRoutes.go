package routes

import (
	"github.com/Kariqs/mealplan-api/middlewares"
	"github.com/Kariqs/mealplan-api/session"
	"github.com/gin-gonic/gin"
)

func AdminRoutes(api *gin.RouterGroup, h Handlers) {
	admin := api.Group("/admin", middlewares.Gate(session.AreaAdmin, h.Sessions), middlewares.RequireAdmin())
	{
		admin.GET("/me", h.Auth.AdminMe)

		admin.GET("/orders", h.Orders.GetOrders)
		admin.GET("/orders/undelivered", h.Orders.GetUndeliveredOrders)
		admin.GET("/orders/:id", h.Orders.GetOrderForAdmin)
		admin.PATCH("/orders/:id/status", h.Orders.UpdateOrderStatus)
		admin.DELETE("/orders/:id", h.Orders.DeleteOrder)

		admin.GET("/meals", h.Menu.GetAllMeals)
		admin.POST("/meals", h.Menu.CreateMeal)
		admin.PUT("/meals/:id", h.Menu.UpdateMeal)
		admin.DELETE("/meals/:id", h.Menu.DeleteMeal)
		admin.POST("/meals/:id/image", h.Menu.UploadMealImage)

		admin.GET("/weeks", h.Menu.GetAllWeeks)
		admin.POST("/weeks", h.Menu.CreateWeek)
		admin.PUT("/weeks/:id", h.Menu.UpdateWeek)
		admin.PUT("/weeks/:id/meals", h.Menu.SetWeekMenu)

		admin.POST("/neighborhoods", h.Neighborhoods.CreateNeighborhood)
		admin.PUT("/neighborhoods/:id", h.Neighborhoods.UpdateNeighborhood)
		admin.DELETE("/neighborhoods/:id", h.Neighborhoods.DeleteNeighborhood)

		admin.GET("/waitlist", h.Neighborhoods.GetWaitlist)
		admin.DELETE("/waitlist/:id", h.Neighborhoods.DeleteWaitlistEntry)
	}
}
