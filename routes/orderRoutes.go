package routes

import (
	"github.com/Kariqs/mealplan-api/middlewares"
	"github.com/Kariqs/mealplan-api/session"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(api *gin.RouterGroup, h Handlers) {
	orders := api.Group("/orders", middlewares.Gate(session.AreaApp, h.Sessions))
	{
		orders.POST("", h.Orders.CreateOrder)
		orders.GET("", h.Orders.GetMyOrders)
		orders.GET("/:id", h.Orders.GetOrderById)
		orders.POST("/:id/items", h.Orders.AddOrderItem)
		orders.DELETE("/:id/items/:itemId", h.Orders.RemoveOrderItem)
		orders.POST("/:id/skip", h.Orders.SkipOrder)
		orders.POST("/:id/checkout", h.Orders.Checkout)
	}
}

func PaymentRoutes(api *gin.RouterGroup, h Handlers) {
	paymob := api.Group("/payments/paymob")
	{
		paymob.GET("/response", h.Payments.HandlePaymobResponse)
		paymob.POST("/webhook", h.Payments.HandlePaymobWebhook)
	}
}
