package controllers

import (
	"net/http"
	"strconv"

	"github.com/Kariqs/mealplan-api/middlewares"
	"github.com/Kariqs/mealplan-api/models"
	"github.com/Kariqs/mealplan-api/services"
	"github.com/Kariqs/mealplan-api/utils"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

func (c *OrderController) CreateOrder(ctx *gin.Context) {
	var planData models.PlanData
	if err := ctx.ShouldBindJSON(&planData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, _ := middlewares.UserID(ctx)
	order, err := c.orders.CreatePlan(ctx.Request.Context(), userID, planData)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Order created successfully", "order": order})
}

func (c *OrderController) GetMyOrders(ctx *gin.Context) {
	userID, _ := middlewares.UserID(ctx)
	orders, err := c.orders.ListForUser(ctx.Request.Context(), userID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

func (c *OrderController) GetOrderById(ctx *gin.Context) {
	orderID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	userID, _ := middlewares.UserID(ctx)
	order, err := c.orders.Get(ctx.Request.Context(), userID, orderID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

func (c *OrderController) AddOrderItem(ctx *gin.Context) {
	type OrderItemBody struct {
		MealID      uint   `json:"mealId" binding:"required"`
		PortionSize string `json:"portionSize"`
	}

	orderID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var itemData OrderItemBody
	if err := ctx.ShouldBindJSON(&itemData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	userID, _ := middlewares.UserID(ctx)
	order, err := c.orders.AddMeal(ctx.Request.Context(), userID, orderID, itemData.MealID, itemData.PortionSize)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

func (c *OrderController) RemoveOrderItem(ctx *gin.Context) {
	orderID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	itemID, ok := paramID(ctx, "itemId")
	if !ok {
		return
	}

	userID, _ := middlewares.UserID(ctx)
	order, err := c.orders.RemoveMeal(ctx.Request.Context(), userID, orderID, itemID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

func (c *OrderController) SkipOrder(ctx *gin.Context) {
	type SkipBody struct {
		Skipped *bool `json:"skipped" binding:"required"`
	}

	orderID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var skipData SkipBody
	if err := ctx.ShouldBindJSON(&skipData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	userID, _ := middlewares.UserID(ctx)
	order, err := c.orders.SetSkipped(ctx.Request.Context(), userID, orderID, *skipData.Skipped)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

func (c *OrderController) Checkout(ctx *gin.Context) {
	orderID, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	userID, _ := middlewares.UserID(ctx)
	checkout, err := c.orders.StartCheckout(ctx.Request.Context(), userID, orderID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"iframeUrl":     checkout.IframeURL,
		"paymobOrderId": checkout.PaymobOrderID,
	})
}

// GetOrders lists orders for the admin dashboard, optionally filtered by week and status.
func (c *OrderController) GetOrders(ctx *gin.Context) {
	page := utils.ParsePage(ctx, 10)

	var weekID uint
	if raw := ctx.Query("weekId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "invalid weekId")
			return
		}
		weekID = uint(parsed)
	}

	result, err := c.orders.AdminList(ctx.Request.Context(), weekID, ctx.Query("status"), page)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"orders":   result.Orders,
		"metadata": page.Metadata(result.Total),
	})
}

func (c *OrderController) GetOrderForAdmin(ctx *gin.Context) {
	orderID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	order, err := c.orders.AdminGet(ctx.Request.Context(), orderID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

func (c *OrderController) UpdateOrderStatus(ctx *gin.Context) {
	type StatusBody struct {
		Status string `json:"status" binding:"required"`
	}

	orderID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var statusData StatusBody
	if err := ctx.ShouldBindJSON(&statusData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	order, err := c.orders.ChangeStatus(ctx.Request.Context(), orderID, statusData.Status)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order status updated", "order": order})
}

func (c *OrderController) DeleteOrder(ctx *gin.Context) {
	orderID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := c.orders.Delete(ctx.Request.Context(), orderID); err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order deleted successfully"})
}

func (c *OrderController) GetUndeliveredOrders(ctx *gin.Context) {
	count, err := c.orders.CountUndelivered(ctx.Request.Context())
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"undeliveredOrderCount": count})
}
