package controllers

import (
	"net/http"

	"github.com/Kariqs/mealplan-api/pricing"
	"github.com/gin-gonic/gin"
)

type PricingController struct {
	table *pricing.Table
}

func NewPricingController(table *pricing.Table) *PricingController {
	return &PricingController{table: table}
}

func (c *PricingController) GetPricing(ctx *gin.Context) {
	sendJSONResponse(ctx, http.StatusOK, gin.H{"pricing": c.table})
}

func (c *PricingController) Quote(ctx *gin.Context) {
	var plan pricing.Plan
	if err := ctx.ShouldBindJSON(&plan); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	quote, err := c.table.Quote(plan)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"quote": quote})
}
