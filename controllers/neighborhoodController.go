package controllers

import (
	"net/http"

	"github.com/Kariqs/mealplan-api/models"
	"github.com/Kariqs/mealplan-api/services"
	"github.com/Kariqs/mealplan-api/utils"
	"github.com/gin-gonic/gin"
)

type NeighborhoodController struct {
	neighborhoods *services.NeighborhoodService
	accounts      *services.AccountService
}

func NewNeighborhoodController(neighborhoods *services.NeighborhoodService, accounts *services.AccountService) *NeighborhoodController {
	return &NeighborhoodController{neighborhoods: neighborhoods, accounts: accounts}
}

func (c *NeighborhoodController) GetNeighborhoods(ctx *gin.Context) {
	neighborhoods, err := c.neighborhoods.List(ctx.Request.Context())
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"neighborhoods": neighborhoods})
}

func (c *NeighborhoodController) CreateNeighborhood(ctx *gin.Context) {
	var neighborhood models.Neighborhood
	if err := ctx.ShouldBindJSON(&neighborhood); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	created, err := c.neighborhoods.Create(ctx.Request.Context(), neighborhood)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"neighborhood": created})
}

func (c *NeighborhoodController) UpdateNeighborhood(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var neighborhood models.Neighborhood
	if err := ctx.ShouldBindJSON(&neighborhood); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	updated, err := c.neighborhoods.Update(ctx.Request.Context(), id, neighborhood)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"neighborhood": updated})
}

func (c *NeighborhoodController) DeleteNeighborhood(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := c.neighborhoods.Delete(ctx.Request.Context(), id); err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgDeleted})
}

func (c *NeighborhoodController) JoinWaitlist(ctx *gin.Context) {
	var entry models.WaitlistEntry
	if err := ctx.ShouldBindJSON(&entry); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	created, err := c.accounts.JoinWaitlist(ctx.Request.Context(), entry)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"entry": created, "waitlisted": true})
}

func (c *NeighborhoodController) GetWaitlist(ctx *gin.Context) {
	page := utils.ParsePage(ctx, 20)
	entries, total, err := c.accounts.Waitlist(ctx.Request.Context(), page)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"entries": entries, "metadata": page.Metadata(total)})
}

func (c *NeighborhoodController) DeleteWaitlistEntry(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := c.accounts.RemoveFromWaitlist(ctx.Request.Context(), id); err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgDeleted})
}
