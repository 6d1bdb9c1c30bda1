package controllers

import (
	"net/http"

	"github.com/Kariqs/mealplan-api/middlewares"
	"github.com/Kariqs/mealplan-api/session"
	"github.com/gin-gonic/gin"
)

type SessionController struct {
	loader middlewares.SessionLoader
}

func NewSessionController(loader middlewares.SessionLoader) *SessionController {
	return &SessionController{loader: loader}
}

// GetGate tells the frontend whether the visitor may enter an area and where to send them
// otherwise.
func (c *SessionController) GetGate(ctx *gin.Context) {
	area, err := session.ParseArea(ctx.DefaultQuery("area", string(session.AreaPublic)))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}
	state := middlewares.LoadSession(ctx, c.loader)
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"decision": session.Resolve(area, state),
		"session":  state,
	})
}
