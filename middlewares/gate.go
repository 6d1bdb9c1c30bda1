package middlewares

import (
	"context"
	"net/http"

	"github.com/Kariqs/mealplan-api/session"
	"github.com/gin-gonic/gin"
)

// SessionLoader assembles the session state from the ids found in the request.
type SessionLoader interface {
	SessionState(ctx context.Context, userID, adminID uint) session.State
}

const stateKey = "session"

// LoadSession resolves the session state once per request.
func LoadSession(ctx *gin.Context, loader SessionLoader) session.State {
	if cached, ok := ctx.Get(stateKey); ok {
		if state, ok := cached.(session.State); ok {
			return state
		}
	}
	userID, _ := UserID(ctx)
	adminID, _ := AdminID(ctx)
	state := loader.SessionState(ctx.Request.Context(), userID, adminID)
	ctx.Set(stateKey, state)
	return state
}

// Gate lets the request through only when the session may enter area. Anonymous visitors
// get 401, signed-in visitors in the wrong place get 403, both with the redirect target.
func Gate(area session.Area, loader SessionLoader) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		state := LoadSession(ctx, loader)
		decision := session.Resolve(area, state)
		if decision.Allow {
			ctx.Next()
			return
		}
		status := http.StatusForbidden
		if decision.Redirect == session.LoginPath || decision.Redirect == session.AdminLoginPath {
			status = http.StatusUnauthorized
		}
		ctx.AbortWithStatusJSON(status, gin.H{
			"message":  decision.Reason,
			"redirect": decision.Redirect,
		})
	}
}
