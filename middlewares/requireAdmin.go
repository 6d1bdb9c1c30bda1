package middlewares

import (
	"net/http"

	"github.com/Kariqs/mealplan-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		adminClaims, exists := ctx.Get(adminKey)
		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Admin session not found"})
			return
		}

		claims, ok := adminClaims.(jwt.MapClaims)
		if !ok || utils.ClaimRole(claims) != utils.RoleAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}

		ctx.Next()
	}
}
