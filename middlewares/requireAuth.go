package middlewares

import (
	"net/http"
	"strings"

	"github.com/Kariqs/mealplan-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	UserCookie  = "token"
	AdminCookie = "admin_token"

	userKey  = "user"
	adminKey = "admin"
)

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Authenticate reads the user and admin sessions from their cookies or a bearer token and
// stores the claims under "user" and "admin". It never rejects a request by itself.
func Authenticate(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		store := func(raw string) {
			if raw == "" {
				return
			}
			claims, err := utils.ParseJWT(secret, raw)
			if err != nil {
				return
			}
			switch utils.ClaimRole(claims) {
			case utils.RoleUser:
				ctx.Set(userKey, claims)
			case utils.RoleAdmin:
				ctx.Set(adminKey, claims)
			}
		}
		if raw, err := ctx.Cookie(UserCookie); err == nil {
			store(raw)
		}
		if raw, err := ctx.Cookie(AdminCookie); err == nil {
			store(raw)
		}
		store(bearerToken(ctx))
		ctx.Next()
	}
}

func claimID(ctx *gin.Context, key string) (uint, bool) {
	value, exists := ctx.Get(key)
	if !exists {
		return 0, false
	}
	claims, ok := value.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	return utils.ClaimID(claims)
}

// UserID returns the signed-in customer, if any.
func UserID(ctx *gin.Context) (uint, bool) { return claimID(ctx, userKey) }

// AdminID returns the signed-in administrator, if any.
func AdminID(ctx *gin.Context) (uint, bool) { return claimID(ctx, adminKey) }

func RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, ok := UserID(ctx); !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthenticated"})
			return
		}
		ctx.Next()
	}
}
