package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Mealplan API. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

AUTH
- POST "/api/auth/signup" - Create user account
- POST "/api/auth/login" - Access user account
- POST "/api/auth/logout" - End the session
- GET "/api/auth/me" - Current user
- POST "/api/auth/forgot-password" - Request password reset
- POST "/api/auth/reset-password/:resetToken" - Reset user password
- GET/PUT "/api/users/profile" - Read or complete the profile
- GET "/api/session/gate?area=" - Where the visitor may go

MENU
- GET "/api/pricing" - Price table
- POST "/api/pricing/quote" - Price a plan
- GET "/api/meals" - Active meals
- GET "/api/meals/:id" - Meal by ID
- GET "/api/weeks" - Published weeks
- GET "/api/weeks/:id/menu" - Meals offered in a week
- GET "/api/neighborhoods" - Delivery areas
- POST "/api/waitlist" - Join the waitlist

ORDER
- POST "/api/orders" - Create a meal plan order
- GET "/api/orders" - My orders
- GET "/api/orders/:id" - Order by ID
- POST "/api/orders/:id/items" - Add a meal
- DELETE "/api/orders/:id/items/:itemId" - Remove a meal
- POST "/api/orders/:id/skip" - Skip or restore the delivery
- POST "/api/orders/:id/checkout" - Pay with Paymob

ADMIN
- POST "/api/admin/login" - Admin session
- GET "/api/admin/orders" - All orders, paginated
- PATCH "/api/admin/orders/:id/status" - Update order status
- DELETE "/api/admin/orders/:id" - Delete order by ID
- GET "/api/admin/orders/undelivered" - Undelivered order count`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

// HealthCheck is one dependency probe reported by /healthz.
type HealthCheck func(ctx context.Context) error

type HealthController struct {
	checks map[string]HealthCheck
}

func NewHealthController(checks map[string]HealthCheck) *HealthController {
	return &HealthController{checks: checks}
}

// GetHealth runs every probe and answers 503 when any of them fails.
func (c *HealthController) GetHealth(ctx *gin.Context) {
	probeCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := gin.H{}
	for _, name := range names {
		if err := c.checks[name](probeCtx); err != nil {
			_ = ctx.Error(err)
			results[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}
	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	sendJSONResponse(ctx, status, gin.H{"status": state, "checks": results})
}
