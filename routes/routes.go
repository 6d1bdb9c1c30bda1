// Package routes mounts the HTTP handlers on the gin engine.
package routes

import (
	"github.com/Kariqs/mealplan-api/controllers"
	"github.com/Kariqs/mealplan-api/middlewares"
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the route tables need.
type Handlers struct {
	Auth          *controllers.AuthController
	Session       *controllers.SessionController
	Pricing       *controllers.PricingController
	Menu          *controllers.MenuController
	Orders        *controllers.OrderController
	Payments      *controllers.PaymentController
	Neighborhoods *controllers.NeighborhoodController
	Health        *controllers.HealthController

	Sessions    middlewares.SessionLoader
	AuthLimiter *middlewares.RateLimiter
}

// Register mounts every route group under server.
func Register(server *gin.Engine, h Handlers) {
	DefaultRoutes(server, h)
	api := server.Group("/api")
	AuthRoutes(api, h)
	MenuRoutes(api, h)
	OrderRoutes(api, h)
	PaymentRoutes(api, h)
	AdminRoutes(api, h)
}
