package routes

import (
	"github.com/Kariqs/mealplan-api/controllers"
	"github.com/Kariqs/mealplan-api/metrics"
	"github.com/gin-gonic/gin"
)

func DefaultRoutes(server *gin.Engine, h Handlers) {
	server.GET("/", controllers.GetHome)
	server.GET("/healthz", h.Health.GetHealth)
	server.GET("/metrics", gin.WrapH(metrics.Handler()))
}
