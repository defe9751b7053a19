package routes

import (
	"github.com/Mokereri/hotel-kitchen-api/controllers"
	"github.com/Mokereri/hotel-kitchen-api/metrics"
	"github.com/gin-gonic/gin"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
	OpsRoutes(server)
}

// OpsRoutes serves health and metrics only.
func OpsRoutes(server *gin.Engine) {
	server.GET("/health", controllers.Health)
	server.GET("/metrics", gin.WrapH(metrics.Handler()))
}
