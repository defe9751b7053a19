package routes

import (
	"github.com/Mokereri/hotel-kitchen-api/controllers"
	"github.com/Mokereri/hotel-kitchen-api/middlewares"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine, jwtSecret string) {
	auth := middlewares.RequireAuth(jwtSecret)
	server.POST("/checkout", auth, controllers.Checkout)
	server.GET("/orders", auth, controllers.GetMyOrders)
	server.GET("/orders/:orderId", auth, controllers.TrackOrder)

	admin := server.Group("/admin", auth, middlewares.RequireAdmin())
	{
		admin.GET("/orders", controllers.GetOrders)
		admin.PATCH("/orders/:orderId/status", controllers.UpdateOrderStatus)
	}
}
