package routes

import (
	"github.com/Mokereri/hotel-kitchen-api/controllers"
	"github.com/Mokereri/hotel-kitchen-api/middlewares"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine, jwtSecret string) {
	cart := server.Group("/cart", middlewares.RequireAuth(jwtSecret))
	{
		cart.GET("", controllers.GetCart)
		cart.POST("/items", controllers.AddCartItem)
		cart.PATCH("/items/:mealId", controllers.UpdateCartItem)
		cart.DELETE("/items/:mealId", controllers.RemoveCartItem)
		cart.PUT("/personalization", controllers.SetPersonalization)
		cart.DELETE("/personalization", controllers.ClearPersonalization)
	}
}
