package routes

import (
	"github.com/Mokereri/hotel-kitchen-api/controllers"
	"github.com/Mokereri/hotel-kitchen-api/middlewares"
	"github.com/gin-gonic/gin"
)

func MealRoutes(server *gin.Engine, jwtSecret string) {
	server.GET("/meals", controllers.GetMeals)
	server.GET("/meals/:id", controllers.GetMeal)
	server.POST("/meals/:id/image", middlewares.RequireAuth(jwtSecret), middlewares.RequireAdmin(), controllers.UploadMealImage)
}
