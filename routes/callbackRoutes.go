package routes

import (
	"github.com/Mokereri/hotel-kitchen-api/controllers"
	"github.com/gin-gonic/gin"
)

func CallbackRoutes(server *gin.Engine) {
	server.POST("/mpesa_callback", controllers.MpesaCallback)
}
