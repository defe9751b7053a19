package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Hotel Kitchen API. Order a meal and pay with M-Pesa.

The following are the endpoints for this API:

AUTH
- POST "/auth/register" - Create user account
- POST "/auth/login" - Access user account

MENU
- GET "/meals" - Get all meals
- GET "/meals/:id" - Get meal by ID
- POST "/meals/:id/image" - Upload meal image (admin)

CART
- GET "/cart" - View your cart
- POST "/cart/items" - Add a meal to your cart
- PATCH "/cart/items/:mealId" - Change quantity (0 removes)
- DELETE "/cart/items/:mealId" - Remove a meal
- PUT "/cart/personalization" - Personalize your order
- DELETE "/cart/personalization" - Remove personalization

ORDER
- POST "/checkout" - Pay for your cart with M-Pesa
- GET "/orders" - Your order history
- GET "/orders/:orderId" - Track an order
- GET "/admin/orders" - Retrieve all orders (admin)
- PATCH "/admin/orders/:orderId/status" - Update order status (admin)`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
