package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/Mokereri/hotel-kitchen-api/middlewares"
	"github.com/Mokereri/hotel-kitchen-api/models"
	"github.com/Mokereri/hotel-kitchen-api/session"
	"github.com/gin-gonic/gin"
)

type addCartItemData struct {
	MealID   int `json:"mealId" binding:"required"`
	Quantity int `json:"quantity" binding:"required"`
}

type updateCartItemData struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type personalizationData struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Message string `json:"message"`
}

// loadSession fetches the caller's session, writing the error response
// itself when that fails.
func loadSession(ctx *gin.Context) (*session.Session, bool) {
	sess, err := deps.Flow.Load(ctx.Request.Context(), middlewares.CurrentUserEmail(ctx))
	if err != nil {
		sendAppError(ctx, err)
		return nil, false
	}
	return sess, true
}

func cartResponse(sess *session.Session) gin.H {
	cart := deps.Flow.GetCart(sess)
	items := cart.Items
	if items == nil {
		items = []session.CartItem{}
	}
	return gin.H{
		"items":           items,
		"total":           cart.Total(),
		"personalization": sess.Personalization,
		"state":           sess.State,
		"lastOrderId":     sess.LastOrderID,
	}
}

func mealIDParam(ctx *gin.Context) (int, bool) {
	mealID, err := strconv.Atoi(ctx.Param("mealId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid meal ID")
		return 0, false
	}
	return mealID, true
}

func GetCart(ctx *gin.Context) {
	sess, ok := loadSession(ctx)
	if !ok {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, cartResponse(sess))
}

func AddCartItem(ctx *gin.Context) {
	var data addCartItemData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	sess, ok := loadSession(ctx)
	if !ok {
		return
	}
	if err := deps.Flow.AddToCart(ctx.Request.Context(), sess, data.MealID, data.Quantity); err != nil {
		sendAppError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, cartResponse(sess))
}

func UpdateCartItem(ctx *gin.Context) {
	mealID, ok := mealIDParam(ctx)
	if !ok {
		return
	}
	var data updateCartItemData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	sess, ok := loadSession(ctx)
	if !ok {
		return
	}
	if err := deps.Flow.UpdateCartItem(ctx.Request.Context(), sess, mealID, *data.Quantity); err != nil {
		sendAppError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, cartResponse(sess))
}

func RemoveCartItem(ctx *gin.Context) {
	mealID, ok := mealIDParam(ctx)
	if !ok {
		return
	}
	sess, ok := loadSession(ctx)
	if !ok {
		return
	}
	if err := deps.Flow.RemoveFromCart(ctx.Request.Context(), sess, mealID); err != nil {
		sendAppError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, cartResponse(sess))
}

func SetPersonalization(ctx *gin.Context) {
	var data personalizationData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Name and phone are required for personalization")
		return
	}

	sess, ok := loadSession(ctx)
	if !ok {
		return
	}
	p := models.Personalization{Name: data.Name, Phone: data.Phone, Message: data.Message}
	if err := deps.Flow.Personalize(ctx.Request.Context(), sess, p); err != nil {
		sendAppError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, cartResponse(sess))
}

func ClearPersonalization(ctx *gin.Context) {
	sess, ok := loadSession(ctx)
	if !ok {
		return
	}
	if err := deps.Flow.ClearPersonalization(ctx.Request.Context(), sess); err != nil {
		sendAppError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, cartResponse(sess))
}
