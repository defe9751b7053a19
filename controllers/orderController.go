package controllers

import (
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/Mokereri/hotel-kitchen-api/middlewares"
	"github.com/Mokereri/hotel-kitchen-api/models"
	"github.com/Mokereri/hotel-kitchen-api/store"
	"github.com/gin-gonic/gin"
)

type checkoutData struct {
	Phone string `json:"phone" binding:"required"`
}

type orderStatusData struct {
	Status string `json:"status" binding:"required"`
}

// Checkout charges the caller's cart through M-Pesa.
func Checkout(ctx *gin.Context) {
	var data checkoutData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendJSONResponse(ctx, http.StatusBadRequest, gin.H{"success": false, "errorMessage": "Phone number is required"})
		return
	}

	sess, ok := loadSession(ctx)
	if !ok {
		return
	}

	result := deps.Flow.Checkout(ctx.Request.Context(), sess, data.Phone)
	if !result.Success {
		status := statusFor(result.Err)
		if status >= http.StatusInternalServerError {
			log.Printf("Checkout for %s failed: %v", sess.UserEmail, result.Err)
		}
		sendJSONResponse(ctx, status, gin.H{"success": false, "errorMessage": result.ErrorMessage})
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success":           true,
		"orderId":           result.OrderID,
		"checkoutRequestId": result.CorrelationID,
		"message":           "Check your phone to complete the M-Pesa payment.",
	})
}

// GetMyOrders is the caller's order history, newest first.
func GetMyOrders(ctx *gin.Context) {
	orders, err := deps.Flow.OrderHistory(ctx.Request.Context(), middlewares.CurrentUserEmail(ctx))
	if err != nil {
		sendAppError(ctx, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

func TrackOrder(ctx *gin.Context) {
	order, err := deps.Flow.TrackOrder(ctx.Request.Context(), ctx.Param("orderId"), middlewares.CurrentUserEmail(ctx))
	if err != nil {
		sendAppError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

// GetOrders lists every order for operators.
func GetOrders(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	opts := store.ListOptions{
		Page:  page,
		Limit: limit,
		Sort:  ctx.DefaultQuery("sort", "desc"),
	}
	if raw := ctx.Query("status"); raw != "" {
		status, err := models.ParseOrderStatus(raw)
		if err != nil {
			sendAppError(ctx, err)
			return
		}
		opts.Status = status
	}

	orders, count, err := deps.Orders.ListOrders(ctx.Request.Context(), opts)
	if err != nil {
		sendAppError(ctx, err)
		return
	}

	// ListOrders clamps out-of-range values; report what it used.
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 15
	}
	previousPage := page - 1
	totalPages := math.Ceil(float64(count) / float64(limit))

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"orders": orders,
		"metadata": gin.H{
			"total":        count,
			"currentPage":  page,
			"limit":        limit,
			"hasPrevPage":  previousPage > 0,
			"hasNextPage":  int(totalPages) > page,
			"previousPage": previousPage,
			"nextPage":     page + 1,
		},
	})
}

func UpdateOrderStatus(ctx *gin.Context) {
	var data orderStatusData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	status, err := models.ParseOrderStatus(data.Status)
	if err != nil {
		sendAppError(ctx, err)
		return
	}

	orderID := ctx.Param("orderId")
	found, err := deps.Orders.UpdateStatus(ctx.Request.Context(), orderID, status)
	if err != nil {
		sendAppError(ctx, err)
		return
	}
	if !found {
		sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		return
	}

	log.Printf("Order %s moved to %q by %s", orderID, status, middlewares.CurrentUserEmail(ctx))
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order status updated successfully."})
}
