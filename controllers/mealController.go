package controllers

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Mokereri/hotel-kitchen-api/mpesa"
	"github.com/gin-gonic/gin"
)

func GetMeals(ctx *gin.Context) {
	meals, err := deps.Meals.ListMeals(ctx.Request.Context())
	if err != nil {
		sendAppError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"meals": meals})
}

func GetMeal(ctx *gin.Context) {
	mealID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid meal ID")
		return
	}

	meal, err := deps.Meals.GetMeal(ctx.Request.Context(), mealID)
	if err != nil {
		sendAppError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"meal": meal})
}

// UploadMealImage stores the "image" form file and points the meal at it.
func UploadMealImage(ctx *gin.Context) {
	mealID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid meal ID")
		return
	}
	if deps.Uploader == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "No image uploaded")
		return
	}

	reqCtx := ctx.Request.Context()
	if _, err := deps.Meals.GetMeal(reqCtx, mealID); err != nil {
		sendAppError(ctx, err)
		return
	}

	f, err := file.Open()
	if err != nil {
		log.Printf("Error opening file %s: %v", file.Filename, err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Unreadable image")
		return
	}
	defer f.Close()

	key := fmt.Sprintf("meals/%d-%s%s", mealID, time.Now().In(mpesa.Nairobi).Format(mpesa.TimestampLayout), filepath.Ext(file.Filename))
	url, err := deps.Uploader.Upload(reqCtx, key, f, file.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("Error uploading file %s: %v", file.Filename, err)
		sendErrorResponse(ctx, http.StatusBadGateway, "Failed to upload image")
		return
	}

	if err := deps.Meals.SetMealImage(reqCtx, mealID, url); err != nil {
		sendAppError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Image uploaded", "url": url})
}
