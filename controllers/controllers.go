package controllers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/Mokereri/hotel-kitchen-api/apperrors"
	"github.com/Mokereri/hotel-kitchen-api/callback"
	"github.com/Mokereri/hotel-kitchen-api/session"
	"github.com/Mokereri/hotel-kitchen-api/store"
	"github.com/gin-gonic/gin"
)

// ImageUploader is satisfied by *utils.S3Uploader.
type ImageUploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

type Dependencies struct {
	Users      *store.UserStore
	Meals      *store.MealStore
	Orders     *store.OrderStore
	Flow       *session.Flow
	Reconciler *callback.Reconciler
	Uploader   ImageUploader
	JWTSecret  string
	AdminEmail string
}

var deps Dependencies

// Setup must be called before any handler is served.
func Setup(d Dependencies) {
	deps = d
}

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrStatusConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrGatewayRejected):
		return http.StatusPaymentRequired
	case errors.Is(err, apperrors.ErrAuthentication):
		return http.StatusBadGateway
	case errors.Is(err, apperrors.ErrTransientNetwork):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func sendAppError(ctx *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", ctx.Request.Method, ctx.FullPath(), err)
	}
	sendErrorResponse(ctx, status, apperrors.UserMessage(err))
}
