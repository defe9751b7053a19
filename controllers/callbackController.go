package controllers

import (
	"io"
	"log"

	"github.com/Mokereri/hotel-kitchen-api/callback"
	"github.com/gin-gonic/gin"
)

// maxCallbackBytes bounds the body read from the gateway.
const maxCallbackBytes = 1 << 20

// MpesaCallback receives STK push results from Daraja.
func MpesaCallback(ctx *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxCallbackBytes))
	if err != nil {
		log.Println("Error reading M-Pesa callback body:", err)
		resp := callback.InternalError()
		ctx.JSON(resp.Status, resp.Ack)
		return
	}

	resp := deps.Reconciler.Handle(ctx.Request.Context(), body)
	ctx.JSON(resp.Status, resp.Ack)
}
