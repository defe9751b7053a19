// Package events carries order lifecycle notifications over RabbitMQ.
package events

import (
	"time"

	"github.com/Mokereri/hotel-kitchen-api/models"
	"github.com/shopspring/decimal"
)

const OrderPaidRoutingKey = "order.paid"

type OrderPaid struct {
	OrderID           string          `json:"orderId"`
	UserEmail         string          `json:"userEmail"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	ReceiptNumber     string          `json:"receiptNumber"`
	TransactionDate   time.Time       `json:"transactionDate"`
	CheckoutRequestID string          `json:"checkoutRequestId"`
}

func NewOrderPaid(order models.Order) OrderPaid {
	evt := OrderPaid{
		OrderID:     order.OrderID,
		UserEmail:   order.UserEmail,
		TotalAmount: order.TotalAmount,
	}
	if order.MpesaReceiptNumber != nil {
		evt.ReceiptNumber = *order.MpesaReceiptNumber
	}
	if order.MpesaTransactionDate != nil {
		evt.TransactionDate = *order.MpesaTransactionDate
	}
	if order.CheckoutRequestID != nil {
		evt.CheckoutRequestID = *order.CheckoutRequestID
	}
	return evt
}
