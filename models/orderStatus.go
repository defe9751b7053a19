package models

import (
	"fmt"

	"github.com/Mokereri/hotel-kitchen-api/apperrors"
)

// OrderStatus shares one column between two disjoint families: the payment
// lifecycle, driven only by gateway callbacks, and the operational lifecycle,
// driven by kitchen operators.
type OrderStatus string

const (
	StatusPendingPaymentConfirmation OrderStatus = "Pending Payment Confirmation"
	StatusPaid                       OrderStatus = "Paid"
	StatusPaymentFailed              OrderStatus = "Payment Failed"
)

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusReady      OrderStatus = "Ready"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

var OperationalStatuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusReady,
	StatusDelivered,
	StatusCancelled,
}

func (s OrderStatus) IsPaymentLifecycle() bool {
	switch s {
	case StatusPendingPaymentConfirmation, StatusPaid, StatusPaymentFailed:
		return true
	}
	return false
}

func (s OrderStatus) IsOperational() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Valid() bool {
	return s.IsPaymentLifecycle() || s.IsOperational()
}

func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.Valid() {
		return "", apperrors.Invalid("status", fmt.Sprintf("unknown order status %q", raw))
	}
	return s, nil
}
