package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentCallback is the audit trail of every well-formed gateway notification,
// kept for manual inspection of unmatched or disputed payments.
type PaymentCallback struct {
	ID                uint           `gorm:"primaryKey"`
	CheckoutRequestID string         `gorm:"size:64;index"`
	MerchantRequestID string         `gorm:"size:64"`
	ResultCode        int            `gorm:"not null"`
	ResultDesc        string         `gorm:"size:255"`
	Matched           bool           `gorm:"not null"`
	Payload           datatypes.JSON `gorm:"not null"`
	ReceivedAt        time.Time      `gorm:"not null"`
}
