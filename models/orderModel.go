package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Personalization struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type Order struct {
	OrderID              string          `json:"orderId" gorm:"primaryKey;size:36"`
	UserEmail            string          `json:"userEmail" gorm:"size:255;not null;index"`
	OrderDate            time.Time       `json:"orderDate" gorm:"not null;index"`
	TotalAmount          decimal.Decimal `json:"totalAmount" gorm:"type:decimal(10,2);not null"`
	Status               OrderStatus     `json:"status" gorm:"size:40;not null;index"`
	Personalization      Personalization `json:"personalization" gorm:"embedded;embeddedPrefix:personalization_"`
	CheckoutRequestID    *string         `json:"checkoutRequestId,omitempty" gorm:"size:64;uniqueIndex"`
	MpesaReceiptNumber   *string         `json:"mpesaReceiptNumber,omitempty" gorm:"size:32"`
	MpesaTransactionDate *time.Time      `json:"mpesaTransactionDate,omitempty"`
	Items                []OrderItem     `json:"items" gorm:"foreignKey:OrderID;references:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	OrderID      string          `json:"orderId" gorm:"size:36;not null;index"`
	MealID       int             `json:"mealId" gorm:"not null"`
	MealName     string          `json:"mealName" gorm:"size:120"`
	Quantity     int             `json:"quantity" gorm:"not null"`
	PricePerItem decimal.Decimal `json:"pricePerItem" gorm:"type:decimal(10,2);not null"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PricePerItem.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
