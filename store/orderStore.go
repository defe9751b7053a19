package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Mokereri/hotel-kitchen-api/apperrors"
	"github.com/Mokereri/hotel-kitchen-api/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentResult is what the gateway reported for one checkout request.
type PaymentResult struct {
	Success         bool
	ReceiptNumber   *string
	TransactionDate *time.Time
}

type PaymentUpdate int

const (
	// PaymentUnmatched: no order carries the correlation id.
	PaymentUnmatched PaymentUpdate = iota
	// PaymentApplied: the order left PendingPaymentConfirmation on this call.
	PaymentApplied
	// PaymentDuplicate: the order already holds the reported outcome.
	PaymentDuplicate
	// PaymentIgnored: the order had already moved on to another status.
	PaymentIgnored
)

func (u PaymentUpdate) String() string {
	switch u {
	case PaymentApplied:
		return "applied"
	case PaymentDuplicate:
		return "duplicate"
	case PaymentIgnored:
		return "ignored"
	default:
		return "unmatched"
	}
}

type ListOptions struct {
	Page   int
	Limit  int
	Status models.OrderStatus
	Sort   string
}

type OrderStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db, now: time.Now}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// CreateOrder writes the order row and all its items in one transaction.
// The order starts in StatusPendingPaymentConfirmation.
func (s *OrderStore) CreateOrder(ctx context.Context, userEmail string, items []models.OrderItem, total decimal.Decimal, personalization *models.Personalization, correlationID *string) (string, error) {
	if userEmail == "" {
		return "", apperrors.Invalid("userEmail", "an order needs an owner")
	}
	if len(items) == 0 {
		return "", apperrors.Invalid("items", "an order needs at least one item")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return "", apperrors.Invalid("quantity", fmt.Sprintf("quantity for %s must be positive", item.MealName))
		}
	}

	order := models.Order{
		OrderID:           uuid.NewString(),
		UserEmail:         userEmail,
		OrderDate:         s.now(),
		TotalAmount:       total,
		Status:            models.StatusPendingPaymentConfirmation,
		CheckoutRequestID: correlationID,
	}
	if personalization != nil {
		order.Personalization = *personalization
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return "", apperrors.Persistence("begin order transaction", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return "", apperrors.Persistence("create order", err)
	}

	for _, item := range items {
		item.ID = 0
		item.OrderID = order.OrderID
		if err := tx.Create(&item).Error; err != nil {
			tx.Rollback()
			return "", apperrors.Persistence("create order items", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return "", apperrors.Persistence("commit order", err)
	}
	return order.OrderID, nil
}

// GetOrder returns the order with its items. Callers must compare
// UserEmail with the caller's identity before showing it.
func (s *OrderStore) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items", orderedItems).Where("order_id = ?", orderID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Persistence("get order", err)
	}
	return &order, nil
}

func (s *OrderStore) GetOrderByCorrelationID(ctx context.Context, correlationID string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items", orderedItems).Where("checkout_request_id = ?", correlationID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Persistence("get order by checkout request", err)
	}
	return &order, nil
}

// ListOrdersForUser returns the user's orders, most recent first.
func (s *OrderStore) ListOrdersForUser(ctx context.Context, userEmail string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("user_email = ?", userEmail).
		Order("order_date DESC").
		Find(&orders).Error
	if err != nil {
		return nil, apperrors.Persistence("list user orders", err)
	}
	return orders, nil
}

// ListOrders is the operator view over all orders.
func (s *OrderStore) ListOrders(ctx context.Context, opts ListOptions) ([]models.Order, int64, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 || opts.Limit > 100 {
		opts.Limit = 15
	}
	if opts.Sort != "asc" && opts.Sort != "desc" {
		opts.Sort = "desc"
	}

	byStatus := func(db *gorm.DB) *gorm.DB {
		if opts.Status != "" {
			return db.Where("status = ?", opts.Status)
		}
		return db
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Order{}).Scopes(byStatus).Count(&count).Error; err != nil {
		return nil, 0, apperrors.Persistence("count orders", err)
	}

	var orders []models.Order
	err := db.Scopes(byStatus).
		Preload("Items", orderedItems).
		Order("order_date " + opts.Sort).
		Limit(opts.Limit).
		Offset((opts.Page - 1) * opts.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, apperrors.Persistence("list orders", err)
	}
	return orders, count, nil
}

// UpdateStatus sets an operational status. Orders still waiting for payment
// confirmation are refused so a late callback cannot be overwritten.
// Setting the status an order already has is not an error.
func (s *OrderStore) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) (bool, error) {
	if !status.IsOperational() {
		return false, apperrors.Invalid("status", fmt.Sprintf("%q is not an operational status", status))
	}

	db := s.db.WithContext(ctx)
	result := db.Model(&models.Order{}).
		Where("order_id = ? AND status <> ?", orderID, models.StatusPendingPaymentConfirmation).
		Update("status", status)
	if result.Error != nil {
		return false, apperrors.Persistence("update order status", result.Error)
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	var current models.Order
	err := db.Select("order_id", "status").Where("order_id = ?", orderID).First(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Persistence("read order status", err)
	}
	if current.Status == models.StatusPendingPaymentConfirmation {
		return false, fmt.Errorf("order %s is awaiting payment confirmation: %w", orderID, apperrors.ErrStatusConflict)
	}
	return true, nil
}

// RecordPaymentResult applies a gateway outcome to the order found by its
// checkout request id. Only an order in StatusPendingPaymentConfirmation
// changes; repeated deliveries are reported as PaymentDuplicate.
func (s *OrderStore) RecordPaymentResult(ctx context.Context, correlationID string, res PaymentResult) (PaymentUpdate, error) {
	target := models.StatusPaymentFailed
	updates := map[string]any{"status": target}
	if res.Success {
		target = models.StatusPaid
		updates = map[string]any{
			"status":                 target,
			"mpesa_receipt_number":   res.ReceiptNumber,
			"mpesa_transaction_date": res.TransactionDate,
		}
	}

	db := s.db.WithContext(ctx)
	result := db.Model(&models.Order{}).
		Where("checkout_request_id = ? AND status = ?", correlationID, models.StatusPendingPaymentConfirmation).
		Updates(updates)
	if result.Error != nil {
		return PaymentUnmatched, apperrors.Persistence("update payment result", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("Order with CheckoutRequestID %s status updated to %s.", correlationID, target)
		return PaymentApplied, nil
	}

	var current models.Order
	err := db.Select("order_id", "status").Where("checkout_request_id = ?", correlationID).First(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("No order found for CheckoutRequestID %s; callback arrived before the order was saved or the id is unknown.", correlationID)
		return PaymentUnmatched, nil
	}
	if err != nil {
		return PaymentUnmatched, apperrors.Persistence("read order for payment result", err)
	}
	if current.Status == target {
		return PaymentDuplicate, nil
	}
	log.Printf("Ignoring %s result for order %s: status is already %s.", target, current.OrderID, current.Status)
	return PaymentIgnored, nil
}

// UpdatePaymentResult reports whether an order matched correlationID.
func (s *OrderStore) UpdatePaymentResult(ctx context.Context, correlationID string, res PaymentResult) (bool, error) {
	outcome, err := s.RecordPaymentResult(ctx, correlationID, res)
	if err != nil {
		return false, err
	}
	return outcome != PaymentUnmatched, nil
}

func (s *OrderStore) SaveCallback(ctx context.Context, cb *models.PaymentCallback) error {
	if cb.ReceivedAt.IsZero() {
		cb.ReceivedAt = s.now()
	}
	if err := s.db.WithContext(ctx).Create(cb).Error; err != nil {
		return apperrors.Persistence("save payment callback", err)
	}
	return nil
}
