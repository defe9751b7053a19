package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Mokereri/hotel-kitchen-api/apperrors"
	"github.com/Mokereri/hotel-kitchen-api/metrics"
	"github.com/Mokereri/hotel-kitchen-api/models"
	"github.com/Mokereri/hotel-kitchen-api/mpesa"
	"github.com/shopspring/decimal"
)

const PaymentDescription = "Hotel Meal Payment"

// Charger is satisfied by *mpesa.Client.
type Charger interface {
	InitiateCharge(ctx context.Context, phone string, amount int64, reference, description string) (*mpesa.ChargeResponse, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, userEmail string, items []models.OrderItem, total decimal.Decimal, personalization *models.Personalization, correlationID *string) (string, error)
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	ListOrdersForUser(ctx context.Context, userEmail string) ([]models.Order, error)
}

type Menu interface {
	GetMeal(ctx context.Context, id int) (*models.Meal, error)
}

type CheckoutResult struct {
	Success       bool   `json:"success"`
	OrderID       string `json:"orderId,omitempty"`
	CorrelationID string `json:"checkoutRequestId,omitempty"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
	Err           error  `json:"-"`
}

type Flow struct {
	Carts   CartStore
	Orders  OrderStore
	Menu    Menu
	Charger Charger
	Metrics *metrics.PaymentMetrics
	Clock   func() time.Time
}

func NewFlow(carts CartStore, orders OrderStore, menu Menu, charger Charger, m *metrics.PaymentMetrics) *Flow {
	return &Flow{Carts: carts, Orders: orders, Menu: menu, Charger: charger, Metrics: m, Clock: time.Now}
}

// Load returns the stored session for a shopper, or a fresh one.
func (f *Flow) Load(ctx context.Context, userEmail string) (*Session, error) {
	sess, err := f.Carts.Load(ctx, userEmail, userEmail)
	if err != nil {
		return nil, apperrors.Persistence("load session", err)
	}
	return sess, nil
}

func (f *Flow) Save(ctx context.Context, sess *Session) error {
	if err := f.Carts.Save(ctx, sess); err != nil {
		return apperrors.Persistence("save session", err)
	}
	return nil
}

// AddToCart prices the item from the menu, never from the client.
func (f *Flow) AddToCart(ctx context.Context, sess *Session, mealID, qty int) error {
	meal, err := f.Menu.GetMeal(ctx, mealID)
	if err != nil {
		return err
	}
	if err := sess.Cart.Add(CartItem{MealID: meal.ID, Name: meal.Name, Quantity: qty, UnitPrice: meal.Price}); err != nil {
		return err
	}
	sess.State = StateBrowsing
	return f.Save(ctx, sess)
}

func (f *Flow) UpdateCartItem(ctx context.Context, sess *Session, mealID, qty int) error {
	if err := sess.Cart.Update(mealID, qty); err != nil {
		return err
	}
	sess.State = StateBrowsing
	return f.Save(ctx, sess)
}

func (f *Flow) RemoveFromCart(ctx context.Context, sess *Session, mealID int) error {
	if !sess.Cart.Remove(mealID) {
		return apperrors.ErrNotFound
	}
	return f.Save(ctx, sess)
}

func (f *Flow) GetCart(sess *Session) Cart {
	return sess.Cart
}

func (f *Flow) Personalize(ctx context.Context, sess *Session, p models.Personalization) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	if p.Name == "" {
		return apperrors.Invalid("name", "name is required for personalization")
	}
	if p.Phone == "" {
		return apperrors.Invalid("phone", "phone is required for personalization")
	}
	sess.Personalization = &p
	return f.Save(ctx, sess)
}

func (f *Flow) ClearPersonalization(ctx context.Context, sess *Session) error {
	sess.Personalization = nil
	return f.Save(ctx, sess)
}

// Reference builds the account reference shown on the shopper's phone.
func Reference(now time.Time, userEmail string) string {
	local, _, _ := strings.Cut(userEmail, "@")
	return fmt.Sprintf("ORDER-%s-%s", mpesa.Timestamp(now), local)
}

// Checkout charges the shopper for the current cart and records the order.
// The cart is cleared only after both the charge request and the order
// write succeed.
func (f *Flow) Checkout(ctx context.Context, sess *Session, phone string) CheckoutResult {
	if sess.UserEmail == "" {
		return f.fail(sess, apperrors.ErrForbidden)
	}
	if err := mpesa.ValidatePhone(phone); err != nil {
		return f.fail(sess, err)
	}
	if sess.Cart.IsEmpty() {
		return f.fail(sess, apperrors.Invalid("cart", "Your cart is empty"))
	}

	sess.State = StateCheckoutInitiated
	total := sess.Cart.Total()
	amount := total.Round(0).IntPart()
	if amount <= 0 {
		return f.fail(sess, apperrors.Invalid("amount", "Order total must be at least 1"))
	}

	charge, err := f.Charger.InitiateCharge(ctx, phone, amount, Reference(f.Clock(), sess.UserEmail), PaymentDescription)
	if err != nil {
		log.Printf("checkout for %s failed at gateway: %v", sess.UserEmail, err)
		return f.fail(sess, err)
	}

	correlationID := charge.CheckoutRequestID
	orderID, err := f.Orders.CreateOrder(ctx, sess.UserEmail, sess.Cart.OrderItems(), total, sess.Personalization, &correlationID)
	if err != nil {
		log.Printf("MANUAL REVIEW: charge %s for %s requested but order not saved: %v", correlationID, sess.UserEmail, err)
		return f.fail(sess, err)
	}

	sess.Cart.Clear()
	sess.Personalization = nil
	sess.State = StateAwaitingConfirmation
	sess.LastOrderID = orderID
	if err := f.Save(ctx, sess); err != nil {
		log.Printf("order %s placed but session for %s not saved: %v", orderID, sess.UserEmail, err)
	}

	f.Metrics.Checkout("success")
	return CheckoutResult{Success: true, OrderID: orderID, CorrelationID: correlationID}
}

func (f *Flow) fail(sess *Session, err error) CheckoutResult {
	sess.State = StateBrowsing
	f.Metrics.Checkout(checkoutOutcome(err))
	return CheckoutResult{ErrorMessage: apperrors.UserMessage(err), Err: err}
}

func checkoutOutcome(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return "invalid"
	case errors.Is(err, apperrors.ErrGatewayRejected):
		return "rejected"
	case errors.Is(err, apperrors.ErrTransientNetwork):
		return "unreachable"
	case errors.Is(err, apperrors.ErrAuthentication):
		return "auth_failed"
	default:
		return "error"
	}
}

// TrackOrder hides orders owned by other users behind ErrNotFound.
func (f *Flow) TrackOrder(ctx context.Context, orderID, callerEmail string) (*models.Order, error) {
	order, err := f.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserEmail != callerEmail {
		return nil, apperrors.ErrNotFound
	}
	return order, nil
}

func (f *Flow) OrderHistory(ctx context.Context, userEmail string) ([]models.Order, error) {
	return f.Orders.ListOrdersForUser(ctx, userEmail)
}
