// Package callback reconciles M-Pesa STK push results with stored orders.
package callback

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Mokereri/hotel-kitchen-api/apperrors"
	"github.com/Mokereri/hotel-kitchen-api/metrics"
	"github.com/Mokereri/hotel-kitchen-api/models"
	"github.com/Mokereri/hotel-kitchen-api/mpesa"
	"github.com/Mokereri/hotel-kitchen-api/store"
)

const (
	descProcessed        = "Callback processed successfully"
	descInvalidStructure = "Invalid callback structure"
	descMissingData      = "Missing essential callback data"
	descInternalError    = "Internal server error"

	notifyTimeout = 10 * time.Second
)

type OrderStore interface {
	RecordPaymentResult(ctx context.Context, correlationID string, res store.PaymentResult) (store.PaymentUpdate, error)
	GetOrderByCorrelationID(ctx context.Context, correlationID string) (*models.Order, error)
	SaveCallback(ctx context.Context, cb *models.PaymentCallback) error
}

// PaymentNotifier is told about every order that has just been paid.
type PaymentNotifier interface {
	OrderPaid(ctx context.Context, order models.Order) error
}

// Ack is the body Daraja expects in reply.
type Ack struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

type Response struct {
	Status int
	Ack    Ack
}

func processed() Response {
	return Response{Status: http.StatusOK, Ack: Ack{ResultCode: 0, ResultDesc: descProcessed}}
}

func rejected(desc string) Response {
	return Response{Status: http.StatusBadRequest, Ack: Ack{ResultCode: 1, ResultDesc: desc}}
}

func InternalError() Response {
	return Response{Status: http.StatusInternalServerError, Ack: Ack{ResultCode: 1, ResultDesc: descInternalError}}
}

type Reconciler struct {
	store     OrderStore
	notifiers []PaymentNotifier
	metrics   *metrics.PaymentMetrics
}

func NewReconciler(orders OrderStore, m *metrics.PaymentMetrics, notifiers ...PaymentNotifier) *Reconciler {
	return &Reconciler{store: orders, notifiers: notifiers, metrics: m}
}

// Handle processes one notification and always returns a well-formed reply.
// Unknown CheckoutRequestIDs are acknowledged so the provider does not retry.
func (r *Reconciler) Handle(ctx context.Context, body []byte) (resp Response) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Panic while processing M-Pesa callback: %v", rec)
			r.metrics.Callback("error")
			resp = InternalError()
		}
	}()

	log.Printf("Received M-Pesa callback: %s", body)

	cb, err := Parse(body)
	if err != nil {
		log.Println("Invalid M-Pesa callback structure:", err)
		r.metrics.Callback("malformed")
		return rejected(descInvalidStructure)
	}

	if cb.CheckoutRequestID == "" || cb.ResultCode == nil {
		log.Printf("Missing essential data in callback: CheckoutRequestID=%q, ResultCode=%v", cb.CheckoutRequestID, cb.ResultCode)
		r.metrics.Callback("malformed")
		return rejected(descMissingData)
	}
	code, err := cb.ResultCode.Int64()
	if err != nil {
		log.Printf("Non-integer ResultCode %q for CheckoutRequestID %s", cb.ResultCode.String(), cb.CheckoutRequestID)
		r.metrics.Callback("malformed")
		return rejected(descMissingData)
	}

	result := store.PaymentResult{Success: code == 0}
	if result.Success {
		if receipt := cb.Metadata("MpesaReceiptNumber"); receipt != "" {
			result.ReceiptNumber = &receipt
		}
		if raw := cb.Metadata("TransactionDate"); raw != "" {
			if at, err := mpesa.ParseTransactionDate(raw); err != nil {
				log.Printf("Unparseable TransactionDate %q for CheckoutRequestID %s: %v", raw, cb.CheckoutRequestID, err)
			} else {
				result.TransactionDate = &at
			}
		}
		log.Printf("Successful payment for CheckoutRequestID %s: receipt=%v", cb.CheckoutRequestID, cb.Metadata("MpesaReceiptNumber"))
	} else {
		log.Printf("Payment failed/cancelled for CheckoutRequestID %s: %s", cb.CheckoutRequestID, cb.ResultDesc)
	}

	outcome, err := r.store.RecordPaymentResult(ctx, cb.CheckoutRequestID, result)
	if err != nil {
		log.Printf("Error updating order for CheckoutRequestID %s: %v", cb.CheckoutRequestID, err)
		r.metrics.Callback("error")
		return InternalError()
	}

	r.audit(ctx, cb, int(code), outcome, body)

	switch outcome {
	case store.PaymentUnmatched:
		log.Printf("MANUAL REVIEW: callback for unknown CheckoutRequestID %s (ResultCode %d) acknowledged without a matching order.", cb.CheckoutRequestID, code)
		r.metrics.Callback("unmatched")
	case store.PaymentApplied:
		if result.Success {
			r.metrics.Callback("paid")
			r.notify(ctx, cb.CheckoutRequestID)
		} else {
			r.metrics.Callback("failed")
		}
	default:
		r.metrics.Callback(outcome.String())
	}

	return processed()
}

func (r *Reconciler) audit(ctx context.Context, cb *STKCallback, code int, outcome store.PaymentUpdate, body []byte) {
	record := &models.PaymentCallback{
		CheckoutRequestID: cb.CheckoutRequestID,
		MerchantRequestID: cb.MerchantRequestID,
		ResultCode:        code,
		ResultDesc:        cb.ResultDesc,
		Matched:           outcome != store.PaymentUnmatched,
		Payload:           body,
	}
	if err := r.store.SaveCallback(ctx, record); err != nil {
		log.Printf("Could not record callback for CheckoutRequestID %s: %v", cb.CheckoutRequestID, err)
	}
}

func (r *Reconciler) notify(ctx context.Context, correlationID string) {
	if len(r.notifiers) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	order, err := r.store.GetOrderByCorrelationID(ctx, correlationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("Could not load paid order for CheckoutRequestID %s: %v", correlationID, err)
		}
		return
	}

	for _, n := range r.notifiers {
		if err := n.OrderPaid(ctx, *order); err != nil {
			log.Printf("Payment notification for order %s failed: %v", order.OrderID, err)
		}
	}
}
