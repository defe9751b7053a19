package ledger

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Mokereri/hotel-kitchen-api/apperrors"
	"github.com/Mokereri/hotel-kitchen-api/events"
	"github.com/Mokereri/hotel-kitchen-api/mpesa"
)

const journalDateLayout = "2006-01-02"

// Poster turns paid orders into two-line sale entries: the M-Pesa account
// is debited and the sales account credited.
type Poster struct {
	client *Client
	now    func() time.Time
}

func NewPoster(client *Client) *Poster {
	return &Poster{client: client, now: time.Now}
}

func (p *Poster) SaleEntry(evt events.OrderPaid) JournalEntry {
	date := evt.TransactionDate
	if date.IsZero() {
		date = p.now()
	}
	reference := evt.ReceiptNumber
	if reference == "" {
		reference = evt.OrderID
	}
	amount := evt.TotalAmount.Round(2).InexactFloat64()
	cfg := p.client.cfg

	return JournalEntry{
		JournalDate:     date.In(mpesa.Nairobi).Format(journalDateLayout),
		CurrencyID:      cfg.CurrencyID,
		ReferenceNumber: reference,
		Notes:           fmt.Sprintf("Hotel meal sale, order %s for %s. Amount: %s", evt.OrderID, evt.UserEmail, evt.TotalAmount.StringFixed(2)),
		LineItems: []LineItem{
			{AccountID: cfg.CashAccountID, Debit: amount, Description: "M-Pesa receipt " + reference},
			{AccountID: cfg.SalesAccountID, Credit: amount, Description: "Meal sales"},
		},
	}
}

// PostSale records evt in the ledger and returns the journal id.
func (p *Poster) PostSale(ctx context.Context, evt events.OrderPaid) (string, error) {
	if !evt.TotalAmount.IsPositive() {
		return "", apperrors.Invalid("totalAmount", "sale amount must be positive")
	}
	token, err := p.client.RefreshAccessToken(ctx)
	if err != nil {
		return "", err
	}
	return p.client.CreateJournalEntry(ctx, token, p.SaleEntry(evt))
}

// HandleOrderPaid adapts PostSale to events.OrderPaidHandler.
func (p *Poster) HandleOrderPaid(ctx context.Context, evt events.OrderPaid) error {
	journalID, err := p.PostSale(ctx, evt)
	if err != nil {
		return fmt.Errorf("post sale for order %s: %w", evt.OrderID, err)
	}
	log.Printf("Posted order %s to ledger as journal %s", evt.OrderID, journalID)
	return nil
}
