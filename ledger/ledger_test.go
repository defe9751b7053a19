package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Mokereri/hotel-kitchen-api/apperrors"
	"github.com/Mokereri/hotel-kitchen-api/events"
	"github.com/Mokereri/hotel-kitchen-api/mpesa"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeZoho struct {
	mu          sync.Mutex
	tokenForm   map[string]string
	authHeader  string
	orgID       string
	entry       JournalEntry
	tokenStatus int
	journalBody string
}

func (z *fakeZoho) server(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v2/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		z.mu.Lock()
		z.tokenForm = map[string]string{
			"grant_type":    r.PostForm.Get("grant_type"),
			"refresh_token": r.PostForm.Get("refresh_token"),
			"client_id":     r.PostForm.Get("client_id"),
		}
		status := z.tokenStatus
		z.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":"invalid_code"}`))
			return
		}
		w.Write([]byte(`{"access_token":"1000.abc","expires_in":3600}`))
	})
	mux.HandleFunc("/api/v3/journalentries", func(w http.ResponseWriter, r *http.Request) {
		z.mu.Lock()
		defer z.mu.Unlock()
		z.authHeader = r.Header.Get("Authorization")
		z.orgID = r.URL.Query().Get("organization_id")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&z.entry))
		if z.journalBody != "" {
			w.Write([]byte(z.journalBody))
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"code":0,"message":"The journal entry has been created.","journal_entry":{"journal_id":"460000000038001"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestPoster(t *testing.T, z *fakeZoho) *Poster {
	srv := z.server(t)
	client := NewClient(Config{
		AccountsURL:    srv.URL,
		BooksURL:       srv.URL + "/api/v3",
		ClientID:       "client-id",
		ClientSecret:   "client-secret",
		RefreshToken:   "refresh-token",
		OrganizationID: "10234695",
		CashAccountID:  "mpesa-account",
		SalesAccountID: "sales-account",
		CurrencyID:     "kes",
	})
	return NewPoster(client)
}

func paidEvent() events.OrderPaid {
	return events.OrderPaid{
		OrderID:           "0b7e7d8e-5d55-4d4f-9f0b-5f1f6f0c1a11",
		UserEmail:         "amina@example.com",
		TotalAmount:       decimal.NewFromInt(200),
		ReceiptNumber:     "NLJ7RT61SV",
		TransactionDate:   time.Date(2026, 3, 14, 23, 30, 0, 0, mpesa.Nairobi),
		CheckoutRequestID: "ws_CO_1",
	}
}

func TestPostSaleCreatesBalancedEntry(t *testing.T) {
	z := &fakeZoho{}
	p := newTestPoster(t, z)

	journalID, err := p.PostSale(context.Background(), paidEvent())
	require.NoError(t, err)
	assert.Equal(t, "460000000038001", journalID)

	z.mu.Lock()
	defer z.mu.Unlock()
	assert.Equal(t, "refresh_token", z.tokenForm["grant_type"])
	assert.Equal(t, "refresh-token", z.tokenForm["refresh_token"])
	assert.Equal(t, "Zoho-oauthtoken 1000.abc", z.authHeader)
	assert.Equal(t, "10234695", z.orgID)

	assert.Equal(t, "2026-03-14", z.entry.JournalDate)
	assert.Equal(t, "NLJ7RT61SV", z.entry.ReferenceNumber)
	assert.Equal(t, "kes", z.entry.CurrencyID)
	require.Len(t, z.entry.LineItems, 2)
	assert.Equal(t, "mpesa-account", z.entry.LineItems[0].AccountID)
	assert.Equal(t, 200.0, z.entry.LineItems[0].Debit)
	assert.Equal(t, "sales-account", z.entry.LineItems[1].AccountID)
	assert.Equal(t, 200.0, z.entry.LineItems[1].Credit)
}

func TestSaleEntryFallsBackToOrderID(t *testing.T) {
	p := NewPoster(NewClient(Config{}))
	p.now = func() time.Time { return time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC) }
	evt := paidEvent()
	evt.ReceiptNumber = ""
	evt.TransactionDate = time.Time{}

	entry := p.SaleEntry(evt)
	assert.Equal(t, evt.OrderID, entry.ReferenceNumber)
	assert.Equal(t, "2026-01-02", entry.JournalDate)
}

func TestPostSaleErrors(t *testing.T) {
	t.Run("token refused", func(t *testing.T) {
		p := newTestPoster(t, &fakeZoho{tokenStatus: http.StatusBadRequest})
		_, err := p.PostSale(context.Background(), paidEvent())
		assert.ErrorIs(t, err, apperrors.ErrAuthentication)
	})

	t.Run("token service down", func(t *testing.T) {
		p := newTestPoster(t, &fakeZoho{tokenStatus: http.StatusServiceUnavailable})
		_, err := p.PostSale(context.Background(), paidEvent())
		assert.ErrorIs(t, err, apperrors.ErrTransientNetwork)
	})

	t.Run("entry rejected", func(t *testing.T) {
		p := newTestPoster(t, &fakeZoho{journalBody: `{"code":1001,"message":"Account does not exist"}`})
		_, err := p.PostSale(context.Background(), paidEvent())
		var rejected *apperrors.GatewayRejectedError
		require.ErrorAs(t, err, &rejected)
		assert.Equal(t, "Account does not exist", rejected.Message)
	})

	t.Run("zero amount", func(t *testing.T) {
		z := &fakeZoho{}
		p := newTestPoster(t, z)
		evt := paidEvent()
		evt.TotalAmount = decimal.Zero
		_, err := p.PostSale(context.Background(), evt)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Nil(t, z.tokenForm)
	})
}

func TestHandleOrderPaidWrapsError(t *testing.T) {
	p := newTestPoster(t, &fakeZoho{tokenStatus: http.StatusUnauthorized})
	err := p.HandleOrderPaid(context.Background(), paidEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), paidEvent().OrderID)

	var handler events.OrderPaidHandler = p.HandleOrderPaid
	assert.NotNil(t, handler)
}
