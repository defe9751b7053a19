package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Mokereri/hotel-kitchen-api/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDaraja struct {
	tokenCalls  atomic.Int32
	chargeCalls atomic.Int32
	chargeReply func(w http.ResponseWriter)

	mu         sync.Mutex
	lastCharge stkPushRequest
}

func (f *fakeDaraja) sent() stkPushRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastCharge
}

func (f *fakeDaraja) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case tokenPath:
		f.tokenCalls.Add(1)
		key, secret, ok := r.BasicAuth()
		if !ok || key != "key" || secret != "secret" || r.URL.Query().Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"errorMessage":"Invalid Authentication passed"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-1","expires_in":"3599"}`))
	case stkPushPath:
		f.chargeCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.mu.Lock()
		json.NewDecoder(r.Body).Decode(&f.lastCharge)
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if f.chargeReply != nil {
			f.chargeReply(w)
			return
		}
		w.Write([]byte(`{"MerchantRequestID":"29115-34620561-1","CheckoutRequestID":"ws_CO_191220191020363925","ResponseCode":"0","ResponseDescription":"Success. Request accepted for processing","CustomerMessage":"Success. Request accepted for processing"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, f *fakeDaraja) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		BaseURL:        srv.URL,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		ShortCode:      "174379",
		PassKey:        "passkey",
		CallbackURL:    "https://kitchen.example.com/mpesa_callback",
		Timeout:        5 * time.Second,
	})
	c.now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	return c
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("254712345678"))
	assert.NoError(t, ValidatePhone("254112345678"))

	for _, phone := range []string{"0712345678", "25471234567", "2547123456789", "255712345678", "25471234567a", ""} {
		assert.ErrorIs(t, ValidatePhone(phone), apperrors.ErrValidation, phone)
	}
}

func TestPasswordAndTimestamp(t *testing.T) {
	ts := Timestamp(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, "20250601120000", ts)

	decoded, err := base64.StdEncoding.DecodeString(Password("174379", "passkey", ts))
	require.NoError(t, err)
	assert.Equal(t, "174379passkey20250601120000", string(decoded))
}

func TestParseTransactionDate(t *testing.T) {
	got, err := ParseTransactionDate("20250601120000")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 6, 1, 12, 0, 0, 0, Nairobi)))

	_, err = ParseTransactionDate("2025-06-01")
	assert.Error(t, err)
}

func TestFetchAccessCredential(t *testing.T) {
	f := &fakeDaraja{}
	c := newTestClient(t, f)

	token, err := c.FetchAccessCredential(context.Background(), "key", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	_, err = c.FetchAccessCredential(context.Background(), "key", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrAuthentication)
}

func TestFetchAccessCredentialNetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url, Timeout: time.Second})
	_, err := c.FetchAccessCredential(context.Background(), "key", "secret")
	assert.ErrorIs(t, err, apperrors.ErrTransientNetwork)
	assert.NotErrorIs(t, err, apperrors.ErrAuthentication)
}

func TestInitiateCharge(t *testing.T) {
	f := &fakeDaraja{}
	c := newTestClient(t, f)

	resp, err := c.InitiateCharge(context.Background(), "254712345678", 200, "ORDER-20250601120000-amina", "Hotel Meal Payment")
	require.NoError(t, err)
	assert.Equal(t, "ws_CO_191220191020363925", resp.CheckoutRequestID)
	assert.Equal(t, "29115-34620561-1", resp.MerchantRequestID)

	sent := f.sent()
	assert.Equal(t, "174379", sent.BusinessShortCode)
	assert.Equal(t, "20250601120000", sent.Timestamp)
	assert.Equal(t, Password("174379", "passkey", "20250601120000"), sent.Password)
	assert.Equal(t, "CustomerPayBillOnline", sent.TransactionType)
	assert.EqualValues(t, 200, sent.Amount)
	assert.Equal(t, "254712345678", sent.PartyA)
	assert.Equal(t, "254712345678", sent.PhoneNumber)
	assert.Equal(t, "174379", sent.PartyB)
	assert.Equal(t, "https://kitchen.example.com/mpesa_callback", sent.CallBackURL)
	assert.Equal(t, "ORDER-20250601120000-amina", sent.AccountReference)
}

func TestInitiateChargeReusesToken(t *testing.T) {
	f := &fakeDaraja{}
	c := newTestClient(t, f)

	for i := 0; i < 3; i++ {
		_, err := c.InitiateCharge(context.Background(), "254712345678", 100, "ref", "desc")
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, f.tokenCalls.Load())
	assert.EqualValues(t, 3, f.chargeCalls.Load())
}

func TestInitiateChargeInvalidPhoneMakesNoCall(t *testing.T) {
	f := &fakeDaraja{}
	c := newTestClient(t, f)

	_, err := c.InitiateCharge(context.Background(), "0712345678", 100, "ref", "desc")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Zero(t, f.tokenCalls.Load())
	assert.Zero(t, f.chargeCalls.Load())
}

func TestInitiateChargeRejected(t *testing.T) {
	f := &fakeDaraja{chargeReply: func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"requestId":"1234-5678","errorCode":"400.002.02","errorMessage":"Bad Request - Invalid PhoneNumber"}`))
	}}
	c := newTestClient(t, f)

	_, err := c.InitiateCharge(context.Background(), "254712345678", 100, "ref", "desc")
	require.ErrorIs(t, err, apperrors.ErrGatewayRejected)

	var rejected *apperrors.GatewayRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Bad Request - Invalid PhoneNumber", rejected.Message)
	assert.Equal(t, "400.002.02", rejected.Code)
}

func TestInitiateChargeNonZeroResponseCode(t *testing.T) {
	f := &fakeDaraja{chargeReply: func(w http.ResponseWriter) {
		w.Write([]byte(`{"ResponseCode":"1","ResponseDescription":"The balance is insufficient for the transaction"}`))
	}}
	c := newTestClient(t, f)

	_, err := c.InitiateCharge(context.Background(), "254712345678", 100, "ref", "desc")
	var rejected *apperrors.GatewayRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.True(t, strings.Contains(rejected.Message, "insufficient"))
}

func TestInitiateChargeServiceUnavailableIsTransient(t *testing.T) {
	f := &fakeDaraja{chargeReply: func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}}
	c := newTestClient(t, f)

	_, err := c.InitiateCharge(context.Background(), "254712345678", 100, "ref", "desc")
	assert.ErrorIs(t, err, apperrors.ErrTransientNetwork)
}

func TestInitiateChargeBadCredentials(t *testing.T) {
	f := &fakeDaraja{}
	c := newTestClient(t, f)
	c.cfg.ConsumerSecret = "wrong"

	_, err := c.InitiateCharge(context.Background(), "254712345678", 100, "ref", "desc")
	assert.ErrorIs(t, err, apperrors.ErrAuthentication)
	assert.Zero(t, f.chargeCalls.Load())
}
