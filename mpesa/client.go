package mpesa

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Mokereri/hotel-kitchen-api/apperrors"
	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"
)

type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	PassKey        string
	CallbackURL    string
	Timeout        time.Duration
}

type ChargeResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	ChargeResponse
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// tokenLeeway is subtracted from expires_in so a cached token is never
// presented in its last seconds of validity.
const tokenLeeway = time.Minute

type Client struct {
	cfg  Config
	http *resty.Client
	now  func() time.Time

	group     singleflight.Group
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg: cfg,
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(cfg.Timeout).
			SetHeader("Accept", "application/json"),
		now: time.Now,
	}
}

func isTransientStatus(code int) bool {
	return code == http.StatusBadGateway || code == http.StatusServiceUnavailable || code == http.StatusGatewayTimeout
}

func (c *Client) fetchToken(ctx context.Context, key, secret string) (string, time.Duration, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(key, secret).
		SetQueryParam("grant_type", "client_credentials").
		Get(tokenPath)
	if err != nil {
		return "", 0, apperrors.Transient("mpesa token request", err)
	}

	switch {
	case resp.StatusCode() >= 500:
		return "", 0, apperrors.Transient("mpesa token request",
			fmt.Errorf("status %d: %s", resp.StatusCode(), string(resp.Body())))
	case resp.StatusCode() != http.StatusOK:
		return "", 0, fmt.Errorf("mpesa token request failed with status %d: %w", resp.StatusCode(), apperrors.ErrAuthentication)
	}

	var body tokenResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", 0, fmt.Errorf("failed to parse token response: %w", apperrors.ErrAuthentication)
	}
	if body.AccessToken == "" {
		return "", 0, fmt.Errorf("access token not found in response: %w", apperrors.ErrAuthentication)
	}

	ttl := time.Hour
	if secs, err := strconv.Atoi(body.ExpiresIn); err == nil && secs > 0 {
		ttl = time.Duration(secs) * time.Second
	}
	return body.AccessToken, ttl, nil
}

// FetchAccessCredential exchanges the consumer key and secret for a bearer token.
func (c *Client) FetchAccessCredential(ctx context.Context, key, secret string) (string, error) {
	token, _, err := c.fetchToken(ctx, key, secret)
	return token, err
}

// AccessToken returns a cached token while it is valid. Concurrent callers
// share a single token request.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && c.now().Before(c.expiresAt) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("token", func() (any, error) {
		token, ttl, err := c.fetchToken(ctx, c.cfg.ConsumerKey, c.cfg.ConsumerSecret)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.token = token
		c.expiresAt = c.now().Add(ttl - tokenLeeway)
		c.mu.Unlock()
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) forgetToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// InitiateCharge sends an STK push prompt to phone and returns the
// provider's correlation ids. The phone number is validated before any
// network call is made.
func (c *Client) InitiateCharge(ctx context.Context, phone string, amount int64, reference, description string) (*ChargeResponse, error) {
	if err := ValidatePhone(phone); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, apperrors.Invalid("amount", "amount must be a positive whole number")
	}

	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := Timestamp(c.now())
	payload := stkPushRequest{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          Password(c.cfg.ShortCode, c.cfg.PassKey, timestamp),
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            amount,
		PartyA:            phone,
		PartyB:            c.cfg.ShortCode,
		PhoneNumber:       phone,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  reference,
		TransactionDesc:   description,
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(stkPushPath)
	if err != nil {
		return nil, apperrors.Transient("mpesa stk push", err)
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		c.forgetToken()
		return nil, fmt.Errorf("mpesa stk push: %w", apperrors.ErrAuthentication)
	}
	if isTransientStatus(resp.StatusCode()) {
		return nil, apperrors.Transient("mpesa stk push",
			fmt.Errorf("status %d: %s", resp.StatusCode(), string(resp.Body())))
	}

	var body stkPushResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		log.Printf("M-Pesa STK push returned status %d with unreadable body: %s", resp.StatusCode(), string(resp.Body()))
		return nil, &apperrors.GatewayRejectedError{
			Code:    strconv.Itoa(resp.StatusCode()),
			Message: "Unexpected response from payment gateway",
		}
	}

	switch {
	case body.ErrorMessage != "":
		return nil, &apperrors.GatewayRejectedError{Code: body.ErrorCode, Message: body.ErrorMessage}
	case resp.IsError() || body.ResponseCode != "0":
		msg := body.ResponseDescription
		if msg == "" {
			msg = "Payment request was declined"
		}
		return nil, &apperrors.GatewayRejectedError{Code: body.ResponseCode, Message: msg}
	case body.CheckoutRequestID == "":
		return nil, &apperrors.GatewayRejectedError{Message: "Payment gateway did not return a CheckoutRequestID"}
	}

	return &body.ChargeResponse, nil
}
