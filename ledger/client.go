// Package ledger records paid orders as journal entries in Zoho Books.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Mokereri/hotel-kitchen-api/apperrors"
	"github.com/go-resty/resty/v2"
)

const (
	tokenPath   = "/oauth/v2/token"
	journalPath = "/journalentries"
)

type Config struct {
	AccountsURL    string
	BooksURL       string
	ClientID       string
	ClientSecret   string
	RefreshToken   string
	OrganizationID string
	CashAccountID  string
	SalesAccountID string
	CurrencyID     string
	Timeout        time.Duration
}

type LineItem struct {
	AccountID   string  `json:"account_id"`
	Debit       float64 `json:"debit,omitempty"`
	Credit      float64 `json:"credit,omitempty"`
	Description string  `json:"description,omitempty"`
}

type JournalEntry struct {
	JournalDate     string     `json:"journal_date"`
	CurrencyID      string     `json:"currency_id,omitempty"`
	ReferenceNumber string     `json:"reference_number"`
	Notes           string     `json:"notes,omitempty"`
	LineItems       []LineItem `json:"line_items"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

type journalResponse struct {
	Code         int    `json:"code"`
	Message      string `json:"message"`
	JournalEntry *struct {
		JournalID string `json:"journal_id"`
	} `json:"journal_entry"`
}

type Client struct {
	cfg      Config
	accounts *resty.Client
	books    *resty.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg: cfg,
		accounts: resty.New().
			SetBaseURL(cfg.AccountsURL).
			SetTimeout(cfg.Timeout),
		books: resty.New().
			SetBaseURL(cfg.BooksURL).
			SetTimeout(cfg.Timeout).
			SetHeader("Accept", "application/json"),
	}
}

// RefreshAccessToken exchanges the long-lived refresh token for an access token.
func (c *Client) RefreshAccessToken(ctx context.Context) (string, error) {
	resp, err := c.accounts.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"refresh_token": c.cfg.RefreshToken,
			"client_id":     c.cfg.ClientID,
			"client_secret": c.cfg.ClientSecret,
			"grant_type":    "refresh_token",
		}).
		Post(tokenPath)
	if err != nil {
		return "", apperrors.Transient("zoho token refresh", err)
	}
	if resp.StatusCode() >= 500 {
		return "", apperrors.Transient("zoho token refresh", fmt.Errorf("status %d", resp.StatusCode()))
	}

	var body tokenResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil || resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("zoho token refresh failed with status %d: %w", resp.StatusCode(), apperrors.ErrAuthentication)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("zoho token refresh: %s: %w", body.Error, apperrors.ErrAuthentication)
	}
	return body.AccessToken, nil
}

// CreateJournalEntry posts entry and returns the journal id Zoho assigned.
func (c *Client) CreateJournalEntry(ctx context.Context, token string, entry JournalEntry) (string, error) {
	resp, err := c.books.R().
		SetContext(ctx).
		SetHeader("Authorization", "Zoho-oauthtoken "+token).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("organization_id", c.cfg.OrganizationID).
		SetBody(entry).
		Post(journalPath)
	if err != nil {
		return "", apperrors.Transient("zoho journal entry", err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized:
		return "", fmt.Errorf("zoho journal entry: %w", apperrors.ErrAuthentication)
	case resp.StatusCode() >= 500:
		return "", apperrors.Transient("zoho journal entry", fmt.Errorf("status %d", resp.StatusCode()))
	}

	var body journalResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("unreadable zoho journal response (status %d): %w", resp.StatusCode(), err)
	}
	if body.Code != 0 || body.JournalEntry == nil || body.JournalEntry.JournalID == "" {
		return "", &apperrors.GatewayRejectedError{Code: fmt.Sprint(body.Code), Message: body.Message}
	}
	return body.JournalEntry.JournalID, nil
}
