package callback

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Mokereri/hotel-kitchen-api/apperrors"
)

// Envelope is the body Daraja posts to the merchant's callback URL:
// {"Body":{"stkCallback":{...}}}.
type Envelope struct {
	Body *struct {
		StkCallback *STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

type STKCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        *json.Number      `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata"`
}

type CallbackMetadata struct {
	Item []MetadataItem `json:"Item"`
}

type MetadataItem struct {
	Name  string `json:"Name"`
	Value any    `json:"Value"`
}

// Parse decodes body and returns the stkCallback block. Numbers are kept as
// json.Number so large values such as TransactionDate survive intact.
func Parse(body []byte) (*STKCallback, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var env Envelope
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("decode callback: %w: %w", apperrors.ErrMalformedCallback, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after callback object: %w", apperrors.ErrMalformedCallback)
	}
	if env.Body == nil || env.Body.StkCallback == nil {
		return nil, fmt.Errorf("missing Body.stkCallback: %w", apperrors.ErrMalformedCallback)
	}
	return env.Body.StkCallback, nil
}

// Metadata returns the named item's value as text, or "" when absent.
func (cb *STKCallback) Metadata(name string) string {
	if cb.CallbackMetadata == nil {
		return ""
	}
	for _, item := range cb.CallbackMetadata.Item {
		if item.Name == name && item.Value != nil {
			return fmt.Sprint(item.Value)
		}
	}
	return ""
}
