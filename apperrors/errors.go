// Package apperrors holds the error kinds shared by the order store, the
// payment gateway client, the session flow and the callback reconciler.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrPersistence       = errors.New("persistence error")
	ErrAuthentication    = errors.New("payment gateway authentication failed")
	ErrTransientNetwork  = errors.New("transient network error")
	ErrGatewayRejected   = errors.New("payment gateway rejected the request")
	ErrValidation        = errors.New("validation error")
	ErrMalformedCallback = errors.New("malformed callback")

	ErrNotFound       = errors.New("not found")
	ErrStatusConflict = errors.New("status conflict")
	ErrForbidden      = errors.New("forbidden")
)

// ValidationError reports which input failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// GatewayRejectedError keeps the provider's own wording so it can be shown
// to the shopper verbatim.
type GatewayRejectedError struct {
	Code    string
	Message string
}

func (e *GatewayRejectedError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func (e *GatewayRejectedError) Is(target error) bool {
	return target == ErrGatewayRejected
}

// Persistence wraps a database error so callers can match ErrPersistence
// while the underlying cause stays visible to errors.Is and errors.As.
func Persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

func Transient(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrTransientNetwork, err)
}

// UserMessage returns the text a shopper may see for err.
func UserMessage(err error) string {
	var rejected *GatewayRejectedError
	var invalid *ValidationError
	switch {
	case errors.As(err, &rejected):
		return rejected.Message
	case errors.As(err, &invalid):
		return invalid.Message
	case errors.Is(err, ErrTransientNetwork):
		return "The payment service is temporarily unreachable. Please try again."
	case errors.Is(err, ErrAuthentication):
		return "Payment service authentication failed. Please try again later."
	case errors.Is(err, ErrNotFound):
		return "Not found"
	case errors.Is(err, ErrForbidden):
		return "Access denied"
	case errors.Is(err, ErrStatusConflict):
		return err.Error()
	default:
		return "Internal server error"
	}
}
