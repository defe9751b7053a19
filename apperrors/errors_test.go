package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGatewayRejectedMatchesKind(t *testing.T) {
	err := fmt.Errorf("charge: %w", &GatewayRejectedError{Code: "400.002.02", Message: "Bad Request - Invalid PhoneNumber"})

	assert.True(t, errors.Is(err, ErrGatewayRejected))
	assert.False(t, errors.Is(err, ErrTransientNetwork))
	assert.Equal(t, "Bad Request - Invalid PhoneNumber", UserMessage(err))
}

func TestValidationErrorMatchesKind(t *testing.T) {
	err := Invalid("phone", "phone number must be 12 digits starting with 254")

	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "phone: phone number must be 12 digits starting with 254", err.Error())
	assert.Equal(t, "phone number must be 12 digits starting with 254", UserMessage(err))
}

func TestPersistenceKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Persistence("create order", cause)

	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "Internal server error", UserMessage(err))
}
