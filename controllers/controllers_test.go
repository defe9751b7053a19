package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Mokereri/hotel-kitchen-api/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.Invalid("phone", "bad"), http.StatusBadRequest},
		{fmt.Errorf("order x: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{apperrors.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("busy: %w", apperrors.ErrStatusConflict), http.StatusConflict},
		{&apperrors.GatewayRejectedError{Code: "1032", Message: "Request cancelled by user"}, http.StatusPaymentRequired},
		{fmt.Errorf("token: %w", apperrors.ErrAuthentication), http.StatusBadGateway},
		{apperrors.Transient("stk push", errors.New("timeout")), http.StatusServiceUnavailable},
		{apperrors.Persistence("create order", errors.New("deadlock")), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
