package models

import (
	"testing"

	"github.com/Mokereri/hotel-kitchen-api/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFamiliesAreDisjoint(t *testing.T) {
	all := append([]OrderStatus{StatusPendingPaymentConfirmation, StatusPaid, StatusPaymentFailed}, OperationalStatuses...)
	for _, s := range all {
		assert.NotEqual(t, s.IsPaymentLifecycle(), s.IsOperational(), "status %q", s)
		assert.True(t, s.Valid())
	}
}

func TestParseOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus("Processing")
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, s)

	_, err = ParseOrderStatus("Shipped")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestOrderItemSubtotal(t *testing.T) {
	item := OrderItem{Quantity: 2, PricePerItem: DefaultMeals[3].Price}
	assert.Equal(t, "200", item.Subtotal().String())
}
