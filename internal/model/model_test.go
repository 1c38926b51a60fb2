package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Is(t *testing.T) {
	detailed := NewInsufficientStockError(3)

	assert.True(t, errors.Is(detailed, ErrInsufficientStock))
	assert.False(t, errors.Is(detailed, ErrProductNotFound))
	assert.Equal(t, "Only 3 items available in stock", detailed.Error())
	assert.Equal(t, KindConflict, detailed.Kind)

	wrapped := fmt.Errorf("failed to decrement stock: %w", detailed)
	assert.True(t, errors.Is(wrapped, ErrInsufficientStock))

	var de *DomainError
	require.True(t, errors.As(wrapped, &de))
	assert.Equal(t, ErrCodeInsufficientStock, de.Code)
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected int64
	}{
		{name: "Whole amount", amount: "100", expected: 10000},
		{name: "Two decimals", amount: "99.99", expected: 9999},
		{name: "Rounds half up", amount: "10.005", expected: 1001},
		{name: "Rounds down", amount: "10.004", expected: 1000},
		{name: "Zero", amount: "0", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToMinorUnits(decimal.RequireFromString(tt.amount)))
		})
	}

	assert.True(t, FromMinorUnits(10050).Equal(decimal.RequireFromString("100.50")))
}

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected OrderStatus
		wantErr  bool
	}{
		{input: "Processing", expected: StatusProcessing},
		{input: "shipped", expected: StatusShipped},
		{input: " DELIVERED ", expected: StatusDelivered},
		{input: "Cancelled", expected: StatusCancelled},
		{input: "Returned", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			status, err := ParseOrderStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestCart_Helpers(t *testing.T) {
	itemID := uuid.New()
	cart := &Cart{
		UserID: "u1",
		Items: []CartItem{
			{ID: itemID, ProductID: "P1", Quantity: 2, Price: decimal.NewFromInt(50)},
			{ID: uuid.New(), ProductID: "P2", Quantity: 1, Price: decimal.RequireFromString("19.99")},
		},
	}

	assert.True(t, cart.Subtotal().Equal(decimal.RequireFromString("119.99")))
	require.NotNil(t, cart.FindItem(itemID))
	assert.Equal(t, "P1", cart.FindItem(itemID).ProductID)
	assert.Nil(t, cart.FindItem(uuid.New()))
	require.NotNil(t, cart.FindProduct("P2"))
	assert.Nil(t, cart.FindProduct("P9"))
}

func TestPrincipal_HasRole(t *testing.T) {
	admin := Principal{ID: "a", Role: RoleAdmin}
	user := Principal{ID: "u", Role: RoleUser}

	assert.True(t, admin.IsAdmin())
	assert.False(t, user.IsAdmin())
	assert.True(t, user.HasRole(RoleSeller, RoleUser))
	assert.False(t, user.HasRole(RoleAdmin, RoleSeller))
}
