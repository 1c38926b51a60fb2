package service

import (
	"testing"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOrderInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *model.CreateOrderInput)
		wantErr error
		wantMsg string
	}{
		{name: "valid", mutate: func(*model.CreateOrderInput) {}},
		{
			name:   "pincode with spaces",
			mutate: func(in *model.CreateOrderInput) { in.Shipping.Pincode = " 411001 " },
		},
		{
			name:    "non numeric pincode",
			mutate:  func(in *model.CreateOrderInput) { in.Shipping.Pincode = "4110O1" },
			wantErr: model.ErrInvalidShipping,
			wantMsg: "Pincode must be numeric",
		},
		{
			name:    "non numeric phone",
			mutate:  func(in *model.CreateOrderInput) { in.Shipping.PhoneNumber = "+91-98765" },
			wantErr: model.ErrInvalidShipping,
			wantMsg: "Phone number must be numeric",
		},
		{
			name:    "missing city",
			mutate:  func(in *model.CreateOrderInput) { in.Shipping.City = "  " },
			wantErr: model.ErrInvalidShipping,
			wantMsg: "Shipping city is required",
		},
		{
			name:    "no items",
			mutate:  func(in *model.CreateOrderInput) { in.Items = nil },
			wantErr: model.ErrInvalidOrderItems,
		},
		{
			name:    "zero quantity",
			mutate:  func(in *model.CreateOrderInput) { in.Items[0].Quantity = 0 },
			wantErr: model.ErrInvalidOrderItems,
			wantMsg: "Item 1: quantity must be at least 1",
		},
		{
			name:    "zero price",
			mutate:  func(in *model.CreateOrderInput) { in.Items[0].Price = decimal.Zero },
			wantErr: model.ErrInvalidOrderItems,
		},
		{
			name:    "missing product",
			mutate:  func(in *model.CreateOrderInput) { in.Items[0].ProductID = "" },
			wantErr: model.ErrInvalidOrderItems,
		},
		{
			name:    "negative tax",
			mutate:  func(in *model.CreateOrderInput) { in.Prices.TaxPrice = decimal.NewFromInt(-1) },
			wantErr: model.ErrInvalidAmount,
		},
		{
			name:    "zero total",
			mutate:  func(in *model.CreateOrderInput) { in.Prices.TotalPrice = decimal.Zero },
			wantErr: model.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validOrderInput()
			tt.mutate(in)

			info, err := ValidateOrderInput(in)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantMsg != "" {
					assert.Contains(t, err.Error(), tt.wantMsg)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(411001), info.Pincode)
			assert.Equal(t, "Pune", info.City)
		})
	}
}

func TestValidateOrderInput_Nil(t *testing.T) {
	_, err := ValidateOrderInput(nil)
	assert.ErrorIs(t, err, model.ErrInvalidOrderItems)
}
