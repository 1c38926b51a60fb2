package service

import (
	"strconv"
	"strings"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
)

// ValidateOrderInput checks an order request before any payment is verified
// or anything is written, and returns the parsed shipping info.
func ValidateOrderInput(in *model.CreateOrderInput) (model.ShippingInfo, error) {
	var info model.ShippingInfo
	if in == nil {
		return info, model.ErrInvalidOrderItems
	}

	sh := in.Shipping
	for _, f := range []struct{ name, value string }{
		{"address", sh.Address},
		{"city", sh.City},
		{"state", sh.State},
		{"country", sh.Country},
	} {
		if strings.TrimSpace(f.value) == "" {
			return info, model.ErrInvalidShipping.WithMessage("Shipping %s is required", f.name)
		}
	}

	pincode, err := strconv.ParseInt(strings.TrimSpace(sh.Pincode), 10, 64)
	if err != nil {
		return info, model.ErrInvalidShipping.WithMessage("Pincode must be numeric, got %q", sh.Pincode)
	}
	phone, err := strconv.ParseInt(strings.TrimSpace(sh.PhoneNumber), 10, 64)
	if err != nil {
		return info, model.ErrInvalidShipping.WithMessage("Phone number must be numeric, got %q", sh.PhoneNumber)
	}

	if len(in.Items) == 0 {
		return info, model.ErrInvalidOrderItems
	}
	for i, item := range in.Items {
		switch {
		case strings.TrimSpace(item.ProductID) == "":
			return info, model.ErrInvalidOrderItems.WithMessage("Item %d: product is required", i+1)
		case item.Quantity < 1:
			return info, model.ErrInvalidOrderItems.WithMessage("Item %d: quantity must be at least 1", i+1)
		case !item.Price.IsPositive():
			return info, model.ErrInvalidOrderItems.WithMessage("Item %d: price must be greater than zero", i+1)
		}
	}

	p := in.Prices
	if p.ItemPrice.IsNegative() || p.TaxPrice.IsNegative() || p.ShippingPrice.IsNegative() {
		return info, model.ErrInvalidAmount.WithMessage("Prices cannot be negative")
	}
	if !p.TotalPrice.IsPositive() {
		return info, model.ErrInvalidAmount.WithMessage("Total price must be greater than zero")
	}

	return model.ShippingInfo{
		Address:     strings.TrimSpace(sh.Address),
		City:        strings.TrimSpace(sh.City),
		State:       strings.TrimSpace(sh.State),
		Country:     strings.TrimSpace(sh.Country),
		Pincode:     pincode,
		PhoneNumber: phone,
	}, nil
}
