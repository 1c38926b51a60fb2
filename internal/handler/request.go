package handler

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"

	"github.com/shopspring/decimal"
)

// flexString accepts a JSON string or number and keeps its text form.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*s = flexString(n.String())
	return nil
}

// flexImage accepts "url", ["url", ...] or [{"url": "..."}, ...] and keeps
// the first url.
type flexImage string

func (i *flexImage) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*i = flexImage(s)
		return nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected image url or list: %w", err)
	}
	if len(list) == 0 {
		*i = ""
		return nil
	}
	if err := json.Unmarshal(list[0], &s); err == nil {
		*i = flexImage(s)
		return nil
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(list[0], &obj); err != nil {
		return fmt.Errorf("expected image url or object: %w", err)
	}
	*i = flexImage(obj.URL)
	return nil
}

type shippingInfoRequest struct {
	Address     string     `json:"address"`
	City        string     `json:"city"`
	State       string     `json:"state"`
	Country     string     `json:"country"`
	PinCode     flexString `json:"pinCode"`
	Pincode     flexString `json:"pincode"`
	PhoneNo     flexString `json:"phoneNo"`
	PhoneNumber flexString `json:"phoneNumber"`
}

type orderItemRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Image    flexImage       `json:"image"`
	Product  string          `json:"product"`
}

// orderRequest is the order part shared by both verify endpoints.
type orderRequest struct {
	ShippingInfo  shippingInfoRequest `json:"shippingInfo"`
	OrderItems    []orderItemRequest  `json:"orderItems"`
	ItemPrice     decimal.Decimal     `json:"itemPrice"`
	TaxPrice      decimal.Decimal     `json:"taxPrice"`
	ShippingPrice decimal.Decimal     `json:"shippingPrice"`
	TotalPrice    decimal.Decimal     `json:"totalPrice"`
}

type razorpayVerifyRequest struct {
	orderRequest
	RazorpayOrderID   string `json:"razorpayOrderId"`
	RazorpayPaymentID string `json:"razorpayPaymentId"`
	RazorpaySignature string `json:"razorpaySignature"`
}

type stripeVerifyRequest struct {
	orderRequest
	PaymentIntentID string `json:"paymentIntentId"`
}

type intentRequest struct {
	Amount   decimal.Decimal   `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Metadata map[string]string `json:"metadata"`
}

func firstNonEmpty(values ...flexString) string {
	for _, v := range values {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

// toInput converts the wire shape to the service input. Field checks
// happen in the service so both gateways share them.
func (r *orderRequest) toInput() *model.CreateOrderInput {
	items := make([]model.OrderItemInput, 0, len(r.OrderItems))
	for _, it := range r.OrderItems {
		items = append(items, model.OrderItemInput{
			ProductID: it.Product,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Image:     string(it.Image),
		})
	}

	return &model.CreateOrderInput{
		Shipping: model.ShippingInput{
			Address:     r.ShippingInfo.Address,
			City:        r.ShippingInfo.City,
			State:       r.ShippingInfo.State,
			Country:     r.ShippingInfo.Country,
			Pincode:     firstNonEmpty(r.ShippingInfo.PinCode, r.ShippingInfo.Pincode),
			PhoneNumber: firstNonEmpty(r.ShippingInfo.PhoneNo, r.ShippingInfo.PhoneNumber),
		},
		Items: items,
		Prices: model.PriceBreakdown{
			ItemPrice:     r.ItemPrice,
			TaxPrice:      r.TaxPrice,
			ShippingPrice: r.ShippingPrice,
			TotalPrice:    r.TotalPrice,
		},
	}
}
