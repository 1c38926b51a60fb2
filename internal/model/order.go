package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// ParseOrderStatus maps a case-insensitive status name to an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range []OrderStatus{StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", ErrInvalidStatus.WithMessage("Unknown order status: %q", s)
}

// ShippingInfo is the delivery address attached to an order.
type ShippingInfo struct {
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Pincode     int64  `json:"pinCode"`
	PhoneNumber int64  `json:"phoneNo"`
}

// PaymentInfo is the verified payment outcome embedded in an order.
type PaymentInfo struct {
	ID      string        `json:"id"`
	Status  PaymentStatus `json:"status"`
	Gateway GatewayKind   `json:"gateway"`
}

// PriceBreakdown holds the monetary totals of an order.
type PriceBreakdown struct {
	ItemPrice     decimal.Decimal `json:"itemPrice"`
	TaxPrice      decimal.Decimal `json:"taxPrice"`
	ShippingPrice decimal.Decimal `json:"shippingPrice"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}

// Order represents a paid customer order. Line items are a denormalized
// snapshot and never change after creation.
type Order struct {
	ID           uuid.UUID    `json:"_id" db:"id"`
	UserID       string       `json:"user" db:"user_id"`
	ShippingInfo ShippingInfo `json:"shippingInfo"`
	Items        []OrderItem  `json:"orderItems"`
	PaymentInfo  PaymentInfo  `json:"paymentInfo"`
	PriceBreakdown
	Status      OrderStatus `json:"orderStatus" db:"order_status"`
	PaidAt      time.Time   `json:"paidAt" db:"paid_at"`
	DeliveredAt *time.Time  `json:"deliveredAt,omitempty" db:"delivered_at"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order.
type OrderItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID string          `json:"product" db:"product_id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Image     string          `json:"image" db:"image"`
}

// ShippingInput carries shipping fields as received, before numeric parsing.
type ShippingInput struct {
	Address     string
	City        string
	State       string
	Country     string
	Pincode     string
	PhoneNumber string
}

// OrderItemInput is a requested order line after boundary normalization.
type OrderItemInput struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Image     string
}

// CreateOrderInput is everything needed to materialize an order from a
// verified payment.
type CreateOrderInput struct {
	Payment  VerifiedPayment
	Shipping ShippingInput
	Items    []OrderItemInput
	Prices   PriceBreakdown
}

// OrderList is the admin listing with the sum of all order totals.
type OrderList struct {
	Orders      []Order         `json:"orders"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// UpdateOrderStatusRequest represents the request payload for a status transition.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
