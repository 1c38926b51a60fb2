package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// GatewayKind identifies a payment gateway family.
type GatewayKind string

const (
	GatewayRazorpay GatewayKind = "razorpay"
	GatewayStripe   GatewayKind = "stripe"
)

// PaymentStatus is the normalized payment status stored on an order.
type PaymentStatus string

const (
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentPending   PaymentStatus = "pending"
)

// PaymentConfirmation is what the client submits after the gateway
// confirms a payment out of band. It is never persisted.
type PaymentConfirmation struct {
	Gateway        GatewayKind
	GatewayOrderID string
	PaymentID      string
	Signature      string
}

// VerifiedPayment is the outcome of a successful verification.
type VerifiedPayment struct {
	Gateway       GatewayKind   `json:"gateway"`
	TransactionID string        `json:"transactionId"`
	GatewayStatus string        `json:"gatewayStatus"`
	Status        PaymentStatus `json:"status"`
	AmountMinor   int64         `json:"amount"`
	Currency      string        `json:"currency"`
	VerifiedAt    time.Time     `json:"verifiedAt"`
}

// PaymentIntent is a gateway-side order or intent created before checkout.
type PaymentIntent struct {
	Gateway      GatewayKind `json:"gateway"`
	ID           string      `json:"id"`
	ClientSecret string      `json:"clientSecret,omitempty"`
	AmountMinor  int64       `json:"amount"`
	Currency     string      `json:"currency"`
	Status       string      `json:"status,omitempty"`
}

// GatewayPayment is the authoritative payment state reported by a gateway.
type GatewayPayment struct {
	ID          string
	Status      string
	AmountMinor int64
	Currency    string
}

// WebhookEvent is a signature-checked notification from a gateway.
type WebhookEvent struct {
	Gateway   GatewayKind
	Type      string
	PaymentID string
	Status    string
}

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a major-unit amount to integer minor units
// (e.g. rupees to paise), rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits converts integer minor units back to a major-unit amount.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
