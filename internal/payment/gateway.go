// Package payment talks to the payment gateways and decides whether a
// client-reported payment is genuine.
package payment

import (
	"context"
	"strings"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
)

// IntentRequest describes a gateway order or payment intent to create. An
// empty Currency means the gateway's configured currency.
type IntentRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Metadata    map[string]string
}

// Gateway is a single payment gateway family.
type Gateway interface {
	Kind() model.GatewayKind
	// CreateIntent registers an amount with the gateway before the
	// customer pays (a Razorpay order or a Stripe payment intent).
	CreateIntent(ctx context.Context, req IntentRequest) (*model.PaymentIntent, error)
	// FetchPayment returns the authoritative state of a payment.
	FetchPayment(ctx context.Context, paymentID string) (*model.GatewayPayment, error)
	// PublicKey is the key the browser checkout needs.
	PublicKey() string
	// Currency is the only currency the gateway charges in.
	Currency() string
}

// signer is implemented by gateways whose checkout returns a signature
// binding the gateway order to the payment.
type signer interface {
	VerifySignature(orderID, paymentID, signature string) bool
}

// confirmer is implemented by gateways that can vouch for a payment
// without a network call.
type confirmer interface {
	Confirm(paymentID string, expectedMinor int64) *model.GatewayPayment
}

// intentCurrency resolves the currency of a new intent. Callers may only
// restate the configured currency.
func intentCurrency(requested, configured string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" || strings.EqualFold(requested, configured) {
		return configured, nil
	}
	return "", model.ErrUnsupportedCurrency.WithMessage("Currency %q is not supported, use %s", requested, configured)
}
