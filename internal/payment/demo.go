package payment

import (
	"context"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"

	"github.com/google/uuid"
)

// DemoGateway stands in for a real gateway when the process runs in demo
// payment mode. It never performs network calls and confirms every payment
// for the amount the caller expects.
type DemoGateway struct {
	kind     model.GatewayKind
	currency string
}

// NewDemoGateway creates a demo gateway for the given family.
func NewDemoGateway(kind model.GatewayKind, currency string) *DemoGateway {
	return &DemoGateway{kind: kind, currency: currency}
}

func (g *DemoGateway) Kind() model.GatewayKind {
	return g.kind
}

func (g *DemoGateway) Currency() string {
	return g.currency
}

func (g *DemoGateway) PublicKey() string {
	return "demo_" + string(g.kind)
}

func (g *DemoGateway) CreateIntent(_ context.Context, req IntentRequest) (*model.PaymentIntent, error) {
	currency, err := intentCurrency(req.Currency, g.currency)
	if err != nil {
		return nil, err
	}

	id := "demo_" + uuid.NewString()
	intent := &model.PaymentIntent{
		Gateway:     g.kind,
		ID:          id,
		AmountMinor: req.AmountMinor,
		Currency:    currency,
		Status:      "created",
	}
	if g.kind == model.GatewayStripe {
		intent.ClientSecret = id + "_secret"
		intent.Status = "requires_payment_method"
	}
	return intent, nil
}

// FetchPayment reports the payment as confirmed. The amount is unknown
// without an expectation, so it is left at zero; use Confirm instead.
func (g *DemoGateway) FetchPayment(_ context.Context, paymentID string) (*model.GatewayPayment, error) {
	return &model.GatewayPayment{
		ID:       paymentID,
		Status:   g.confirmedStatus(),
		Currency: g.currency,
	}, nil
}

// Confirm fabricates a confirmed payment for exactly the expected amount.
func (g *DemoGateway) Confirm(paymentID string, expectedMinor int64) *model.GatewayPayment {
	return &model.GatewayPayment{
		ID:          paymentID,
		Status:      g.confirmedStatus(),
		AmountMinor: expectedMinor,
		Currency:    g.currency,
	}
}

func (g *DemoGateway) confirmedStatus() string {
	if g.kind == model.GatewayStripe {
		return stripeSucceeded
	}
	return razorpayCaptured
}
