package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chandan-mishra846/ecommerce-backend/internal/metrics"
	"github.com/chandan-mishra846/ecommerce-backend/internal/model"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Gateway-reported statuses that count as paid.
const (
	razorpayCaptured   = "captured"
	razorpayAuthorized = "authorized"
	stripeSucceeded    = "succeeded"
)

var tracer = otel.Tracer("github.com/chandan-mishra846/ecommerce-backend/internal/payment")

// Verifier decides whether a client-reported payment really happened for
// the expected amount. It keeps no state between calls.
type Verifier struct {
	gateways map[model.GatewayKind]Gateway
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	now      func() time.Time
}

// NewVerifier creates a verifier over the configured gateways.
func NewVerifier(gateways []Gateway, m *metrics.Metrics, logger zerolog.Logger) *Verifier {
	byKind := make(map[model.GatewayKind]Gateway, len(gateways))
	for _, g := range gateways {
		byKind[g.Kind()] = g
	}
	if m == nil {
		m = metrics.NewNop()
	}
	return &Verifier{
		gateways: byKind,
		metrics:  m,
		logger:   logger.With().Str("component", "payment_verifier").Logger(),
		now:      time.Now,
	}
}

// Gateway returns the configured gateway for kind.
func (v *Verifier) Gateway(kind model.GatewayKind) (Gateway, error) {
	g, ok := v.gateways[kind]
	if !ok {
		return nil, model.ErrUnsupportedGateway.WithMessage("Payment gateway %q is not configured", kind)
	}
	return g, nil
}

// Verify checks the confirmation against the gateway and returns the
// normalized payment when it is genuine, confirmed and for expectedMinor.
func (v *Verifier) Verify(ctx context.Context, conf model.PaymentConfirmation, expectedMinor int64) (*model.VerifiedPayment, error) {
	ctx, span := tracer.Start(ctx, "payment.Verify", trace.WithAttributes(
		attribute.String("payment.gateway", string(conf.Gateway)),
		attribute.String("payment.id", conf.PaymentID),
		attribute.Int64("payment.expected_amount", expectedMinor),
	))
	defer span.End()

	verified, err := v.verify(ctx, conf, expectedMinor)

	outcome := "verified"
	if err != nil {
		outcome = outcomeOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		v.logger.Warn().
			Err(err).
			Str("gateway", string(conf.Gateway)).
			Str("payment_id", conf.PaymentID).
			Int64("expected_amount", expectedMinor).
			Msg("Payment verification rejected")
	} else {
		v.logger.Info().
			Str("gateway", string(conf.Gateway)).
			Str("payment_id", verified.TransactionID).
			Str("status", string(verified.Status)).
			Msg("Payment verified")
	}
	v.metrics.PaymentVerifications.WithLabelValues(string(conf.Gateway), outcome).Inc()

	return verified, err
}

func (v *Verifier) verify(ctx context.Context, conf model.PaymentConfirmation, expectedMinor int64) (*model.VerifiedPayment, error) {
	gw, err := v.Gateway(conf.Gateway)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(conf.PaymentID) == "" {
		return nil, model.ErrPaymentNotConfirmed.WithMessage("Payment id is required")
	}

	var payment *model.GatewayPayment
	if c, ok := gw.(confirmer); ok {
		payment = c.Confirm(conf.PaymentID, expectedMinor)
	} else {
		if s, ok := gw.(signer); ok && !s.VerifySignature(conf.GatewayOrderID, conf.PaymentID, conf.Signature) {
			return nil, model.ErrSignatureInvalid
		}

		payment, err = gw.FetchPayment(ctx, conf.PaymentID)
		if err != nil {
			if errors.Is(err, model.ErrGatewayRejected) {
				return nil, model.ErrPaymentNotConfirmed.WithMessage("Payment %s not found at gateway", conf.PaymentID)
			}
			return nil, err
		}
	}

	status, ok := normalizeStatus(gw.Kind(), payment.Status)
	if !ok {
		return nil, model.ErrPaymentNotConfirmed.WithMessage("Payment not confirmed: gateway status %q", payment.Status)
	}
	if payment.AmountMinor != expectedMinor {
		return nil, model.ErrAmountMismatch.WithMessage(
			"Payment amount mismatch: expected %d, gateway reported %d", expectedMinor, payment.AmountMinor)
	}
	if !strings.EqualFold(payment.Currency, gw.Currency()) {
		return nil, model.ErrCurrencyMismatch.WithMessage(
			"Payment currency mismatch: expected %s, gateway reported %q", gw.Currency(), payment.Currency)
	}

	return &model.VerifiedPayment{
		Gateway:       gw.Kind(),
		TransactionID: conf.PaymentID,
		GatewayStatus: payment.Status,
		Status:        status,
		AmountMinor:   payment.AmountMinor,
		Currency:      payment.Currency,
		VerifiedAt:    v.now(),
	}, nil
}

func normalizeStatus(kind model.GatewayKind, status string) (model.PaymentStatus, bool) {
	switch kind {
	case model.GatewayRazorpay:
		switch status {
		case razorpayCaptured:
			return model.PaymentSucceeded, true
		case razorpayAuthorized:
			return model.PaymentPending, true
		}
	case model.GatewayStripe:
		if status == stripeSucceeded {
			return model.PaymentSucceeded, true
		}
	}
	return "", false
}

func outcomeOf(err error) string {
	var de *model.DomainError
	if errors.As(err, &de) {
		return strings.ToLower(de.Code)
	}
	return "error"
}
