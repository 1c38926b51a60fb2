package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/chandan-mishra846/ecommerce-backend/internal/metrics"
	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
	"github.com/chandan-mishra846/ecommerce-backend/internal/payment"
	"github.com/chandan-mishra846/ecommerce-backend/internal/repository"

	"github.com/rs/zerolog"
)

// PaymentVerifier decides whether a reported payment is genuine.
type PaymentVerifier interface {
	Verify(ctx context.Context, conf model.PaymentConfirmation, expectedMinor int64) (*model.VerifiedPayment, error)
	Gateway(kind model.GatewayKind) (payment.Gateway, error)
}

// WebhookParser authenticates and decodes webhook deliveries.
type WebhookParser interface {
	Parse(kind model.GatewayKind, body []byte, signature string) (*model.WebhookEvent, error)
}

// Webhook event types that report a completed payment.
var paidEvents = map[string]bool{
	"payment.captured":         true,
	"payment_intent.succeeded": true,
}

// paymentService implements PaymentService.
type paymentService struct {
	verifier  PaymentVerifier
	webhooks  WebhookParser
	orders    OrderService
	orderRepo repository.OrderRepository
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	verifier PaymentVerifier,
	webhooks WebhookParser,
	orders OrderService,
	orderRepo repository.OrderRepository,
	m *metrics.Metrics,
	logger zerolog.Logger,
) PaymentService {
	if m == nil {
		m = metrics.NewNop()
	}
	return &paymentService{
		verifier:  verifier,
		webhooks:  webhooks,
		orders:    orders,
		orderRepo: orderRepo,
		metrics:   m,
		logger:    logger.With().Str("service", "payment").Logger(),
		now:       time.Now,
	}
}

// CreateIntent registers an amount with a gateway before checkout.
func (s *paymentService) CreateIntent(ctx context.Context, principal model.Principal, kind model.GatewayKind, req payment.IntentRequest) (*model.PaymentIntent, error) {
	if req.AmountMinor <= 0 {
		return nil, model.ErrInvalidAmount
	}

	gw, err := s.verifier.Gateway(kind)
	if err != nil {
		return nil, err
	}

	if req.Receipt == "" {
		req.Receipt = "order_" + strconv.FormatInt(s.now().UnixMilli(), 10)
	}
	metadata := make(map[string]string, len(req.Metadata)+1)
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	metadata["userId"] = principal.ID
	req.Metadata = metadata

	intent, err := gw.CreateIntent(ctx, req)
	if err != nil {
		s.metrics.PaymentIntents.WithLabelValues(string(kind), "error").Inc()
		s.logger.Error().
			Err(err).
			Str("gateway", string(kind)).
			Int64("amount", req.AmountMinor).
			Msg("failed to create payment intent")
		return nil, err
	}

	s.metrics.PaymentIntents.WithLabelValues(string(kind), "created").Inc()
	s.logger.Info().
		Str("gateway", string(kind)).
		Str("intent_id", intent.ID).
		Str("user_id", principal.ID).
		Int64("amount", intent.AmountMinor).
		Msg("payment intent created")
	return intent, nil
}

// PublicKey returns the browser-facing key of a gateway.
func (s *paymentService) PublicKey(kind model.GatewayKind) (string, error) {
	gw, err := s.verifier.Gateway(kind)
	if err != nil {
		return "", err
	}
	return gw.PublicKey(), nil
}

// VerifyAndCreateOrder validates the order request, verifies the payment
// for its total and materializes the order. Nothing is written unless the
// payment is verified.
func (s *paymentService) VerifyAndCreateOrder(ctx context.Context, principal model.Principal, conf model.PaymentConfirmation, in *model.CreateOrderInput) (*model.Order, error) {
	if _, err := ValidateOrderInput(in); err != nil {
		return nil, err
	}

	verified, err := s.verifier.Verify(ctx, conf, model.ToMinorUnits(in.Prices.TotalPrice))
	if err != nil {
		return nil, err
	}

	in.Payment = *verified
	return s.orders.CreateOrder(ctx, principal, in)
}

// HandleWebhook authenticates a gateway notification, then logs and counts
// it. Deliveries for gateways without a webhook secret are acknowledged
// and ignored.
func (s *paymentService) HandleWebhook(ctx context.Context, kind model.GatewayKind, body []byte, signature string) error {
	event, err := s.webhooks.Parse(kind, body, signature)
	if err != nil {
		if errors.Is(err, payment.ErrWebhookDisabled) {
			s.logger.Debug().Str("gateway", string(kind)).Msg("webhook secret not configured, ignoring delivery")
			return nil
		}
		s.logger.Warn().Err(err).Str("gateway", string(kind)).Msg("webhook rejected")
		return err
	}

	s.metrics.Webhooks.WithLabelValues(string(kind), event.Type).Inc()

	orderID := ""
	if paidEvents[event.Type] && event.PaymentID != "" {
		order, err := s.orderRepo.GetByPaymentID(ctx, event.PaymentID)
		if err != nil {
			s.logger.Error().Err(err).Str("payment_id", event.PaymentID).Msg("failed to look up order for webhook")
			return fmt.Errorf("failed to process webhook: %w", err)
		}
		if order == nil {
			// The checkout may still be in flight.
			s.logger.Warn().
				Str("gateway", string(kind)).
				Str("event", event.Type).
				Str("payment_id", event.PaymentID).
				Msg("payment completed, no order yet")
			return nil
		}
		orderID = order.ID.String()
	}

	s.logger.Info().
		Str("gateway", string(kind)).
		Str("event", event.Type).
		Str("payment_id", event.PaymentID).
		Str("status", event.Status).
		Str("order_id", orderID).
		Msg("webhook received")
	return nil
}
