package payment

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/chandan-mishra846/ecommerce-backend/internal/config"
	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
)

// ErrWebhookDisabled is returned when no secret is configured for a
// gateway's webhook. Callers acknowledge the delivery without acting on it.
var ErrWebhookDisabled = errors.New("webhook secret not configured")

var errInvalidPayload = model.NewDomainError(model.KindValidation, model.ErrCodeInvalidJSON, "Invalid webhook payload")

// Webhooks authenticates and decodes gateway webhook deliveries.
type Webhooks struct {
	razorpaySecret  string
	stripeSecret    string
	stripeTolerance time.Duration
	now             func() time.Time
}

// NewWebhooks creates a webhook verifier from the payment configuration.
func NewWebhooks(cfg config.PaymentConfig) *Webhooks {
	return &Webhooks{
		razorpaySecret:  cfg.Razorpay.WebhookSecret,
		stripeSecret:    cfg.Stripe.WebhookSecret,
		stripeTolerance: time.Duration(cfg.Stripe.WebhookTolerance) * time.Second,
		now:             time.Now,
	}
}

type razorpayWebhook struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type stripeWebhook struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"object"`
	} `json:"data"`
}

// Parse verifies the signature header of a delivery and decodes its event.
func (w *Webhooks) Parse(kind model.GatewayKind, body []byte, signature string) (*model.WebhookEvent, error) {
	switch kind {
	case model.GatewayRazorpay:
		if w.razorpaySecret == "" {
			return nil, ErrWebhookDisabled
		}
		if err := VerifyRazorpayWebhook(body, signature, w.razorpaySecret); err != nil {
			return nil, err
		}
		var evt razorpayWebhook
		if err := json.Unmarshal(body, &evt); err != nil {
			return nil, errInvalidPayload
		}
		return &model.WebhookEvent{
			Gateway:   kind,
			Type:      evt.Event,
			PaymentID: evt.Payload.Payment.Entity.ID,
			Status:    evt.Payload.Payment.Entity.Status,
		}, nil

	case model.GatewayStripe:
		if w.stripeSecret == "" {
			return nil, ErrWebhookDisabled
		}
		if err := VerifyStripeWebhook(body, signature, w.stripeSecret, w.now(), w.stripeTolerance); err != nil {
			return nil, err
		}
		var evt stripeWebhook
		if err := json.Unmarshal(body, &evt); err != nil {
			return nil, errInvalidPayload
		}
		return &model.WebhookEvent{
			Gateway:   kind,
			Type:      evt.Type,
			PaymentID: evt.Data.Object.ID,
			Status:    evt.Data.Object.Status,
		}, nil
	}

	return nil, model.ErrUnsupportedGateway
}
