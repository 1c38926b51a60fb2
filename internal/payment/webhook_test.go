package payment

import (
	"testing"
	"time"

	"github.com/chandan-mishra846/ecommerce-backend/internal/config"
	"github.com/chandan-mishra846/ecommerce-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhooks_Parse(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	w := NewWebhooks(config.PaymentConfig{
		Razorpay: config.RazorpayConfig{WebhookSecret: "rzp_wh"},
		Stripe:   config.StripeConfig{WebhookSecret: "stripe_wh", WebhookTolerance: 300},
	})
	w.now = func() time.Time { return now }

	t.Run("razorpay", func(t *testing.T) {
		body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","status":"captured"}}}}`)

		evt, err := w.Parse(model.GatewayRazorpay, body, hmacHex("rzp_wh", body))

		require.NoError(t, err)
		assert.Equal(t, "payment.captured", evt.Type)
		assert.Equal(t, "pay_1", evt.PaymentID)
		assert.Equal(t, "captured", evt.Status)
	})

	t.Run("razorpay bad signature", func(t *testing.T) {
		_, err := w.Parse(model.GatewayRazorpay, []byte(`{}`), "abc")
		assert.ErrorIs(t, err, model.ErrSignatureInvalid)
	})

	t.Run("stripe", func(t *testing.T) {
		body := []byte(`{"type":"payment_intent.payment_failed","data":{"object":{"id":"pi_1","status":"requires_payment_method"}}}`)

		evt, err := w.Parse(model.GatewayStripe, body, StripeSignatureHeader("stripe_wh", body, now.Add(-time.Minute)))

		require.NoError(t, err)
		assert.Equal(t, model.GatewayStripe, evt.Gateway)
		assert.Equal(t, "payment_intent.payment_failed", evt.Type)
		assert.Equal(t, "pi_1", evt.PaymentID)
	})

	t.Run("stripe invalid json", func(t *testing.T) {
		body := []byte(`not json`)

		_, err := w.Parse(model.GatewayStripe, body, StripeSignatureHeader("stripe_wh", body, now))

		var de *model.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, model.KindValidation, de.Kind)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := w.Parse("paypal", []byte(`{}`), "")
		assert.ErrorIs(t, err, model.ErrUnsupportedGateway)
	})
}

func TestWebhooks_Disabled(t *testing.T) {
	w := NewWebhooks(config.PaymentConfig{})

	_, err := w.Parse(model.GatewayRazorpay, []byte(`{}`), "")
	assert.ErrorIs(t, err, ErrWebhookDisabled)

	_, err = w.Parse(model.GatewayStripe, []byte(`{}`), "")
	assert.ErrorIs(t, err, ErrWebhookDisabled)
}
