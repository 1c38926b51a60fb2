package payment

import (
	"context"
	"strings"
	"testing"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoGateway(t *testing.T) {
	ctx := context.Background()

	t.Run("razorpay intent", func(t *testing.T) {
		g := NewDemoGateway(model.GatewayRazorpay, "INR")

		intent, err := g.CreateIntent(ctx, IntentRequest{AmountMinor: 5000})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(intent.ID, "demo_"))
		assert.Equal(t, "INR", intent.Currency)
		assert.Empty(t, intent.ClientSecret)
		assert.Equal(t, "demo_razorpay", g.PublicKey())

		p, err := g.FetchPayment(ctx, "pay_x")
		require.NoError(t, err)
		assert.Equal(t, "captured", p.Status)
	})

	t.Run("stripe intent", func(t *testing.T) {
		g := NewDemoGateway(model.GatewayStripe, "usd")

		intent, err := g.CreateIntent(ctx, IntentRequest{AmountMinor: 5000, Currency: "USD"})
		require.NoError(t, err)
		assert.Equal(t, intent.ID+"_secret", intent.ClientSecret)
		assert.Equal(t, "usd", intent.Currency)

		_, err = g.CreateIntent(ctx, IntentRequest{AmountMinor: 5000, Currency: "eur"})
		assert.ErrorIs(t, err, model.ErrUnsupportedCurrency)

		p := g.Confirm("pi_x", 5000)
		assert.Equal(t, "succeeded", p.Status)
		assert.Equal(t, int64(5000), p.AmountMinor)
		assert.Equal(t, "usd", p.Currency)
	})
}
