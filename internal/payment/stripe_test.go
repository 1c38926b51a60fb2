package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/chandan-mishra846/ecommerce-backend/internal/config"
	"github.com/chandan-mishra846/ecommerce-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStripeKey = "sk_test_123"

type fakeStripe struct {
	intents  map[string]stripeIntent
	lastForm map[string]string
}

func (f *fakeStripe) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+testStripeKey {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid API Key provided"}}`))
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v1/payment_intents":
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.lastForm = map[string]string{}
		for k := range r.PostForm {
			f.lastForm[k] = r.PostForm.Get(k)
		}
		amount, _ := strconv.ParseInt(r.PostForm.Get("amount"), 10, 64)
		_ = json.NewEncoder(w).Encode(stripeIntent{
			ID:           "pi_1",
			ClientSecret: "pi_1_secret_abc",
			Amount:       amount,
			Currency:     r.PostForm.Get("currency"),
			Status:       "requires_payment_method",
		})

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/payment_intents/"):
		intent, ok := f.intents[strings.TrimPrefix(r.URL.Path, "/v1/payment_intents/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such payment_intent"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(intent)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newStripeFixture(t *testing.T, intents map[string]stripeIntent) (*StripeGateway, *fakeStripe) {
	t.Helper()
	fake := &fakeStripe{intents: intents}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	gw := NewStripeGateway(config.StripeConfig{
		SecretKey:      testStripeKey,
		PublishableKey: "pk_test_123",
		BaseURL:        srv.URL,
		Currency:       "usd",
	}, &http.Client{Timeout: 2 * time.Second})
	return gw, fake
}

func TestStripeGateway_CreateIntent(t *testing.T) {
	gw, fake := newStripeFixture(t, nil)

	intent, err := gw.CreateIntent(context.Background(), IntentRequest{
		AmountMinor: 2599,
		Currency:    "USD",
		Metadata:    map[string]string{"userId": "u1"},
	})

	require.NoError(t, err)
	assert.Equal(t, model.GatewayStripe, intent.Gateway)
	assert.Equal(t, "pi_1", intent.ID)
	assert.Equal(t, "pi_1_secret_abc", intent.ClientSecret)
	assert.Equal(t, int64(2599), intent.AmountMinor)
	assert.Equal(t, "usd", intent.Currency)

	assert.Equal(t, "2599", fake.lastForm["amount"])
	assert.Equal(t, "usd", fake.lastForm["currency"])
	assert.Equal(t, "true", fake.lastForm["automatic_payment_methods[enabled]"])
	assert.Equal(t, "u1", fake.lastForm["metadata[userId]"])
}

func TestStripeGateway_CreateIntentDefaultCurrency(t *testing.T) {
	gw, fake := newStripeFixture(t, nil)

	_, err := gw.CreateIntent(context.Background(), IntentRequest{AmountMinor: 100})

	require.NoError(t, err)
	assert.Equal(t, "usd", fake.lastForm["currency"])
	assert.Equal(t, "usd", gw.Currency())
}

func TestStripeGateway_CreateIntentForeignCurrency(t *testing.T) {
	gw, fake := newStripeFixture(t, nil)

	_, err := gw.CreateIntent(context.Background(), IntentRequest{AmountMinor: 100, Currency: "inr"})

	assert.ErrorIs(t, err, model.ErrUnsupportedCurrency)
	assert.Nil(t, fake.lastForm)
}

func TestStripeGateway_FetchPayment(t *testing.T) {
	gw, _ := newStripeFixture(t, map[string]stripeIntent{
		"pi_1": {ID: "pi_1", Amount: 1000, Currency: "usd", Status: "succeeded"},
	})

	p, err := gw.FetchPayment(context.Background(), "pi_1")
	require.NoError(t, err)
	assert.Equal(t, "succeeded", p.Status)
	assert.Equal(t, int64(1000), p.AmountMinor)

	_, err = gw.FetchPayment(context.Background(), "pi_missing")
	assert.ErrorIs(t, err, model.ErrGatewayRejected)
	assert.Contains(t, err.Error(), "No such payment_intent")
}

func TestStripeGateway_Keys(t *testing.T) {
	gw, _ := newStripeFixture(t, nil)

	assert.Equal(t, model.GatewayStripe, gw.Kind())
	assert.Equal(t, "pk_test_123", gw.PublicKey())
	_, isSigner := any(gw).(signer)
	assert.False(t, isSigner)
}
