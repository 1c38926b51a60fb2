package payment

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/chandan-mishra846/ecommerce-backend/internal/config"
	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
)

// StripeGateway is a client for the Stripe payment intents API.
type StripeGateway struct {
	api            *apiClient
	publishableKey string
	currency       string
}

// NewStripeGateway creates a Stripe client using bearer auth.
func NewStripeGateway(cfg config.StripeConfig, httpClient *http.Client) *StripeGateway {
	return &StripeGateway{
		api: &apiClient{
			name:       "stripe",
			baseURL:    cfg.BaseURL,
			httpClient: httpClient,
			authorize: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+cfg.SecretKey)
			},
		},
		publishableKey: cfg.PublishableKey,
		currency:       cfg.Currency,
	}
}

func (g *StripeGateway) Kind() model.GatewayKind {
	return model.GatewayStripe
}

func (g *StripeGateway) Currency() string {
	return g.currency
}

func (g *StripeGateway) PublicKey() string {
	return g.publishableKey
}

type stripeIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// CreateIntent creates a payment intent with automatic payment methods.
func (g *StripeGateway) CreateIntent(ctx context.Context, req IntentRequest) (*model.PaymentIntent, error) {
	currency, err := intentCurrency(req.Currency, g.currency)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.AmountMinor, 10))
	form.Set("currency", strings.ToLower(currency))
	form.Set("automatic_payment_methods[enabled]", "true")

	keys := make([]string, 0, len(req.Metadata))
	for k := range req.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		form.Set(fmt.Sprintf("metadata[%s]", k), req.Metadata[k])
	}

	var intent stripeIntent
	err = g.api.do(ctx, http.MethodPost, "/v1/payment_intents",
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &intent)
	if err != nil {
		return nil, err
	}

	return &model.PaymentIntent{
		Gateway:      model.GatewayStripe,
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		AmountMinor:  intent.Amount,
		Currency:     intent.Currency,
		Status:       intent.Status,
	}, nil
}

// FetchPayment retrieves a payment intent by id.
func (g *StripeGateway) FetchPayment(ctx context.Context, paymentID string) (*model.GatewayPayment, error) {
	var intent stripeIntent
	if err := g.api.do(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(paymentID), nil, "", &intent); err != nil {
		return nil, err
	}

	return &model.GatewayPayment{
		ID:          intent.ID,
		Status:      intent.Status,
		AmountMinor: intent.Amount,
		Currency:    intent.Currency,
	}, nil
}
