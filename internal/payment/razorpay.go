package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/chandan-mishra846/ecommerce-backend/internal/config"
	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
)

// RazorpayGateway is a client for the Razorpay orders and payments API.
type RazorpayGateway struct {
	api       *apiClient
	keyID     string
	keySecret string
	currency  string
}

// NewRazorpayGateway creates a Razorpay client using basic auth.
func NewRazorpayGateway(cfg config.RazorpayConfig, httpClient *http.Client) *RazorpayGateway {
	return &RazorpayGateway{
		api: &apiClient{
			name:       "razorpay",
			baseURL:    cfg.BaseURL,
			httpClient: httpClient,
			authorize: func(r *http.Request) {
				r.SetBasicAuth(cfg.KeyID, cfg.KeySecret)
			},
		},
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		currency:  cfg.Currency,
	}
}

func (g *RazorpayGateway) Kind() model.GatewayKind {
	return model.GatewayRazorpay
}

func (g *RazorpayGateway) Currency() string {
	return g.currency
}

func (g *RazorpayGateway) PublicKey() string {
	return g.keyID
}

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type razorpayPayment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// CreateIntent creates a Razorpay order.
func (g *RazorpayGateway) CreateIntent(ctx context.Context, req IntentRequest) (*model.PaymentIntent, error) {
	currency, err := intentCurrency(req.Currency, g.currency)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]any{
		"amount":   req.AmountMinor,
		"currency": currency,
		"receipt":  req.Receipt,
		"notes":    req.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode razorpay order: %w", err)
	}

	var order razorpayOrder
	if err := g.api.do(ctx, http.MethodPost, "/v1/orders", bytes.NewReader(payload), "application/json", &order); err != nil {
		return nil, err
	}

	return &model.PaymentIntent{
		Gateway:     model.GatewayRazorpay,
		ID:          order.ID,
		AmountMinor: order.Amount,
		Currency:    order.Currency,
		Status:      order.Status,
	}, nil
}

// FetchPayment retrieves a payment by id.
func (g *RazorpayGateway) FetchPayment(ctx context.Context, paymentID string) (*model.GatewayPayment, error) {
	var p razorpayPayment
	if err := g.api.do(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(paymentID), nil, "", &p); err != nil {
		return nil, err
	}

	return &model.GatewayPayment{
		ID:          p.ID,
		Status:      p.Status,
		AmountMinor: p.Amount,
		Currency:    p.Currency,
	}, nil
}

// VerifySignature checks the checkout signature with the key secret.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifyRazorpaySignature(g.keySecret, orderID, paymentID, signature)
}
