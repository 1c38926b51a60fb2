package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
	"github.com/chandan-mishra846/ecommerce-backend/internal/payment"
	"github.com/chandan-mishra846/ecommerce-backend/internal/service"

	"github.com/rs/zerolog"
)

// Webhook signature headers.
const (
	razorpaySignatureHeader = "X-Razorpay-Signature"
	stripeSignatureHeader   = "Stripe-Signature"
)

// PaymentHandler serves the gateway intent, verify, key and webhook endpoints.
type PaymentHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("handler", "payment").Logger(),
	}
}

// CreateRazorpayOrder handles POST /api/payment/razorpay/order. The amount
// is given in paise.
func (h *PaymentHandler) CreateRazorpayOrder(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}

	var req intentRequest
	if err := readJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if !req.Amount.IsInteger() {
		writeServiceError(w, model.ErrInvalidAmount.WithMessage("Amount must be a whole number of paise"), h.logger)
		return
	}

	intent, err := h.service.CreateIntent(r.Context(), p, model.GatewayRazorpay, payment.IntentRequest{
		AmountMinor: req.Amount.IntPart(),
		Currency:    req.Currency,
		Receipt:     req.Receipt,
		Metadata:    req.Metadata,
	})
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, envelope{"order": intent})
}

// CreateStripeIntent handles POST /api/payment/stripe/create-payment-intent.
// The amount is given in major units.
func (h *PaymentHandler) CreateStripeIntent(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}

	var req intentRequest
	if err := readJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	intent, err := h.service.CreateIntent(r.Context(), p, model.GatewayStripe, payment.IntentRequest{
		AmountMinor: model.ToMinorUnits(req.Amount),
		Currency:    req.Currency,
		Receipt:     req.Receipt,
		Metadata:    req.Metadata,
	})
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, envelope{
		"clientSecret":    intent.ClientSecret,
		"paymentIntentId": intent.ID,
	})
}

// VerifyRazorpay handles POST /api/payment/razorpay/verify.
func (h *PaymentHandler) VerifyRazorpay(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}

	var req razorpayVerifyRequest
	if err := readJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	conf := model.PaymentConfirmation{
		Gateway:        model.GatewayRazorpay,
		GatewayOrderID: req.RazorpayOrderID,
		PaymentID:      req.RazorpayPaymentID,
		Signature:      req.RazorpaySignature,
	}
	h.verify(w, r, p, conf, req.toInput())
}

// VerifyStripe handles POST /api/payment/stripe/verify.
func (h *PaymentHandler) VerifyStripe(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}

	var req stripeVerifyRequest
	if err := readJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if strings.TrimSpace(req.PaymentIntentID) == "" {
		writeServiceError(w, model.NewDomainError(model.KindValidation, model.ErrCodeValidationFailed, "Payment Intent ID is required"), h.logger)
		return
	}

	conf := model.PaymentConfirmation{
		Gateway:   model.GatewayStripe,
		PaymentID: req.PaymentIntentID,
	}
	h.verify(w, r, p, conf, req.toInput())
}

func (h *PaymentHandler) verify(w http.ResponseWriter, r *http.Request, p model.Principal, conf model.PaymentConfirmation, in *model.CreateOrderInput) {
	order, err := h.service.VerifyAndCreateOrder(r.Context(), p, conf, in)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusCreated, envelope{
		"message":   "Order placed successfully",
		"order":     order,
		"paymentId": order.PaymentInfo.ID,
	})
}

// RazorpayKey handles GET /api/payment/razorpay/key.
func (h *PaymentHandler) RazorpayKey(w http.ResponseWriter, r *http.Request) {
	h.key(w, model.GatewayRazorpay)
}

// StripeKey handles GET /api/payment/stripe/key.
func (h *PaymentHandler) StripeKey(w http.ResponseWriter, r *http.Request) {
	h.key(w, model.GatewayStripe)
}

func (h *PaymentHandler) key(w http.ResponseWriter, kind model.GatewayKind) {
	key, err := h.service.PublicKey(kind)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"key": key})
}

// RazorpayWebhook handles POST /api/payment/razorpay/webhook.
func (h *PaymentHandler) RazorpayWebhook(w http.ResponseWriter, r *http.Request) {
	if h.webhook(w, r, model.GatewayRazorpay, razorpaySignatureHeader) {
		writeSuccess(w, http.StatusOK, envelope{"status": "ok"})
	}
}

// StripeWebhook handles POST /api/payment/stripe/webhook.
func (h *PaymentHandler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	if h.webhook(w, r, model.GatewayStripe, stripeSignatureHeader) {
		writeSuccess(w, http.StatusOK, envelope{"received": true})
	}
}

// webhook passes the raw body to the service; the signature covers the
// exact bytes, so the body is never re-encoded.
func (h *PaymentHandler) webhook(w http.ResponseWriter, r *http.Request, kind model.GatewayKind, header string) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeServiceError(w, errInvalidBody, h.logger)
		return false
	}

	if err := h.service.HandleWebhook(r.Context(), kind, body, r.Header.Get(header)); err != nil {
		writeServiceError(w, err, h.logger)
		return false
	}
	return true
}
