package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
)

func hmacHex(secret string, parts ...[]byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	for _, p := range parts {
		mac.Write(p)
	}
	return hex.EncodeToString(mac.Sum(nil))
}

// equalHex compares signatures byte for byte; hex case and whitespace are
// not normalised.
func equalHex(expected, got string) bool {
	return hmac.Equal([]byte(expected), []byte(got))
}

// RazorpaySignature computes the checkout signature for an order/payment pair.
func RazorpaySignature(secret, orderID, paymentID string) string {
	return hmacHex(secret, []byte(orderID+"|"+paymentID))
}

// VerifyRazorpaySignature reports whether signature was produced by secret
// for the given order/payment pair.
func VerifyRazorpaySignature(secret, orderID, paymentID, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	return equalHex(RazorpaySignature(secret, orderID, paymentID), signature)
}

// VerifyRazorpayWebhook checks the X-Razorpay-Signature header against the
// raw request body.
func VerifyRazorpayWebhook(body []byte, signature, secret string) error {
	if signature == "" || !equalHex(hmacHex(secret, body), signature) {
		return model.ErrSignatureInvalid.WithMessage("Invalid webhook signature")
	}
	return nil
}

// StripeSignatureHeader builds a Stripe-Signature header value for body.
func StripeSignatureHeader(secret string, body []byte, ts time.Time) string {
	t := strconv.FormatInt(ts.Unix(), 10)
	return fmt.Sprintf("t=%s,v1=%s", t, hmacHex(secret, []byte(t), []byte("."), body))
}

// VerifyStripeWebhook checks a Stripe-Signature header of the form
// "t=<unix>,v1=<hex>[,v1=<hex>...]". Events whose timestamp is more than
// tolerance away from now, in either direction, are rejected; a zero
// tolerance disables the check.
func VerifyStripeWebhook(body []byte, header, secret string, now time.Time, tolerance time.Duration) error {
	var (
		timestamp  string
		signatures []string
	)
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return model.ErrSignatureInvalid.WithMessage("Malformed Stripe-Signature header")
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return model.ErrSignatureInvalid.WithMessage("Malformed Stripe-Signature timestamp")
	}
	if skew := now.Sub(time.Unix(unix, 0)); tolerance > 0 && (skew > tolerance || skew < -tolerance) {
		return model.ErrSignatureInvalid.WithMessage("Webhook timestamp outside the tolerance window")
	}

	expected := hmacHex(secret, []byte(timestamp), []byte("."), body)
	for _, sig := range signatures {
		if equalHex(expected, sig) {
			return nil
		}
	}
	return model.ErrSignatureInvalid.WithMessage("Invalid webhook signature")
}
