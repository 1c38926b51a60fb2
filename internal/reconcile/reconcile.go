// Package reconcile records verified payments whose orders could not be
// persisted, so that an operator can refund or recreate them by hand.
package reconcile

import (
	"context"
	"time"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"

	"github.com/google/uuid"
)

// Entry is a verified payment without a matching order.
type Entry struct {
	ID          uuid.UUID         `json:"id"`
	Gateway     model.GatewayKind `json:"gateway"`
	PaymentID   string            `json:"paymentId"`
	AmountMinor int64             `json:"amount"`
	Currency    string            `json:"currency,omitempty"`
	UserID      string            `json:"userId"`
	Reason      string            `json:"reason"`
	RecordedAt  time.Time         `json:"recordedAt"`
}

// NewEntry builds an entry for a verified payment.
func NewEntry(payment *model.VerifiedPayment, userID, reason string) Entry {
	return Entry{
		ID:          uuid.New(),
		Gateway:     payment.Gateway,
		PaymentID:   payment.TransactionID,
		AmountMinor: payment.AmountMinor,
		Currency:    payment.Currency,
		UserID:      userID,
		Reason:      reason,
		RecordedAt:  time.Now().UTC(),
	}
}

// Recorder persists reconciliation entries.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}
