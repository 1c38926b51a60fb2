package reconcile

import (
	"context"

	"github.com/chandan-mishra846/ecommerce-backend/internal/metrics"

	"github.com/rs/zerolog"
)

// fallbackRecorder tries S3 first, then falls back to the local file system.
type fallbackRecorder struct {
	s3       Recorder
	file     Recorder
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	s3Active bool
}

// NewFallbackRecorder creates a recorder that prefers s3 when enabled.
// If s3 is nil, only the file recorder is used.
func NewFallbackRecorder(s3, file Recorder, s3Enabled bool, m *metrics.Metrics, logger zerolog.Logger) Recorder {
	if m == nil {
		m = metrics.NewNop()
	}
	return &fallbackRecorder{
		s3:       s3,
		file:     file,
		metrics:  m,
		s3Active: s3Enabled && s3 != nil,
		logger:   logger.With().Str("component", "reconciliation-recorder").Logger(),
	}
}

func (r *fallbackRecorder) Record(ctx context.Context, entry Entry) error {
	if r.s3Active {
		err := r.s3.Record(ctx, entry)
		if err == nil {
			r.metrics.Reconciliations.WithLabelValues("s3", "ok").Inc()
			return nil
		}
		r.metrics.Reconciliations.WithLabelValues("s3", "error").Inc()
		r.logger.Warn().
			Err(err).
			Str("payment_id", entry.PaymentID).
			Msg("failed to record in S3, falling back to local file system")
	}

	if err := r.file.Record(ctx, entry); err != nil {
		r.metrics.Reconciliations.WithLabelValues("file", "error").Inc()
		r.logger.Error().
			Err(err).
			Str("payment_id", entry.PaymentID).
			Int64("amount", entry.AmountMinor).
			Str("user_id", entry.UserID).
			Str("reason", entry.Reason).
			Msg("reconciliation entry lost")
		return err
	}
	r.metrics.Reconciliations.WithLabelValues("file", "ok").Inc()
	return nil
}
