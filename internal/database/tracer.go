package database

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type queryStartKey struct{}

type queryStart struct {
	sql   string
	start time.Time
}

// queryTracer opens a span per statement and logs statements slower than
// the threshold.
type queryTracer struct {
	tracer    trace.Tracer
	logger    zerolog.Logger
	threshold time.Duration
	now       func() time.Time
}

var _ pgx.QueryTracer = (*queryTracer)(nil)

func newQueryTracer(logger zerolog.Logger, threshold time.Duration) *queryTracer {
	return &queryTracer{
		tracer:    otel.Tracer("github.com/chandan-mishra846/ecommerce-backend/internal/database"),
		logger:    logger,
		threshold: threshold,
		now:       time.Now,
	}
}

// statementName is the leading keyword of a statement, used as span name.
func statementName(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "db.query"
	}
	return "db." + strings.ToLower(fields[0])
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	ctx, _ = t.tracer.Start(ctx, statementName(data.SQL),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.statement", data.SQL),
		))
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, start: t.now()})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	span := trace.SpanFromContext(ctx)
	defer span.End()

	if data.Err != nil {
		span.RecordError(data.Err)
		span.SetStatus(codes.Error, "query failed")
	} else {
		span.SetAttributes(attribute.Int64("db.rows_affected", data.CommandTag.RowsAffected()))
	}

	qs, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	if elapsed := t.now().Sub(qs.start); elapsed >= t.threshold {
		t.logger.Warn().
			Str("statement", statementName(qs.sql)).
			Dur("elapsed", elapsed).
			Bool("failed", data.Err != nil).
			Msg("slow query")
	}
}
