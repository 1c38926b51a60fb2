package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/chandan-mishra846/ecommerce-backend/internal/metrics"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// RequestIDHeader is echoed on every response.
const RequestIDHeader = "X-Request-ID"

const unmatchedRoute = "unmatched"

type routeKey struct{}

// routeLabel is filled in by Route once the mux has picked a handler.
type routeLabel struct {
	pattern string
}

// Route records the route pattern used as the metrics label.
func Route(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l, ok := r.Context().Value(routeKey{}).(*routeLabel); ok {
			l.pattern = pattern
		}
		next.ServeHTTP(w, r)
	})
}

// Observability extracts W3C trace context, assigns a request id and
// records request counts and latency per route.
func Observability(m *metrics.Metrics) func(http.Handler) http.Handler {
	if m == nil {
		m = metrics.NewNop()
	}
	prop := otel.GetTextMapPropagator()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := prop.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			rid := r.Header.Get(RequestIDHeader)
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, rid)

			label := &routeLabel{pattern: unmatchedRoute}
			ctx = context.WithValue(ctx, routeKey{}, label)

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			status := strconv.Itoa(rec.status)
			m.HTTPRequests.WithLabelValues(r.Method, label.pattern, status).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, label.pattern, status).Observe(time.Since(start).Seconds())
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
