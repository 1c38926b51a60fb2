package router

import (
	"net/http"

	"github.com/chandan-mishra846/ecommerce-backend/internal/handler"
	"github.com/chandan-mishra846/ecommerce-backend/internal/metrics"
	"github.com/chandan-mishra846/ecommerce-backend/internal/middleware"
	"github.com/chandan-mishra846/ecommerce-backend/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Product *handler.ProductHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
	Payment *handler.PaymentHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	h Handlers,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	handle := func(pattern string, hf http.Handler) {
		mux.Handle(pattern, middleware.Route(pattern, hf))
	}
	user := func(hf http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(hf)
	}
	admin := middleware.RequireRole(logger, model.RoleAdmin)
	stockManager := middleware.RequireRole(logger, model.RoleAdmin, model.RoleSeller)

	// Health check and metrics (no authentication required)
	handle("GET /health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,"status":"healthy"}`))
	}))
	handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Catalogue
	handle("GET /api/products", http.HandlerFunc(h.Product.GetAll))
	handle("GET /api/products/{id}", http.HandlerFunc(h.Product.GetByID))
	handle("PUT /api/admin/products/{id}/stock", stockManager(http.HandlerFunc(h.Product.SetStock)))
	handle("POST /api/admin/products/{id}/restock", stockManager(http.HandlerFunc(h.Product.Restock)))

	// Cart
	handle("GET /api/cart", user(h.Cart.Get))
	handle("POST /api/cart/add", user(h.Cart.Add))
	handle("PUT /api/cart/update/{itemId}", user(h.Cart.Update))
	handle("DELETE /api/cart/remove/{itemId}", user(h.Cart.Remove))
	handle("DELETE /api/cart/clear", user(h.Cart.Clear))

	// Payments
	handle("POST /api/payment/razorpay/order", user(h.Payment.CreateRazorpayOrder))
	handle("POST /api/payment/razorpay/verify", user(h.Payment.VerifyRazorpay))
	handle("GET /api/payment/razorpay/key", http.HandlerFunc(h.Payment.RazorpayKey))
	handle("POST /api/payment/razorpay/webhook", http.HandlerFunc(h.Payment.RazorpayWebhook))
	handle("POST /api/payment/stripe/create-payment-intent", user(h.Payment.CreateStripeIntent))
	handle("POST /api/payment/stripe/verify", user(h.Payment.VerifyStripe))
	handle("GET /api/payment/stripe/key", http.HandlerFunc(h.Payment.StripeKey))
	handle("POST /api/payment/stripe/webhook", http.HandlerFunc(h.Payment.StripeWebhook))

	// Orders
	handle("GET /api/orders/me", user(h.Order.Mine))
	handle("GET /api/orders/{id}", user(h.Order.GetByID))
	handle("GET /api/admin/orders", admin(http.HandlerFunc(h.Order.ListAll)))
	handle("PUT /api/admin/orders/{id}", admin(http.HandlerFunc(h.Order.UpdateStatus)))
	handle("DELETE /api/admin/orders/{id}", admin(http.HandlerFunc(h.Order.Delete)))

	// Apply middleware in order: Recovery -> Observability -> Logging -> CORS -> APIKeyAuth -> Principal
	var handler http.Handler = mux
	handler = middleware.Principal(handler)
	handler = middleware.APIKeyAuth(apiKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Observability(m)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
