package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chandan-mishra846/ecommerce-backend/internal/config"
	"github.com/chandan-mishra846/ecommerce-backend/internal/database"
	"github.com/chandan-mishra846/ecommerce-backend/internal/handler"
	"github.com/chandan-mishra846/ecommerce-backend/internal/metrics"
	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
	"github.com/chandan-mishra846/ecommerce-backend/internal/payment"
	"github.com/chandan-mishra846/ecommerce-backend/internal/reconcile"
	"github.com/chandan-mishra846/ecommerce-backend/internal/repository"
	"github.com/chandan-mishra846/ecommerce-backend/internal/router"
	"github.com/chandan-mishra846/ecommerce-backend/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().
		Str("environment", cfg.App.Environment).
		Str("payment_mode", cfg.Payment.Mode).
		Msg("starting ecommerce API server")

	// Money is rendered as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Reconciliation log with S3 and local fallback
	recorder := newRecorder(ctx, cfg, m, logger)

	// Payment gateways
	gateways := newGateways(cfg, logger)
	verifier := payment.NewVerifier(gateways, m, logger)
	webhooks := payment.NewWebhooks(cfg.Payment)

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	inventoryService := service.NewInventoryService(productRepo, m, logger)
	cartService := service.NewCartService(cartRepo, productRepo, m, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, inventoryService, recorder, service.OrderOptions{
		StockPolicy: service.StockPolicy(cfg.Order.StockPolicy),
		ClearCart:   cfg.Order.ClearCart,
	}, m, logger)
	lifecycleService := service.NewLifecycleService(orderRepo, inventoryService, m, logger)
	paymentService := service.NewPaymentService(verifier, webhooks, orderService, orderRepo, m, logger)

	// Initialize router
	mux := router.New(router.Handlers{
		Product: handler.NewProductHandler(productService, inventoryService, logger),
		Cart:    handler.NewCartHandler(cartService, logger),
		Order:   handler.NewOrderHandler(orderService, lifecycleService, logger),
		Payment: handler.NewPaymentHandler(paymentService, logger),
	}, m, registry, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second + cfg.Payment.HTTPTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// In-flight checkouts get the full window to commit
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newGateways builds the configured gateway set. Demo mode replaces every
// family with a gateway that confirms payments locally.
func newGateways(cfg *config.Config, logger zerolog.Logger) []payment.Gateway {
	if cfg.Payment.Mode == config.PaymentModeDemo {
		logger.Warn().Msg("demo payment mode enabled, payments are not verified with any gateway")
		return []payment.Gateway{
			payment.NewDemoGateway(model.GatewayRazorpay, cfg.Payment.Razorpay.Currency),
			payment.NewDemoGateway(model.GatewayStripe, cfg.Payment.Stripe.Currency),
		}
	}

	httpClient := &http.Client{Timeout: cfg.Payment.HTTPTimeout()}
	var gateways []payment.Gateway
	if cfg.Payment.Razorpay.Enabled() {
		gateways = append(gateways, payment.NewRazorpayGateway(cfg.Payment.Razorpay, httpClient))
	}
	if cfg.Payment.Stripe.Enabled() {
		gateways = append(gateways, payment.NewStripeGateway(cfg.Payment.Stripe, httpClient))
	}
	return gateways
}

func newRecorder(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) reconcile.Recorder {
	fileRecorder := reconcile.NewFileRecorder(cfg.Reconciliation.Dir, logger)
	if !cfg.S3.Enabled {
		logger.Info().
			Str("dir", cfg.Reconciliation.Dir).
			Msg("using local file system for reconciliation entries (S3 disabled)")
		return reconcile.NewFallbackRecorder(nil, fileRecorder, false, m, logger)
	}

	s3Recorder, err := reconcile.NewS3Recorder(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 recorder, falling back to local file system only")
		return reconcile.NewFallbackRecorder(nil, fileRecorder, false, m, logger)
	}
	return reconcile.NewFallbackRecorder(s3Recorder, fileRecorder, true, m, logger)
}
