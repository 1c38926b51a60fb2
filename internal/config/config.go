package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Payment modes.
const (
	PaymentModeLive = "live"
	PaymentModeDemo = "demo"
)

// Config holds all application configuration.
type Config struct {
	App            AppConfig
	Server         ServerConfig
	Database       DatabaseConfig
	Logger         LoggerConfig
	Auth           AuthConfig
	Payment        PaymentConfig
	Order          OrderConfig
	Reconciliation ReconciliationConfig
	S3             S3Config
}

// AppConfig holds process-wide settings.
type AppConfig struct {
	Environment string // "development", "test" or "production"
}

// IsProduction reports whether the process runs with a production profile.
func (c AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string
}

// PaymentConfig holds gateway credentials and the verification mode.
type PaymentConfig struct {
	Mode     string // "live" or "demo"
	Timeout  int    // seconds, applied to outbound gateway calls
	Razorpay RazorpayConfig
	Stripe   StripeConfig
}

// HTTPTimeout returns the outbound gateway timeout as a duration.
func (c PaymentConfig) HTTPTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// RazorpayConfig holds Razorpay credentials.
type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	BaseURL       string
	Currency      string
}

// Enabled reports whether Razorpay credentials are present.
func (c RazorpayConfig) Enabled() bool {
	return c.KeyID != "" && c.KeySecret != ""
}

// StripeConfig holds Stripe credentials.
type StripeConfig struct {
	SecretKey        string
	PublishableKey   string
	WebhookSecret    string
	BaseURL          string
	Currency         string
	WebhookTolerance int // seconds
}

// Enabled reports whether Stripe credentials are present.
func (c StripeConfig) Enabled() bool {
	return c.SecretKey != ""
}

// OrderConfig holds order materialization policy.
type OrderConfig struct {
	StockPolicy string // "abort" or "skip"
	ClearCart   bool
}

// ReconciliationConfig holds the local destination for lost-payment entries.
type ReconciliationConfig struct {
	Dir string
}

// S3Config holds AWS S3 configuration for archiving reconciliation entries.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "reconciliation/")
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "ecommerce"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		Payment: PaymentConfig{
			Mode:    getEnv("PAYMENT_MODE", PaymentModeLive),
			Timeout: getEnvAsInt("PAYMENT_HTTP_TIMEOUT", 10),
			Razorpay: RazorpayConfig{
				KeyID:         getEnv("RAZORPAY_KEY_ID", ""),
				KeySecret:     getEnv("RAZORPAY_KEY_SECRET", ""),
				WebhookSecret: getEnv("RAZORPAY_WEBHOOK_SECRET", ""),
				BaseURL:       getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
				Currency:      getEnv("RAZORPAY_CURRENCY", "INR"),
			},
			Stripe: StripeConfig{
				SecretKey:        getEnv("STRIPE_SECRET_KEY", ""),
				PublishableKey:   getEnv("STRIPE_PUBLISHABLE_KEY", ""),
				WebhookSecret:    getEnv("STRIPE_WEBHOOK_SECRET", ""),
				BaseURL:          getEnv("STRIPE_BASE_URL", "https://api.stripe.com"),
				Currency:         getEnv("STRIPE_CURRENCY", "usd"),
				WebhookTolerance: getEnvAsInt("STRIPE_WEBHOOK_TOLERANCE", 300),
			},
		},
		Order: OrderConfig{
			StockPolicy: getEnv("ORDER_STOCK_POLICY", "abort"),
			ClearCart:   getEnvAsBool("ORDER_CLEAR_CART", true),
		},
		Reconciliation: ReconciliationConfig{
			Dir: getEnv("RECONCILIATION_DIR", "./data/reconciliation"),
		},
		S3: S3Config{
			Enabled: getEnvAsBool("S3_ENABLED", false),
			Bucket:  getEnv("S3_BUCKET", ""),
			Region:  getEnv("S3_REGION", "us-east-1"),
			Prefix:  getEnv("S3_PREFIX", "reconciliation/"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "test", "production":
	default:
		return fmt.Errorf("invalid environment: %s (must be development, test, or production)", c.App.Environment)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	switch c.Payment.Mode {
	case PaymentModeDemo:
		if c.App.IsProduction() {
			return fmt.Errorf("demo payment mode is not allowed in production")
		}
	case PaymentModeLive:
		if !c.Payment.Razorpay.Enabled() && !c.Payment.Stripe.Enabled() {
			return fmt.Errorf("at least one payment gateway must be configured in live mode")
		}
	default:
		return fmt.Errorf("invalid payment mode: %s (must be live or demo)", c.Payment.Mode)
	}

	if c.Payment.Timeout < 1 {
		return fmt.Errorf("payment HTTP timeout must be at least 1 second")
	}

	if c.Order.StockPolicy != "abort" && c.Order.StockPolicy != "skip" {
		return fmt.Errorf("invalid order stock policy: %s (must be abort or skip)", c.Order.StockPolicy)
	}

	if c.Reconciliation.Dir == "" {
		return fmt.Errorf("reconciliation directory is required")
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
