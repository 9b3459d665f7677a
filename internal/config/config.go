package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvironmentProduction  = "production"
	EnvironmentDevelopment = "development"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string
	Environment string
	LogLevel    string

	PaystackSecretKey string
	PaystackBaseURL   string
	PaystackMock      bool
	Currency          string
	GatewayTimeout    time.Duration
	FrontendURL       string
	AllowedOrigins    []string

	OrderReuseWindow time.Duration
	StaleOrderAge    time.Duration
	SweepInterval    time.Duration

	NotifyWorkers   int
	NotifyQueueSize int
	AdminEmail      string
	SMTPHost        string
	SMTPPort        int
	SMTPUsername    string
	SMTPPassword    string
	SMTPFrom        string

	JWTSecret       string
	RateLimitRPS    float64
	RateLimitBurst  int
	ShutdownTimeout time.Duration
}

const (
	defaultRunAddress       = ":8000"
	defaultPaystackBaseURL  = "https://api.paystack.co"
	defaultCurrency         = "GHS"
	defaultGatewayTimeout   = 15 * time.Second
	defaultFrontendURL      = "http://localhost:3000"
	defaultOrderReuseWindow = time.Hour
	defaultStaleOrderAge    = 24 * time.Hour
	defaultSweepInterval    = time.Hour
	defaultNotifyWorkers    = 4
	minNotifyWorkers        = 2
	defaultNotifyQueueSize  = 64
	defaultSMTPPort         = 587
	defaultJWTSecret        = "change-me-in-production"
	defaultRateLimitRPS     = 5
	defaultRateLimitBurst   = 10
	defaultShutdownTimeout  = 10 * time.Second
	defaultLogLevel         = "info"
)

// Load reads an optional .env file, then parses environment variables and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

// FromEnv is Load without command line flags, for tools that own their arguments.
func FromEnv() (*Config, error) {
	_ = godotenv.Load()
	return load(nil, os.LookupEnv)
}

// MockPayments reports whether the gateway is bypassed.
func (c *Config) MockPayments() bool {
	return c.PaystackMock && c.Environment != EnvironmentProduction
}

// CallbackURL is where the gateway sends the customer after payment.
func (c *Config) CallbackURL() string {
	return strings.TrimRight(c.FrontendURL, "/") + "/shop/success"
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		Environment:       strings.ToLower(getString(lookup, "ENVIRONMENT", EnvironmentProduction)),
		LogLevel:          getString(lookup, "LOG_LEVEL", defaultLogLevel),
		PaystackSecretKey: getString(lookup, "PAYSTACK_SECRET_KEY", ""),
		PaystackBaseURL:   getString(lookup, "PAYSTACK_BASE_URL", defaultPaystackBaseURL),
		PaystackMock:      getBool(lookup, "PAYSTACK_MOCK", false),
		Currency:          getString(lookup, "PAYSTACK_CURRENCY", defaultCurrency),
		GatewayTimeout:    getDuration(lookup, "GATEWAY_TIMEOUT", defaultGatewayTimeout),
		FrontendURL:       getString(lookup, "FRONTEND_URL", defaultFrontendURL),
		AllowedOrigins:    getList(lookup, "CORS_ALLOWED_ORIGINS"),
		OrderReuseWindow:  getDuration(lookup, "ORDER_REUSE_WINDOW", defaultOrderReuseWindow),
		StaleOrderAge:     getDuration(lookup, "STALE_ORDER_AGE", defaultStaleOrderAge),
		SweepInterval:     getDuration(lookup, "SWEEP_INTERVAL", defaultSweepInterval),
		NotifyWorkers:     getInt(lookup, "NOTIFY_WORKERS", defaultNotifyWorkers),
		NotifyQueueSize:   getInt(lookup, "NOTIFY_QUEUE_SIZE", defaultNotifyQueueSize),
		AdminEmail:        getString(lookup, "ADMIN_EMAIL", ""),
		SMTPHost:          getString(lookup, "SMTP_HOST", ""),
		SMTPPort:          getInt(lookup, "SMTP_PORT", defaultSMTPPort),
		SMTPUsername:      getString(lookup, "SMTP_USERNAME", ""),
		SMTPPassword:      getString(lookup, "SMTP_PASSWORD", ""),
		SMTPFrom:          getString(lookup, "SMTP_FROM", ""),
		JWTSecret:         getString(lookup, "JWT_SECRET", defaultJWTSecret),
		RateLimitRPS:      getFloat(lookup, "RATE_LIMIT_RPS", defaultRateLimitRPS),
		RateLimitBurst:    getInt(lookup, "RATE_LIMIT_BURST", defaultRateLimitBurst),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("acesshop", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		sweepIntervalStr   = cfg.SweepInterval.String()
		staleAgeStr        = cfg.StaleOrderAge.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.Environment, "env", cfg.Environment, "Deployment environment (production or development)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing staff tokens")
	fs.IntVar(&cfg.NotifyWorkers, "notify-workers", cfg.NotifyWorkers, "Number of concurrent notification workers")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between stale order sweeps")
	fs.StringVar(&staleAgeStr, "stale-age", staleAgeStr, "Age after which pending orders are failed")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.StaleOrderAge, err = time.ParseDuration(staleAgeStr); err != nil {
		return nil, fmt.Errorf("invalid stale order age: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if cfg.NotifyWorkers < minNotifyWorkers {
		cfg.NotifyWorkers = minNotifyWorkers
	}

	if cfg.NotifyQueueSize <= 0 {
		cfg.NotifyQueueSize = defaultNotifyQueueSize
	}

	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = defaultGatewayTimeout
	}

	if cfg.OrderReuseWindow <= 0 {
		cfg.OrderReuseWindow = defaultOrderReuseWindow
	}

	if cfg.StaleOrderAge <= 0 {
		cfg.StaleOrderAge = defaultStaleOrderAge
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = defaultRateLimitRPS
	}

	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = defaultRateLimitBurst
	}

	if cfg.SMTPPort <= 0 {
		cfg.SMTPPort = defaultSMTPPort
	}

	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{cfg.FrontendURL}
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.Environment != EnvironmentProduction && cfg.Environment != EnvironmentDevelopment {
		return nil, fmt.Errorf("unknown environment %q", cfg.Environment)
	}

	if cfg.PaystackMock && cfg.Environment == EnvironmentProduction {
		return nil, fmt.Errorf("mock payments are not allowed in production")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getList(lookup envLookup, key string) []string {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
