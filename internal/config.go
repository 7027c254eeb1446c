package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/celosoul/celosoul/internal/chain"
	"github.com/celosoul/celosoul/internal/domain"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// Entitlement persistence: "memory" or "postgres"
	StoreBackend string
	DatabaseUrl  string

	// Chain configuration
	ChainID          int
	ChainProvider    string // "mock" until a real signer backend ships
	TipRecipient     string
	PaymentsContract string
	TipAmount        domain.Amount

	// Gating
	FreeSwipeLimit int

	// Delay between transfer confirmation and the charge that follows
	SuccessDelay time.Duration

	// Rate limiting for payment-initiating endpoints
	PaymentRateLimit  int
	PaymentRateWindow time.Duration

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		StoreBackend: getEnv("STORE_BACKEND", "memory"),

		ChainID:          getEnvInt("CHAIN_ID", chain.ChainIDSepolia),
		ChainProvider:    getEnv("CHAIN_PROVIDER", "mock"),
		TipRecipient:     getEnv("TIP_RECIPIENT", chain.TipRecipientAddress),
		PaymentsContract: getEnv("PAYMENTS_CONTRACT", chain.PaymentsContractSepolia),

		FreeSwipeLimit: getEnvInt("FREE_SWIPE_LIMIT", 8),
		SuccessDelay:   getEnvDuration("SUCCESS_DELAY", 2*time.Second),

		PaymentRateLimit:  getEnvInt("PAYMENT_RATE_LIMIT", 10),
		PaymentRateWindow: getEnvDuration("PAYMENT_RATE_WINDOW", time.Minute),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	tipAmount, err := domain.ParseAmount(getEnv("TIP_AMOUNT", "0.1"))
	if err != nil {
		return nil, fmt.Errorf("TIP_AMOUNT is not a valid token amount: %w", err)
	}
	cfg.TipAmount = tipAmount

	if cfg.ChainID != chain.ChainIDSepolia && cfg.ChainID != chain.ChainIDMainnet {
		return nil, fmt.Errorf("CHAIN_ID must be %d (sepolia) or %d (mainnet), got: %d",
			chain.ChainIDSepolia, chain.ChainIDMainnet, cfg.ChainID)
	}
	if cfg.ChainProvider != "mock" {
		return nil, fmt.Errorf("CHAIN_PROVIDER must be 'mock', got: %s", cfg.ChainProvider)
	}
	if !chain.IsHexAddress(cfg.TipRecipient) {
		return nil, fmt.Errorf("TIP_RECIPIENT is not a well-formed address: %s", cfg.TipRecipient)
	}
	if !chain.IsHexAddress(cfg.PaymentsContract) {
		return nil, fmt.Errorf("PAYMENTS_CONTRACT is not a well-formed address: %s", cfg.PaymentsContract)
	}
	if cfg.FreeSwipeLimit < 0 {
		return nil, fmt.Errorf("FREE_SWIPE_LIMIT must not be negative, got: %d", cfg.FreeSwipeLimit)
	}

	switch cfg.StoreBackend {
	case "postgres":
		cfg.DatabaseUrl = os.Getenv("DATABASE_URL")
		if cfg.DatabaseUrl == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is 'postgres'")
		}
	case "memory":
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be either 'memory' or 'postgres', got: %s", cfg.StoreBackend)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
