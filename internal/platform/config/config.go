package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	JWTSecret    string

	// RateLimit uses the limiter formatted-rate syntax, e.g. "100-M".
	RateLimit string

	// Default late-fee policy applied to newly provisioned tenants.
	LateFeeGraceDays   int
	LateFeePercentRate decimal.Decimal
	LateFeeMinimumFee  decimal.Decimal

	// Cron specs for the in-process scheduler (UTC).
	LateFeeCronSpec   string
	ReconcileCronSpec string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("LATE_FEE_GRACE_DAYS", 10)
	viper.SetDefault("LATE_FEE_PERCENT_RATE", "0.05")
	viper.SetDefault("LATE_FEE_MINIMUM_FEE", "25.00")
	viper.SetDefault("LATE_FEE_CRON", "0 2 * * *")
	viper.SetDefault("RECONCILE_CRON", "30 2 * * *")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.LateFeeGraceDays = viper.GetInt("LATE_FEE_GRACE_DAYS")
	if cfg.LateFeeGraceDays < 0 {
		return nil, fmt.Errorf("LATE_FEE_GRACE_DAYS must be non-negative, got %d", cfg.LateFeeGraceDays)
	}

	rate, err := decimal.NewFromString(viper.GetString("LATE_FEE_PERCENT_RATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid LATE_FEE_PERCENT_RATE: %w", err)
	}
	cfg.LateFeePercentRate = rate

	minimum, err := decimal.NewFromString(viper.GetString("LATE_FEE_MINIMUM_FEE"))
	if err != nil {
		return nil, fmt.Errorf("invalid LATE_FEE_MINIMUM_FEE: %w", err)
	}
	cfg.LateFeeMinimumFee = minimum

	cfg.LateFeeCronSpec = viper.GetString("LATE_FEE_CRON")
	cfg.ReconcileCronSpec = viper.GetString("RECONCILE_CRON")

	return cfg, nil
}

// DefaultLateFeePolicy returns the configured policy new tenants start with.
func (c *Config) DefaultLateFeePolicy() domain.LateFeePolicy {
	return domain.LateFeePolicy{
		GraceDays:   c.LateFeeGraceDays,
		PercentRate: c.LateFeePercentRate,
		MinimumFee:  c.LateFeeMinimumFee,
	}
}
