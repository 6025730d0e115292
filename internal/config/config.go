package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"pumpfun-alert-bot/internal/price"
	"pumpfun-alert-bot/internal/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all configuration for the alert bot
type Config struct {
	// Telegram Settings
	TelegramToken string
	AdminID       int64

	// RPC Settings
	RPCEndpoint string

	// Pump.Fun Configuration
	PumpFunProgramID string

	// Enrichment Settings
	RichThresholdSOL float64
	MetadataTimeout  int
	MarketTimeout    int

	// Dedup Settings
	SeenTTLMinutes int

	// Logging
	LogLevel string

	// Price Service
	PriceService *price.Service

	// Runtime flags
	DryRun bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, using environment variables")
	}

	config := &Config{}

	// Required fields
	config.TelegramToken = getEnvRequired("TELEGRAM_BOT_TOKEN")
	config.AdminID = getEnvInt64Required("TELEGRAM_ADMIN_ID")
	config.RPCEndpoint = getEnvRequired("RPC_ENDPOINT")

	// Pump.Fun configuration
	config.PumpFunProgramID = getEnv("PUMP_FUN_PROGRAM_ID", "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")

	// Enrichment settings with defaults
	config.RichThresholdSOL = getEnvFloat("RICH_THRESHOLD_SOL", 5.0)
	config.MetadataTimeout = getEnvInt("METADATA_TIMEOUT_SECONDS", 10)
	config.MarketTimeout = getEnvInt("MARKET_TIMEOUT_SECONDS", 10)

	// Dedup settings: 0 keeps every seen mint for the process lifetime
	config.SeenTTLMinutes = getEnvInt("SEEN_TTL_MINUTES", 0)

	config.LogLevel = getEnv("LOG_LEVEL", "info")

	// Initialize price service
	config.PriceService = price.NewService()

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.AdminID == 0 {
		return fmt.Errorf("TELEGRAM_ADMIN_ID must be set to the authorized user id")
	}

	if c.RichThresholdSOL < 0 {
		return fmt.Errorf("RICH_THRESHOLD_SOL must be non-negative, got: %f", c.RichThresholdSOL)
	}

	if c.MetadataTimeout < 1 {
		return fmt.Errorf("METADATA_TIMEOUT_SECONDS must be at least 1, got: %d", c.MetadataTimeout)
	}

	if c.MarketTimeout < 1 {
		return fmt.Errorf("MARKET_TIMEOUT_SECONDS must be at least 1, got: %d", c.MarketTimeout)
	}

	if c.SeenTTLMinutes < 0 {
		return fmt.Errorf("SEEN_TTL_MINUTES must be non-negative, got: %d", c.SeenTTLMinutes)
	}

	return nil
}

// GetMetadataTimeout returns the metadata fetch timeout duration
func (c *Config) GetMetadataTimeout() time.Duration {
	return time.Duration(c.MetadataTimeout) * time.Second
}

// GetMarketTimeout returns the market data fetch timeout duration
func (c *Config) GetMarketTimeout() time.Duration {
	return time.Duration(c.MarketTimeout) * time.Second
}

// GetSeenTTL returns how long a seen mint is remembered; zero means forever
func (c *Config) GetSeenTTL() time.Duration {
	return time.Duration(c.SeenTTLMinutes) * time.Minute
}

// LogConfig logs the current configuration
func (c *Config) LogConfig() {
	logrus.WithFields(logrus.Fields{
		"rpc_endpoint":   utils.SanitizeURL(c.RPCEndpoint),
		"telegram_token": utils.SanitizeBotToken(c.TelegramToken),
		"program_id":     c.PumpFunProgramID,
		"rich_threshold": fmt.Sprintf("%.1f SOL", c.RichThresholdSOL),
		"dry_run":        c.DryRun,
	}).Info("📋 Configuration loaded")
}

// Helper functions for environment variable handling

func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		logrus.Fatalf("Required environment variable %s is not set", key)
	}
	return value
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		logrus.Warnf("Invalid integer value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvInt64Required(key string) int64 {
	value := getEnvRequired(key)
	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		logrus.Fatalf("Invalid integer value for %s: %s", key, value)
	}
	return intVal
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
		logrus.Warnf("Invalid float value for %s: %s, using default: %f", key, value, defaultValue)
	}
	return defaultValue
}
