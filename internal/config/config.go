// Package config provides configuration loading from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// QuoteMode selects the quote provider backing the stock list.
type QuoteMode string

const (
	QuoteModeStatic       QuoteMode = "static"
	QuoteModeSimulated    QuoteMode = "simulated"
	QuoteModeAlphaVantage QuoteMode = "alphavantage"
)

// Config holds application configuration.
type Config struct {
	DataDir           string        // directory for the key-value store
	Port              int           // HTTP listen port
	LogLevel          string        // debug, info, warn, error
	QuoteMode         QuoteMode     // static | simulated | alphavantage
	QuoteTickInterval time.Duration // simulator tick period
	AlphaVantageKey   string        // API key for live quotes
	BankMirror        bool          // mirror trades to the bank gateway
	SeedDemoUser      bool          // create the demo account at startup
}

// Load reads configuration from environment variables, honoring a .env
// file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:           getEnv("STOCKVERSE_DATA_DIR", "./data"),
		Port:              8080,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		QuoteMode:         QuoteMode(getEnv("QUOTE_MODE", string(QuoteModeSimulated))),
		QuoteTickInterval: 10 * time.Second,
		AlphaVantageKey:   os.Getenv("ALPHA_VANTAGE_API_KEY"),
		BankMirror:        getEnv("BANK_MIRROR", "false") == "true",
		SeedDemoUser:      getEnv("SEED_DEMO_USER", "true") == "true",
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	if v := os.Getenv("QUOTE_TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid QUOTE_TICK_INTERVAL %q: %w", v, err)
		}
		// The simulator is meant to feel like a live feed without being
		// busywork: one tick every 10-30 seconds.
		if d < time.Second {
			return nil, fmt.Errorf("QUOTE_TICK_INTERVAL must be at least 1s, got %s", d)
		}
		cfg.QuoteTickInterval = d
	}

	switch cfg.QuoteMode {
	case QuoteModeStatic, QuoteModeSimulated, QuoteModeAlphaVantage:
	default:
		return nil, fmt.Errorf("invalid QUOTE_MODE %q", cfg.QuoteMode)
	}

	if cfg.QuoteMode == QuoteModeAlphaVantage && cfg.AlphaVantageKey == "" {
		return nil, fmt.Errorf("QUOTE_MODE=alphavantage requires ALPHA_VANTAGE_API_KEY")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
