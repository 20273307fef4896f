// Package yahoo provides the Yahoo Finance chart and quote-search client.
package yahoo

import (
	"os"
	"time"
)

// Config holds configuration for the Yahoo Finance client.
type Config struct {
	BaseURL   string        // Base URL for the query API (e.g., "https://query1.finance.yahoo.com")
	UserAgent string        // User-Agent header; the API rejects clients without a browser-like one
	Timeout   time.Duration // HTTP request timeout
}

// LoadConfig loads Yahoo client configuration from environment variables,
// with production defaults.
func LoadConfig() Config {
	cfg := Config{
		BaseURL:   os.Getenv("YAHOO_BASE_URL"),
		UserAgent: "Mozilla/5.0",
		Timeout:   10 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://query1.finance.yahoo.com"
	}
	return cfg
}
