package config

import (
	"os"
	"strconv"
)

// Config contains configuration for the producer-pal server
type Config struct {
	HTTPPort      int    // port for the tool-call HTTP server
	LiveBridgeURL string // URL of the host bridge; empty selects the mock host
	SentryDSN     string // Sentry DSN (optional)
}

// Load reads configuration from the environment, with defaults for anything
// unset.
func Load() Config {
	cfg := Config{
		HTTPPort:      3350,
		LiveBridgeURL: os.Getenv("PRODUCER_PAL_BRIDGE_URL"),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
	}
	if v := os.Getenv("PRODUCER_PAL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.HTTPPort = port
		}
	}
	return cfg
}
