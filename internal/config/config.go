// Package config provides runtime configuration values for the service.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// EnvPrefix namespaces every variable, e.g. CATALOG_HTTP_ADDR. The bare
// name (HTTP_ADDR) is accepted as a fallback.
const EnvPrefix = "CATALOG"

const (
	EnvHTTPAddr         = EnvPrefix + "_HTTP_ADDR"
	EnvLogLevel         = EnvPrefix + "_LOG_LEVEL"
	EnvLogFormat        = EnvPrefix + "_LOG_FORMAT"
	EnvSourceURL        = EnvPrefix + "_SOURCE_URL"
	EnvPriceMarkup      = EnvPrefix + "_PRICE_MARKUP"
	EnvInitialSelection = EnvPrefix + "_INITIAL_SELECTION"
	EnvShutdownTimeout  = EnvPrefix + "_SHUTDOWN_TIMEOUT"
	EnvBackendLatency   = EnvPrefix + "_BACKEND_LATENCY"
)

// Config holds configuration knobs for the HTTP server and the catalog state.
type Config struct {
	AppEnv    string `envconfig:"APP_ENV" default:"dev"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`

	// SourceURL is the backend API root. Empty serves the embedded backend
	// in-process.
	SourceURL          string          `envconfig:"SOURCE_URL"`
	FetchTimeout       time.Duration   `envconfig:"FETCH_TIMEOUT" default:"10s"`
	InitialSelection   int             `envconfig:"INITIAL_SELECTION" default:"1"`
	PriceMarkup        decimal.Decimal `envconfig:"PRICE_MARKUP" default:"1.5"`
	QueueHighWatermark int             `envconfig:"QUEUE_HIGH_WATERMARK" default:"5000"`
	BackendLatency     time.Duration   `envconfig:"BACKEND_LATENCY" default:"0s"`
}

// Load collects configuration from the environment with defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if !c.PriceMarkup.IsPositive() {
		return fmt.Errorf("%s must be positive, got %s", EnvPriceMarkup, c.PriceMarkup)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("%s must be json or console, got %q", EnvLogFormat, c.LogFormat)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvShutdownTimeout)
	}
	if c.BackendLatency < 0 {
		return fmt.Errorf("%s must not be negative", EnvBackendLatency)
	}
	return nil
}

// EmbeddedBackend reports whether the catalog reads from the in-process
// backend.
func (c *Config) EmbeddedBackend() bool {
	return strings.TrimSpace(c.SourceURL) == ""
}
