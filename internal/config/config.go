// Package config loads server configuration from the environment, with
// optional .env overrides for deployments.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds the runtime configuration for the Magellan server.
type Config struct {
	ListenHost  string
	ListenPort  int
	MetricsPort int

	// AllowedOrigins controls the CORS header on API responses. Empty means
	// same-origin only; "*" allows everything.
	AllowedOrigins string
	// IframeEmbedding becomes the X-Frame-Options header value.
	IframeEmbedding string

	// RedirectURL is sent to Chargebee as the post-checkout destination.
	RedirectURL string
	// UpstreamTimeout bounds each Chargebee call.
	UpstreamTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment. A .env file in the current
// directory is applied first when present, matching how deployments override
// settings without touching the unit file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Info().Msg("Loaded configuration from .env in current directory")
	}

	cfg := &Config{
		ListenHost:      "0.0.0.0",
		ListenPort:      7810,
		MetricsPort:     9810,
		AllowedOrigins:  "",
		IframeEmbedding: "SAMEORIGIN",
		RedirectURL:     "https://example.com/upgrade-success",
		UpstreamTimeout: 30 * time.Second,
		LogLevel:        "info",
		LogFormat:       "auto",
	}

	if v := os.Getenv("MAGELLAN_LISTEN_HOST"); v != "" {
		cfg.ListenHost = v
	}
	if v := os.Getenv("MAGELLAN_LISTEN_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MAGELLAN_LISTEN_PORT %q: %w", v, err)
		}
		cfg.ListenPort = port
	}
	if v := os.Getenv("MAGELLAN_METRICS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MAGELLAN_METRICS_PORT %q: %w", v, err)
		}
		cfg.MetricsPort = port
	}
	if v := os.Getenv("MAGELLAN_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = v
	}
	if v := os.Getenv("MAGELLAN_IFRAME_EMBEDDING"); v != "" {
		cfg.IframeEmbedding = v
	}
	if v := os.Getenv("MAGELLAN_REDIRECT_URL"); v != "" {
		cfg.RedirectURL = v
	}
	if v := os.Getenv("MAGELLAN_UPSTREAM_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MAGELLAN_UPSTREAM_TIMEOUT %q: %w", v, err)
		}
		cfg.UpstreamTimeout = timeout
	}
	if v := os.Getenv("MAGELLAN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MAGELLAN_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.ListenPort < 1 || c.ListenPort > 65535 {
		return fmt.Errorf("listen port %d out of range", c.ListenPort)
	}
	if c.MetricsPort < 1 || c.MetricsPort > 65535 {
		return fmt.Errorf("metrics port %d out of range", c.MetricsPort)
	}
	if c.MetricsPort == c.ListenPort {
		return fmt.Errorf("metrics port and listen port must differ (both %d)", c.ListenPort)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive, got %s", c.UpstreamTimeout)
	}
	if c.RedirectURL == "" {
		return fmt.Errorf("redirect URL must not be empty")
	}
	parsed, err := url.Parse(c.RedirectURL)
	if err != nil || !strings.HasPrefix(parsed.Scheme, "http") || parsed.Host == "" {
		return fmt.Errorf("redirect URL %q is not an absolute http(s) URL", c.RedirectURL)
	}
	return nil
}

// ListenAddr returns the host:port pair the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.ListenHost, c.ListenPort)
}

// MetricsAddr returns the host:port pair the metrics endpoint binds to.
func (c *Config) MetricsAddr() string {
	return fmt.Sprintf("%s:%d", c.ListenHost, c.MetricsPort)
}
