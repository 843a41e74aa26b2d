// Package config defines service configuration and its defaults.
package config

import (
	"context"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`

	// CORSAllowedOrigins lists origins allowed by the CORS middleware.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// RateLimitPerMinute caps requests per client IP; 0 disables limiting.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`

	// TrustProxyHeaders takes the client IP from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that sets them; the rate limit keys on it.
	TrustProxyHeaders bool `koanf:"trust_proxy_headers"`

	// MetricsNamespace prefixes every exported metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// MetricsDurationBucketsMS are the request duration histogram buckets.
	MetricsDurationBucketsMS []float64 `koanf:"metrics_duration_buckets_ms"`

	// SelfTest runs the smoke test once against this process after startup.
	SelfTest bool `koanf:"self_test"`

	// SelfTestDelayMS is the wait between server start and the smoke test.
	SelfTestDelayMS int `koanf:"self_test_delay_ms"`

	// SelfTestResource selects the collection the smoke test exercises.
	SelfTestResource string `koanf:"self_test_resource"`
}

// New returns a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:                 "info",
		Addr:                     ":3000",
		CORSAllowedOrigins:       []string{"*"},
		RateLimitPerMinute:       0,
		TrustProxyHeaders:        false,
		MetricsNamespace:         "catalog",
		MetricsDurationBucketsMS: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		SelfTest:                 false,
		SelfTestDelayMS:          1000,
		SelfTestResource:         "teams",
	}
}
