package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names and prefixes.
const (
	EnvPrefix     = "CATALOG_"
	EnvConfigFile = "CATALOG_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if CATALOG_CONFIG is set
//  3. env (prefix CATALOG_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrLoadConfig, path, err)
		}
	}

	// CATALOG_RATE_LIMIT_PER_MINUTE -> rate_limit_per_minute (flat keys).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Lists are decoded onto nil so a shorter configured list replaces the
	// default instead of overwriting its prefix.
	cfg := *base
	cfg.CORSAllowedOrigins = nil
	cfg.MetricsDurationBucketsMS = nil
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if cfg.CORSAllowedOrigins == nil {
		cfg.CORSAllowedOrigins = base.CORSAllowedOrigins
	}
	if cfg.MetricsDurationBucketsMS == nil {
		cfg.MetricsDurationBucketsMS = base.MetricsDurationBucketsMS
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RateLimitPerMinute < 0:
		return fmt.Errorf("%w: rate_limit_per_minute must not be negative", ErrInvalidConfig)
	case strings.TrimSpace(c.MetricsNamespace) == "":
		return fmt.Errorf("%w: metrics_namespace must not be empty", ErrInvalidConfig)
	case !increasing(c.MetricsDurationBucketsMS):
		return fmt.Errorf("%w: metrics_duration_buckets_ms must be non-empty and strictly increasing", ErrInvalidConfig)
	case c.SelfTestDelayMS < 0:
		return fmt.Errorf("%w: self_test_delay_ms must not be negative", ErrInvalidConfig)
	case c.SelfTest && strings.TrimSpace(c.SelfTestResource) == "":
		return fmt.Errorf("%w: self_test_resource must not be empty", ErrInvalidConfig)
	}
	return nil
}

func increasing(buckets []float64) bool {
	if len(buckets) == 0 {
		return false
	}
	for i := 1; i < len(buckets); i++ {
		if buckets[i] <= buckets[i-1] {
			return false
		}
	}
	return true
}
