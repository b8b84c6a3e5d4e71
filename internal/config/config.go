// Package config provides configuration loading for embedsim.
//
// Configuration is loaded from a YAML file, then overridden by environment
// variables, with hardcoded defaults filling the gaps.
package config

import (
	"fmt"
)

// Config holds the complete embedsim configuration.
type Config struct {
	Embedder   EmbedderConfig   `koanf:"embedder"`
	Similarity SimilarityConfig `koanf:"similarity"`
	Logging    LoggingConfig    `koanf:"logging"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
}

// EmbedderConfig selects and configures the embedding provider.
type EmbedderConfig struct {
	// Provider is the provider type: "fastembed" (default), "tei",
	// "ollama" or "openai".
	Provider string `koanf:"provider"`
	// Model is the embedding model name.
	Model string `koanf:"model"`
	// BaseURL is the service URL for HTTP providers.
	BaseURL string `koanf:"base_url"`
	// APIKey authenticates against commercial APIs.
	APIKey string `koanf:"api_key"`
	// CacheDir is the model cache directory for local providers.
	CacheDir string `koanf:"cache_dir"`
}

// SimilarityConfig selects the similarity convention.
type SimilarityConfig struct {
	// Metric is "cosine" (normalize inputs first) or "dot" (raw Gram matrix).
	Metric string `koanf:"metric"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry configuration.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
	Insecure    bool   `koanf:"insecure"`
}

// knownProviders are the accepted embedder.provider values.
// Empty means the factory default (fastembed).
var knownProviders = map[string]bool{
	"":          true,
	"fastembed": true,
	"tei":       true,
	"ollama":    true,
	"openai":    true,
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !knownProviders[c.Embedder.Provider] {
		return fmt.Errorf("unknown embedder provider %q (supported: fastembed, tei, ollama, openai)", c.Embedder.Provider)
	}

	if c.Similarity.Metric != "cosine" && c.Similarity.Metric != "dot" {
		return fmt.Errorf("similarity metric must be 'cosine' or 'dot', got %q", c.Similarity.Metric)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got %q", c.Logging.Format)
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			return fmt.Errorf("telemetry endpoint required when telemetry is enabled")
		}
		if c.Telemetry.ServiceName == "" {
			return fmt.Errorf("telemetry service name required when telemetry is enabled")
		}
	}

	return nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = "BAAI/bge-small-en-v1.5"
	}
	if cfg.Embedder.Provider == "tei" && cfg.Embedder.BaseURL == "" {
		cfg.Embedder.BaseURL = "http://localhost:8080"
	}

	if cfg.Similarity.Metric == "" {
		cfg.Similarity.Metric = "cosine"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = "localhost:4317"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "embedsim"
	}
}
