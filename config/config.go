package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Embedding EmbeddingConfig
	Matching  MatchingConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmbeddingConfig holds embedding model provider configuration
type EmbeddingConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Model             string        `mapstructure:"model"`
	MaxTokens         int           `mapstructure:"max_tokens"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// MatchingConfig holds matching pipeline configuration
type MatchingConfig struct {
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// RateLimitConfig holds per-client API rate limiting configuration
type RateLimitConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	PerIPRPS   float64 `mapstructure:"per_ip_rps"`
	PerIPBurst int     `mapstructure:"per_ip_burst"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/cvmatch/")

	v.SetEnvPrefix("CVMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Embedding defaults
	v.SetDefault("embedding.base_url", "http://localhost:8081")
	v.SetDefault("embedding.model", "distilbert-base-uncased")
	v.SetDefault("embedding.max_tokens", 512)
	v.SetDefault("embedding.timeout", "30s")
	v.SetDefault("embedding.requests_per_second", 16.0)
	v.SetDefault("embedding.burst", 32)

	// Matching defaults
	v.SetDefault("matching.enable_debug_logging", false)

	// Rate limit defaults
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.per_ip_rps", 10.0)
	v.SetDefault("ratelimit.per_ip_burst", 20)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Embedding.BaseURL == "" {
		return fmt.Errorf("embedding base URL is required (set CVMATCH_EMBEDDING_BASE_URL)")
	}

	if config.Embedding.Model == "" {
		return fmt.Errorf("embedding model identifier is required (set CVMATCH_EMBEDDING_MODEL)")
	}

	if config.Embedding.MaxTokens <= 0 {
		return fmt.Errorf("embedding max tokens must be positive, got: %d", config.Embedding.MaxTokens)
	}

	if config.RateLimit.Enabled && config.RateLimit.PerIPRPS <= 0 {
		return fmt.Errorf("rate limit per-ip rps must be positive, got: %v", config.RateLimit.PerIPRPS)
	}

	return nil
}
