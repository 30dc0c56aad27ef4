package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Gemini    GeminiConfig
	Store     StoreConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GeminiConfig holds Gemini API configuration. An empty API key puts the
// service in demo mode: discovery returns no deals and analysis falls back
// to the deterministic default.
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// StoreConfig holds price-history store configuration
type StoreConfig struct {
	Type      string `mapstructure:"type"` // "memory" or "redis"
	RedisURL  string `mapstructure:"redis_url"`
	Namespace string `mapstructure:"namespace"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/smartcompare/")

	v.SetEnvPrefix("SMARTCOMPARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything.
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
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})

	// Gemini defaults. The api_key default is empty on purpose: without a key
	// the service runs in demo mode.
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.model", "gemini-3-flash-preview")

	// Store defaults
	v.SetDefault("store.type", "memory")
	v.SetDefault("store.redis_url", "")
	v.SetDefault("store.namespace", "smartcompare:price_history:v1")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Store.Type != "memory" && config.Store.Type != "redis" {
		return fmt.Errorf("store type must be 'memory' or 'redis', got: %s", config.Store.Type)
	}

	if config.Store.Type == "redis" && config.Store.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when store type is 'redis'")
	}

	if config.Gemini.Model == "" {
		return fmt.Errorf("Gemini model name must not be empty")
	}

	return nil
}
