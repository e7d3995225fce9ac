package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all engine configuration.
type Config struct {
	Server    ServerConfig
	Engine    EngineConfig
	Resolver  ResolverConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// EngineConfig holds generation pipeline configuration.
type EngineConfig struct {
	MaxConcurrentPlatforms int           `envconfig:"ENGINE_MAX_CONCURRENT_PLATFORMS" default:"8"`
	JobRetention           time.Duration `envconfig:"ENGINE_JOB_RETENTION" default:"1h"`
	TemplatePackDir        string        `envconfig:"ENGINE_TEMPLATE_PACK_DIR" default:"./packs"`
	EventBuffer            int           `envconfig:"ENGINE_EVENT_BUFFER" default:"64"`
}

// ResolverConfig holds the natural-language collaborator configuration.
// The collaborator is optional; when disabled the resolver falls back to
// deterministic keyword lookup.
type ResolverConfig struct {
	CollaboratorURL string        `envconfig:"RESOLVER_COLLABORATOR_URL" default:""`
	Timeout         time.Duration `envconfig:"RESOLVER_TIMEOUT" default:"10s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Engine: EngineConfig{
			MaxConcurrentPlatforms: 8,
			JobRetention:           time.Hour,
			TemplatePackDir:        "./packs",
			EventBuffer:            64,
		},
		Resolver: ResolverConfig{
			Timeout: 10 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
