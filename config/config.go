package config

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v2"
)

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = ":8080"

	// StoreBackendMemory keeps documents in process memory.
	StoreBackendMemory = "memory"
	// StoreBackendRedis keeps documents in Redis.
	StoreBackendRedis = "redis"
)

// Config represents the top-level configuration structure for the refile service.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Refile RefileConfig `yaml:"refile"`
}

// New returns a new Config with sensible defaults.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: DefaultAddr,
		},
		Store: StoreConfig{
			Backend: StoreBackendMemory,
		},
		Refile: RefileConfig{
			Reindent: true,
		},
	}
}

// ServerConfig defines HTTP listener and rate limiting settings.
type ServerConfig struct {
	Addr              string        `yaml:"addr,omitempty"`
	RateLimitRequests int           `yaml:"rate_limit_requests,omitempty"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window,omitempty"`
}

// GetAddr returns the listen address with a default of :8080
func (s *ServerConfig) GetAddr() string {
	if s.Addr != "" {
		return s.Addr
	}
	return DefaultAddr
}

// IsRateLimitEnabled returns true if request rate limiting is configured
func (s *ServerConfig) IsRateLimitEnabled() bool {
	return s.RateLimitRequests > 0
}

// GetRateLimitWindow returns the rate limit window with a default of 1 minute
func (s *ServerConfig) GetRateLimitWindow() time.Duration {
	if s.RateLimitWindow > 0 {
		return s.RateLimitWindow
	}
	return time.Minute
}

// StoreConfig defines where documents live.
type StoreConfig struct {
	Backend  string `yaml:"backend,omitempty"`
	RedisURL string `yaml:"redis_url,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// GetBackend returns the store backend with a default of memory
func (s *StoreConfig) GetBackend() string {
	if s.Backend != "" {
		return s.Backend
	}
	return StoreBackendMemory
}

// RefileConfig defines refile engine behavior.
type RefileConfig struct {
	StrictTargets bool `yaml:"strict_targets,omitempty"`
	Reindent      bool `yaml:"reindent"`
	IndentUnit    int  `yaml:"indent_unit,omitempty"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors and conflicts
func (c *Config) Validate() error {
	if c.Server.RateLimitRequests < 0 {
		return fmt.Errorf("server: 'rate_limit_requests' must be >= 0")
	}
	if c.Server.RateLimitWindow < 0 {
		return fmt.Errorf("server: 'rate_limit_window' must be >= 0")
	}

	switch c.Store.GetBackend() {
	case StoreBackendMemory:
		if c.Store.RedisURL != "" {
			return fmt.Errorf("store: 'redis_url' requires backend 'redis'")
		}
	case StoreBackendRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("store: backend 'redis' requires 'redis_url'")
		}
	default:
		return fmt.Errorf("store: unknown backend %q", c.Store.Backend)
	}

	if c.Refile.IndentUnit < 0 {
		return fmt.Errorf("refile: 'indent_unit' must be >= 0")
	}

	return nil
}
