// Package config loads runtime settings from .env, an optional YAML file and
// the process environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config holds all settings of the profiler binaries.
type Config struct {
	ListenAddr string `yaml:"listen_addr" env:"LISTEN_ADDR" env-default:":8080"`
	Env        string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel   string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	Registry RegistryConfig `yaml:"registry"`
	Database DatabaseConfig `yaml:"database"`
	Search   SearchConfig   `yaml:"search"`
	Profile  ProfileConfig  `yaml:"profile"`
}

// RegistryConfig configures the SOAP transport.
type RegistryConfig struct {
	Endpoint string        `yaml:"endpoint" env:"REGISTRY_ENDPOINT" env-default:"https://justizonline.gv.at/jop/api/at.gv.justiz.fbw/ws"`
	APIKey   string        `yaml:"-" env:"REGISTRY_API_KEY"` // secret, env only
	Timeout  time.Duration `yaml:"timeout" env:"REGISTRY_TIMEOUT" env-default:"30s"`
}

// DatabaseConfig configures the graph store. An empty URL disables it.
type DatabaseConfig struct {
	URL      string `yaml:"-" env:"DATABASE_URL"`
	MaxConns int32  `yaml:"max_conns" env:"DATABASE_MAX_CONNS" env-default:"10"`
}

// SearchConfig configures the name-search result cache.
type SearchConfig struct {
	CacheCapacity int           `yaml:"cache_capacity" env:"SEARCH_CACHE_CAPACITY" env-default:"128"`
	CacheTTL      time.Duration `yaml:"cache_ttl" env:"SEARCH_CACHE_TTL" env-default:"10m"`
}

// ProfileConfig configures profile building and caching.
type ProfileConfig struct {
	MaxAge                    time.Duration `yaml:"max_age" env:"PROFILE_MAX_AGE" env-default:"720h"`
	RequireCompleteFinancials bool          `yaml:"require_complete_financials" env:"REQUIRE_COMPLETE_FINANCIALS" env-default:"false"`
}

// Load reads configuration. path may be empty or point to a missing file, in
// which case only the environment and defaults apply.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Registry.Timeout <= 0 {
		return fmt.Errorf("registry timeout must be positive, got %s", c.Registry.Timeout)
	}
	if c.Search.CacheCapacity <= 0 {
		return fmt.Errorf("search cache capacity must be positive, got %d", c.Search.CacheCapacity)
	}
	if c.Search.CacheTTL <= 0 {
		return fmt.Errorf("search cache ttl must be positive, got %s", c.Search.CacheTTL)
	}
	if c.Profile.MaxAge <= 0 {
		return fmt.Errorf("profile max age must be positive, got %s", c.Profile.MaxAge)
	}
	return nil
}
