package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config aggregates all application configuration
type Config struct {
	MountVacation MountVacationConfig `yaml:"mountvacation"`
	Search        SearchConfig        `yaml:"search"`
	Cache         CacheConfig         `yaml:"cache"`
	Server        ServerConfig        `yaml:"server"`
	GoogleMaps    GoogleMapsConfig    `yaml:"google_maps"`
	Holidays      HolidaysConfig      `yaml:"holidays"`
	LogLevel      string              `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

type MountVacationConfig struct {
	APIKey             string `yaml:"api_key" env:"MOUNTVACATION_API_KEY" env-required:"true"`
	BaseURL            string `yaml:"base_url" env:"MOUNTVACATION_BASE_URL" env-default:"https://api.mountvacation.com"`
	Language           string `yaml:"language" env:"API_LANGUAGE" env-default:"en"`
	TimeoutSeconds     int    `yaml:"timeout_seconds" env:"API_TIMEOUT_SECONDS" env-default:"30"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute" env:"RATE_LIMIT_REQUESTS_PER_MINUTE" env-default:"60"`
}

type SearchConfig struct {
	MaxResultsDefault int `yaml:"max_results_default" env:"MAX_RESULTS_DEFAULT" env-default:"5"`
	MaxResultsLimit   int `yaml:"max_results_limit" env:"MAX_RESULTS_LIMIT" env-default:"20"`
}

// CacheConfig controls the in-process result cache and the optional shared store behind it.
// Backend is one of memory, sqlite, postgres or redis.
type CacheConfig struct {
	TTLSeconds      int    `yaml:"ttl_seconds" env:"CACHE_TTL_SECONDS" env-default:"300"`
	ErrorTTLSeconds int    `yaml:"error_ttl_seconds" env:"ERROR_CACHE_TTL_SECONDS" env-default:"60"`
	MaxSize         int    `yaml:"max_size" env:"MAX_CACHE_SIZE" env-default:"1000"`
	Backend         string `yaml:"backend" env:"CACHE_BACKEND" env-default:"memory"`
	DSN             string `yaml:"dsn" env:"CACHE_DSN" env-default:"mountvacation-cache.db"`
	RedisAddr       string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword   string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB         int    `yaml:"redis_db" env:"REDIS_DB" env-default:"0"`
}

type ServerConfig struct {
	Transport string `yaml:"transport" env:"MCP_TRANSPORT" env-default:"stdio"`
	Port      string `yaml:"port" env:"PORT" env-default:"8000"`
}

type GoogleMapsConfig struct {
	APIKey string `yaml:"api_key" env:"GOOGLE_MAPS_API_KEY"`
}

// HolidaysConfig controls the public holiday lookup tools.
type HolidaysConfig struct {
	Enabled bool   `yaml:"enabled" env:"HOLIDAYS_ENABLED" env-default:"true"`
	BaseURL string `yaml:"base_url" env:"HOLIDAYS_BASE_URL" env-default:"https://date.nager.at/api/v3"`
}

// Timeout returns the per-request upstream timeout.
func (c MountVacationConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TTL returns how long successful payloads stay cached.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// ErrorTTL returns how long error payloads stay cached. Zero disables error caching.
func (c CacheConfig) ErrorTTL() time.Duration {
	return time.Duration(c.ErrorTTLSeconds) * time.Second
}

// Load reads configuration from config.yaml and environment variables
// Priority: Env Vars > Config File > Defaults
func Load() (*Config, error) {
	return LoadFile("config.yaml")
}

// LoadFile is Load with an explicit config file path. A missing file falls back to env vars only.
func LoadFile(path string) (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		// Config file is optional; start over from env so a half-read file can't leak values
		cfg = Config{}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.MountVacation.APIKey == "" {
		return fmt.Errorf("MOUNTVACATION_API_KEY must be set")
	}
	if c.Search.MaxResultsLimit <= 0 {
		return fmt.Errorf("MAX_RESULTS_LIMIT must be positive, got %d", c.Search.MaxResultsLimit)
	}
	if c.Search.MaxResultsDefault <= 0 || c.Search.MaxResultsDefault > c.Search.MaxResultsLimit {
		return fmt.Errorf("MAX_RESULTS_DEFAULT must be between 1 and %d, got %d", c.Search.MaxResultsLimit, c.Search.MaxResultsDefault)
	}
	if c.Cache.MaxSize <= 0 {
		return fmt.Errorf("MAX_CACHE_SIZE must be positive, got %d", c.Cache.MaxSize)
	}
	switch c.Cache.Backend {
	case "memory", "sqlite", "postgres", "redis":
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q (want memory, sqlite, postgres or redis)", c.Cache.Backend)
	}
	switch c.Server.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("unknown MCP_TRANSPORT %q (want stdio or http)", c.Server.Transport)
	}
	return nil
}
