package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/aussiebroadwan/kyc/internal/query"
	"github.com/aussiebroadwan/kyc/pkg/kycsdk"
)

// Storage drivers for the session record.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	APIBaseURL  string        `yaml:"api_base_url"` // Upstream base URL (default: https://dummyjson.com)
	Storage     string        `yaml:"storage"`      // Session storage driver: file, sqlite, redis, memory (default: file)
	StoragePath string        `yaml:"storage_path"` // File or SQLite path (default: under the user config dir)
	RedisURL    string        `yaml:"redis_url"`    // redis:// URL, required for the redis driver
	TokenTTL    time.Duration `yaml:"token_ttl"`    // Requested access-token lifetime (default: 10m)
	RetryDelay  time.Duration `yaml:"retry_delay"`  // Delay before a query retry (default: 3s)
	Retries     int           `yaml:"retries"`      // Query retries after the first attempt, 0 or 1 (default: 1)
	HTTPTimeout time.Duration `yaml:"http_timeout"` // Per-request timeout (default: 10s)
	PageSize    int           `yaml:"page_size"`    // Submissions shown per page (default: 10)
	StubAddr    string        `yaml:"stub_addr"`    // Listen address for the stub API (default: :8080)

	StubKeyPassphrase string `yaml:"stub_key_passphrase"` // Optional: stable stub signing key across restarts
	Env               string `yaml:"env"`                 // Environment (dev, staging, prod) (default: dev)
	LogLevel          string `yaml:"log_level"`           // Log level (debug, info, warn, error) (default: warn)
	LogFormat         string `yaml:"log_format"`          // Log format (json, text) (default: text)
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		APIBaseURL:  kycsdk.DefaultBaseURL,
		Storage:     StorageFile,
		TokenTTL:    10 * time.Minute,
		RetryDelay:  3 * time.Second,
		Retries:     1,
		HTTPTimeout: 10 * time.Second,
		PageSize:    10,
		StubAddr:    ":8080",
		Env:         "dev",
		LogLevel:    "warn",
		LogFormat:   "text",
	}
}

// Production reports whether the client runs in a production environment.
func (c Config) Production() bool {
	return c.Env == "prod" || c.Env == "production"
}

// LoadConfig resolves configuration once at startup: defaults, then the
// optional YAML file at path, then environment variables (including a
// local .env file).
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	// Existing environment variables win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.UnmarshalStrict([]byte(os.ExpandEnv(string(raw))), &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.APIBaseURL = getEnvOrDefault("KYC_API_BASE_URL", cfg.APIBaseURL)
	cfg.Storage = getEnvOrDefault("KYC_STORAGE", cfg.Storage)
	cfg.StoragePath = getEnvOrDefault("KYC_STORAGE_PATH", cfg.StoragePath)
	cfg.RedisURL = getEnvOrDefault("KYC_REDIS_URL", cfg.RedisURL)
	cfg.TokenTTL = getEnvDurationOrDefault("KYC_TOKEN_TTL", cfg.TokenTTL)
	cfg.RetryDelay = getEnvDurationOrDefault("KYC_RETRY_DELAY", cfg.RetryDelay)
	cfg.Retries = getEnvIntOrDefault("KYC_RETRIES", cfg.Retries)
	cfg.HTTPTimeout = getEnvDurationOrDefault("KYC_HTTP_TIMEOUT", cfg.HTTPTimeout)
	cfg.PageSize = getEnvIntOrDefault("KYC_PAGE_SIZE", cfg.PageSize)
	cfg.StubAddr = getEnvOrDefault("KYC_STUB_ADDR", cfg.StubAddr)
	cfg.StubKeyPassphrase = getEnvOrDefault("KYC_STUB_KEY_PASSPHRASE", cfg.StubKeyPassphrase)
	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot start with.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageFile, StorageSQLite, StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return errors.New("config: KYC_REDIS_URL is required for redis storage")
		}
	default:
		return fmt.Errorf("config: unknown storage %q", c.Storage)
	}
	if c.TokenTTL < time.Minute {
		return fmt.Errorf("config: token ttl %s is below one minute", c.TokenTTL)
	}
	if c.Retries < 0 || c.Retries > query.MaxRetries {
		return fmt.Errorf("config: retries must be between 0 and %d", query.MaxRetries)
	}
	if c.RetryDelay < 0 || c.HTTPTimeout <= 0 {
		return errors.New("config: retry delay and http timeout must be positive")
	}
	if c.PageSize <= 0 {
		return errors.New("config: page size must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
