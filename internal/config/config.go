package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the front end.
type Config struct {
	Env            string        `yaml:"env"`
	Addr           string        `yaml:"addr"`
	APIURL         string        `yaml:"api_url"`
	DBPath         string        `yaml:"db_path"`
	StaticDir      string        `yaml:"static_dir"`
	CSRFKey        string        `yaml:"csrf_key"`
	SessionKey     string        `yaml:"session_key"`
	RedisAddr      string        `yaml:"redis_addr"`
	RedisPassword  string        `yaml:"redis_password"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	BackendTimeout time.Duration `yaml:"backend_timeout"`
	Timezone       string        `yaml:"timezone"`
	LogLevel       string        `yaml:"log_level"`
	SlowRequestMs  int           `yaml:"slow_request_ms"`
	SlowBackendMs  int           `yaml:"slow_backend_ms"`
	SlowQueryMs    int           `yaml:"slow_query_ms"`
	RateLimit      int           `yaml:"rate_limit"`
}

// Defaults returns the development configuration.
func Defaults() Config {
	return Config{
		Env:           "development",
		Addr:          ":8080",
		APIURL:        "http://localhost:5000/",
		DBPath:        "fitflow.db",
		StaticDir:     "static",
		CacheTTL:      30 * time.Second,
		Timezone:      "Local",
		LogLevel:      "info",
		SlowRequestMs: 200,
		SlowBackendMs: 300,
		SlowQueryMs:   50,
		RateLimit:     20,
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by FITFLOW_CONFIG, and then FITFLOW_* environment variables, in that order.
// PRE: none
// POST: returned Config passed Validate
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("FITFLOW_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envOrDefault("FITFLOW_ENV", cfg.Env)
	cfg.Addr = envOrDefault("FITFLOW_ADDR", cfg.Addr)
	cfg.APIURL = envOrDefault("FITFLOW_API_URL", cfg.APIURL)
	cfg.DBPath = envOrDefault("FITFLOW_DB_PATH", cfg.DBPath)
	cfg.StaticDir = envOrDefault("FITFLOW_STATIC_DIR", cfg.StaticDir)
	cfg.CSRFKey = envOrDefault("FITFLOW_CSRF_KEY", cfg.CSRFKey)
	cfg.SessionKey = envOrDefault("FITFLOW_SESSION_KEY", cfg.SessionKey)
	cfg.RedisAddr = envOrDefault("FITFLOW_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = envOrDefault("FITFLOW_REDIS_PASSWORD", cfg.RedisPassword)
	cfg.CacheTTL = getenvDuration("FITFLOW_CACHE_TTL", cfg.CacheTTL)
	cfg.BackendTimeout = getenvDuration("FITFLOW_BACKEND_TIMEOUT", cfg.BackendTimeout)
	cfg.Timezone = envOrDefault("FITFLOW_TIMEZONE", cfg.Timezone)
	cfg.LogLevel = envOrDefault("FITFLOW_LOG_LEVEL", cfg.LogLevel)
	cfg.SlowRequestMs = getenvInt("FITFLOW_SLOW_REQUEST_MS", cfg.SlowRequestMs)
	cfg.SlowBackendMs = getenvInt("FITFLOW_SLOW_BACKEND_MS", cfg.SlowBackendMs)
	cfg.SlowQueryMs = getenvInt("FITFLOW_SLOW_QUERY_MS", cfg.SlowQueryMs)
	cfg.RateLimit = getenvInt("FITFLOW_RATE_LIMIT", cfg.RateLimit)
}

// IsProduction reports whether secure defaults are enforced.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Location resolves the viewer timezone used for datetime-local inputs.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// CSRFKeyBytes decodes the CSRF secret; nil means "generate one".
func (c Config) CSRFKeyBytes() ([]byte, error) {
	return decodeKey("FITFLOW_CSRF_KEY", c.CSRFKey)
}

// SessionKeyBytes decodes the token sealing key; nil means "generate one".
func (c Config) SessionKeyBytes() ([]byte, error) {
	return decodeKey("FITFLOW_SESSION_KEY", c.SessionKey)
}

func decodeKey(name, keyHex string) ([]byte, error) {
	if keyHex == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) != 32 {
		return nil, fmt.Errorf("%s must be 64 hex characters (32 bytes)", name)
	}
	return key, nil
}

var (
	ErrMissingAPIURL    = errors.New("FITFLOW_API_URL is required")
	ErrProductionSecret = errors.New("FITFLOW_CSRF_KEY and FITFLOW_SESSION_KEY are required in production")
)

// Validate checks the configuration invariants.
// PRE: none
// POST: returns nil if the configuration can start a server
func (c Config) Validate() error {
	if c.APIURL == "" {
		return ErrMissingAPIURL
	}
	if _, err := c.CSRFKeyBytes(); err != nil {
		return err
	}
	if _, err := c.SessionKeyBytes(); err != nil {
		return err
	}
	if c.IsProduction() && (c.CSRFKey == "" || c.SessionKey == "") {
		return ErrProductionSecret
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("FITFLOW_TIMEZONE: %w", err)
	}
	if c.CacheTTL < 0 || c.BackendTimeout < 0 {
		return errors.New("durations cannot be negative")
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
