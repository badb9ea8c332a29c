// Package config loads gymadmin settings from defaults, a YAML file, a .env file and
// GYMADMIN_* environment variables, in that order of precedence (later wins).
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Session backends
const (
	SessionBackendSQLite = "sqlite"
	SessionBackendRedis  = "redis"
)

// DefaultConfigPath is read when GYMADMIN_CONFIG is unset. A missing file is not an error.
const DefaultConfigPath = "gymadmin.yaml"

// Config holds every runtime setting of the admin server.
type Config struct {
	Env     string        `yaml:"env"`
	Addr    string        `yaml:"addr"`
	Lang    string        `yaml:"lang"`
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Redis   RedisConfig   `yaml:"redis"`
	DB      DBConfig      `yaml:"db"`
	Log     LogConfig     `yaml:"log"`
	Email   EmailConfig   `yaml:"email"`
	HTTP    HTTPConfig    `yaml:"http"`
}

// APIConfig configures the gym REST API client.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	SlowCallMs int           `yaml:"slow_call_ms"`
}

// SessionConfig configures durable admin sessions.
type SessionConfig struct {
	Backend             string        `yaml:"backend"`
	TTL                 time.Duration `yaml:"ttl"`
	RevalidateOnRestore bool          `yaml:"revalidate_on_restore"`
	StateIdleTimeout    time.Duration `yaml:"state_idle_timeout"`
	SecureCookie        bool          `yaml:"secure_cookie"`
}

// RedisConfig configures the Redis session backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DBConfig configures the SQLite session database.
type DBConfig struct {
	Path        string `yaml:"path"`
	SlowQueryMs int    `yaml:"slow_query_ms"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// EmailConfig configures the optional welcome email.
type EmailConfig struct {
	ResendKey    string `yaml:"resend_key"`
	From         string `yaml:"from"`
	WelcomeOnAdd bool   `yaml:"welcome_on_add"`
}

// HTTPConfig configures the served HTTP surface.
type HTTPConfig struct {
	CSRFKey        string   `yaml:"csrf_key"`
	TrustedOrigins []string `yaml:"trusted_origins"`
	RateLimit      int      `yaml:"rate_limit"`
	SlowRequestMs  int      `yaml:"slow_request_ms"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Env:  "development",
		Addr: ":8080",
		Lang: "tr",
		API: APIConfig{
			BaseURL:    "http://localhost:5000/api",
			Timeout:    10 * time.Second,
			SlowCallMs: 500,
		},
		Session: SessionConfig{
			Backend:          SessionBackendSQLite,
			StateIdleTimeout: 2 * time.Hour,
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		DB:    DBConfig{Path: "gymadmin.db", SlowQueryMs: 50},
		Log:   LogConfig{Level: "info", Format: "text"},
		Email: EmailConfig{From: "Gym Admin <noreply@example.com>"},
		HTTP: HTTPConfig{
			TrustedOrigins: []string{"localhost:8080", "127.0.0.1:8080"},
			RateLimit:      10,
			SlowRequestMs:  200,
		},
	}
}

// Load builds the configuration.
// PRE: none
// POST: Returns a validated Config or an error naming the offending setting
func Load() (Config, error) {
	cfg := Default()

	path := os.Getenv("GYMADMIN_CONFIG")
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}
	if err := loadYAML(&cfg, path, explicit); err != nil {
		return Config{}, err
	}

	envFile := envOrDefault("GYMADMIN_ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadYAML merges the file at path into cfg. A missing default file is skipped.
func loadYAML(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides cfg with GYMADMIN_* variables.
func applyEnv(cfg *Config) error {
	cfg.Env = envOrDefault("GYMADMIN_ENV", cfg.Env)
	cfg.Addr = envOrDefault("GYMADMIN_ADDR", cfg.Addr)
	cfg.Lang = envOrDefault("GYMADMIN_LANG", cfg.Lang)
	cfg.API.BaseURL = envOrDefault("GYMADMIN_API_BASE_URL", cfg.API.BaseURL)
	cfg.Session.Backend = envOrDefault("GYMADMIN_SESSION_BACKEND", cfg.Session.Backend)
	cfg.Redis.Addr = envOrDefault("GYMADMIN_REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envOrDefault("GYMADMIN_REDIS_PASSWORD", cfg.Redis.Password)
	cfg.DB.Path = envOrDefault("GYMADMIN_DB_PATH", cfg.DB.Path)
	cfg.Log.Level = envOrDefault("GYMADMIN_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envOrDefault("GYMADMIN_LOG_FORMAT", cfg.Log.Format)
	cfg.Email.ResendKey = envOrDefault("GYMADMIN_RESEND_KEY", cfg.Email.ResendKey)
	cfg.Email.From = envOrDefault("GYMADMIN_EMAIL_FROM", cfg.Email.From)
	cfg.HTTP.CSRFKey = envOrDefault("GYMADMIN_CSRF_KEY", cfg.HTTP.CSRFKey)
	if v := os.Getenv("GYMADMIN_TRUSTED_ORIGINS"); v != "" {
		cfg.HTTP.TrustedOrigins = strings.Split(v, ",")
	}

	var err error
	set := func(key string, apply func(string) error) {
		if err != nil {
			return
		}
		if v := os.Getenv(key); v != "" {
			if e := apply(v); e != nil {
				err = fmt.Errorf("%s: %w", key, e)
			}
		}
	}
	duration := func(dst *time.Duration) func(string) error {
		return func(v string) (e error) { *dst, e = time.ParseDuration(v); return }
	}
	integer := func(dst *int) func(string) error {
		return func(v string) (e error) { *dst, e = strconv.Atoi(v); return }
	}
	boolean := func(dst *bool) func(string) error {
		return func(v string) (e error) { *dst, e = strconv.ParseBool(v); return }
	}

	set("GYMADMIN_API_TIMEOUT", duration(&cfg.API.Timeout))
	set("GYMADMIN_API_SLOW_CALL_MS", integer(&cfg.API.SlowCallMs))
	set("GYMADMIN_SESSION_TTL", duration(&cfg.Session.TTL))
	set("GYMADMIN_SESSION_REVALIDATE", boolean(&cfg.Session.RevalidateOnRestore))
	set("GYMADMIN_STATE_IDLE_TIMEOUT", duration(&cfg.Session.StateIdleTimeout))
	set("GYMADMIN_SECURE_COOKIE", boolean(&cfg.Session.SecureCookie))
	set("GYMADMIN_REDIS_DB", integer(&cfg.Redis.DB))
	set("GYMADMIN_SLOW_QUERY_MS", integer(&cfg.DB.SlowQueryMs))
	set("GYMADMIN_WELCOME_EMAIL", boolean(&cfg.Email.WelcomeOnAdd))
	set("GYMADMIN_RATE_LIMIT", integer(&cfg.HTTP.RateLimit))
	set("GYMADMIN_SLOW_REQUEST_MS", integer(&cfg.HTTP.SlowRequestMs))
	return err
}

// Validate checks settings that would otherwise fail at first use.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return errors.New("api.timeout must not be negative")
	}
	switch c.Session.Backend {
	case SessionBackendSQLite, SessionBackendRedis:
	default:
		return fmt.Errorf("session.backend must be %q or %q, got %q", SessionBackendSQLite, SessionBackendRedis, c.Session.Backend)
	}
	if c.Session.TTL < 0 {
		return errors.New("session.ttl must not be negative")
	}
	switch c.Lang {
	case "en", "tr":
	default:
		return fmt.Errorf("lang must be en or tr, got %q", c.Lang)
	}
	if c.HTTP.RateLimit <= 0 {
		return errors.New("http.rate_limit must be positive")
	}
	if c.HTTP.CSRFKey != "" {
		if key, err := hex.DecodeString(c.HTTP.CSRFKey); err != nil || len(key) != 32 {
			return errors.New("http.csrf_key must be 64 hex characters (32 bytes)")
		}
	} else if c.IsProduction() {
		return errors.New("http.csrf_key is required in production")
	}
	return nil
}

// IsProduction reports whether the server runs with production safeguards.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// CSRFKeyBytes decodes the configured CSRF key; ok is false when none is set.
func (c Config) CSRFKeyBytes() (key []byte, ok bool) {
	if c.HTTP.CSRFKey == "" {
		return nil, false
	}
	key, err := hex.DecodeString(c.HTTP.CSRFKey)
	return key, err == nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
