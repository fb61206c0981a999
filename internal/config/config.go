// Package config loads service configuration from an optional TOML file
// with environment-variable overrides. A .env file, when present, is
// loaded first so local development does not need exported variables.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/maajidpp/linkza/pkg/errors"
)

// Duration wraps time.Duration so TOML files can say "30s" or "7d"-style
// Go duration strings.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// MongoConfig holds document store settings.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// RedisConfig holds settings for sessions, rate limiting, and the preview
// cache. An empty Addr selects the in-memory backends.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// AuthConfig holds token settings.
type AuthConfig struct {
	JWTSecret  string   `toml:"jwt_secret"`
	SessionTTL Duration `toml:"session_ttl"`
}

// RateLimitConfig holds fixed-window limiter settings.
type RateLimitConfig struct {
	Requests int      `toml:"requests"`
	Window   Duration `toml:"window"`
}

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Mongo     MongoConfig     `toml:"mongo"`
	Redis     RedisConfig     `toml:"redis"`
	Auth      AuthConfig      `toml:"auth"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration{15 * time.Second},
			WriteTimeout:    Duration{15 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "linkza",
		},
		Auth: AuthConfig{
			SessionTTL: Duration{7 * 24 * time.Hour},
		},
		RateLimit: RateLimitConfig{
			Requests: 10,
			Window:   Duration{time.Minute},
		},
	}
}

// Load builds the configuration: defaults, then the TOML file at path,
// then environment variables. When path is empty, linkza.toml in the
// working directory is used if it exists.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = "linkza.toml"
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config file %s", path)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Server.Addr, "LINKZA_ADDR")
	setString(&c.Mongo.URI, "LINKZA_MONGO_URI")
	setString(&c.Mongo.Database, "LINKZA_MONGO_DB")
	setString(&c.Redis.Addr, "LINKZA_REDIS_ADDR")
	setString(&c.Redis.Password, "LINKZA_REDIS_PASSWORD")
	setInt(&c.Redis.DB, "LINKZA_REDIS_DB")
	setString(&c.Auth.JWTSecret, "LINKZA_JWT_SECRET")
	setDuration(&c.Auth.SessionTTL, "LINKZA_SESSION_TTL")
	setInt(&c.RateLimit.Requests, "LINKZA_RATE_LIMIT")
	setDuration(&c.RateLimit.Window, "LINKZA_RATE_WINDOW")
}

// Validate checks settings the service cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New(errors.ErrCodeInvalidInput, "auth.jwt_secret (LINKZA_JWT_SECRET) is required")
	}
	if c.Mongo.URI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "mongo.uri is required")
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "rate limit requests and window must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
