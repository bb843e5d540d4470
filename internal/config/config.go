package config

import (
	"errors"
	"os"
	"time"
)

// Config carries everything the app reads from the environment.
type Config struct {
	Addr            string
	DatabaseURL     string
	JWTSecret       string
	TokenLifetime   time.Duration
	RedisAddr       string
	ProductCacheTTL time.Duration
}

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is not set")
	ErrMissingJWTSecret   = errors.New("JWT_SECRET is not set")
)

// Load reads configuration from the environment. A missing signing secret or
// database URL is a startup error; callers are expected to treat it as fatal.
func Load() (Config, error) {
	cfg := Config{
		Addr:            ":8080",
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		TokenLifetime:   72 * time.Hour,
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		ProductCacheTTL: 5 * time.Minute,
	}

	if addr := os.Getenv("APP_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if raw := os.Getenv("TOKEN_LIFETIME"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.TokenLifetime = d
		}
	}
	if raw := os.Getenv("PRODUCT_CACHE_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.ProductCacheTTL = d
		}
	}

	if cfg.DatabaseURL == "" {
		return Config{}, ErrMissingDatabaseURL
	}
	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}

	return cfg, nil
}
