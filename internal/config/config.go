package config

import (
	"fmt"
	"os"
	"time"
)

// Config carries everything the process reads from the environment. It is
// built once at startup and handed to the collaborators that need it, so
// nothing else in the codebase touches os.Getenv.
type Config struct {
	Port            string
	DatabaseURL     string
	JWTSecret       string
	Env             string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

const (
	defaultPort       = "8080"
	defaultAccessTTL  = 7 * time.Minute
	defaultRefreshTTL = 15 * 24 * time.Hour
)

func Load() (*Config, error) {
	cfg := &Config{
		Port:            os.Getenv("PORT"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		Env:             os.Getenv("APP_ENV"),
		AccessTokenTTL:  defaultAccessTTL,
		RefreshTokenTTL: defaultRefreshTTL,
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("ACCESS_TOKEN_TTL: %w", err)
		}
		cfg.AccessTokenTTL = d
	}
	if v := os.Getenv("REFRESH_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("REFRESH_TOKEN_TTL: %w", err)
		}
		cfg.RefreshTokenTTL = d
	}

	return cfg, nil
}

func (c *Config) Production() bool {
	return c.Env == "production"
}
