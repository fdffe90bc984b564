// Package config loads client configuration from the environment or a YAML
// file with environment overrides.
package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
)

// Config is the client configuration
type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Sentry  SentryConfig  `yaml:"sentry"`
}

// APIConfig describes the remote API
type APIConfig struct {
	BaseURL    string        `yaml:"base_url" env:"NOTES_API_BASE_URL" env-default:"http://localhost:8000/api"`
	AppVersion string        `yaml:"app_version" env:"NOTES_APP_VERSION" env-default:"1.0.0"`
	Timeout    time.Duration `yaml:"timeout" env:"NOTES_API_TIMEOUT" env-default:"10s"`
}

// SessionConfig selects where the credential pair is stored. Redis wins
// over the file when both are set; neither means in-memory.
type SessionConfig struct {
	File          string `yaml:"file" env:"NOTES_SESSION_FILE"`
	RedisAddr     string `yaml:"redis_addr" env:"NOTES_REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" env:"NOTES_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"NOTES_REDIS_DB" env-default:"0"`
	RedisPrefix   string `yaml:"redis_prefix" env:"NOTES_REDIS_PREFIX" env-default:"notes:session:"`
}

// SentryConfig enables error reporting
type SentryConfig struct {
	DSN         string `yaml:"dsn" env:"SENTRY_DSN"`
	Environment string `yaml:"environment" env:"SENTRY_ENVIRONMENT" env-default:"production"`
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	return &cfg, nil
}

// LoadFile reads a YAML file and applies environment overrides
func LoadFile(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to load configuration from %s", path)
	}
	return &cfg, nil
}
