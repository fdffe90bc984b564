package notes

import (
	"context"

	"github.com/eshaffer321/notes-go/internal/config"
	"github.com/eshaffer321/notes-go/internal/session"
	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
)

// Config is the environment/file configuration of a client
type Config = config.Config

// LoadConfig reads the configuration from NOTES_* environment variables
func LoadConfig() (*Config, error) {
	return config.Load()
}

// LoadConfigFile reads a YAML configuration file with environment overrides
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}

// NewClientFromEnv creates a client configured from the environment
func NewClientFromEnv(ctx context.Context, opts *ClientOptions) (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewClientFromConfig(ctx, cfg, opts)
}

// NewClientFromConfig creates a client from cfg. Fields already set in opts
// take precedence over cfg.
func NewClientFromConfig(ctx context.Context, cfg *Config, opts *ClientOptions) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if opts == nil {
		opts = &ClientOptions{}
	}

	if opts.BaseURL == "" {
		opts.BaseURL = cfg.API.BaseURL
	}
	if opts.AppVersion == "" {
		opts.AppVersion = cfg.API.AppVersion
	}
	if opts.Timeout == 0 {
		opts.Timeout = cfg.API.Timeout
	}
	if opts.SentryDSN == "" {
		opts.SentryDSN = cfg.Sentry.DSN
	}

	if opts.Store == nil {
		store, err := storeFromConfig(ctx, cfg.Session)
		if err != nil {
			return nil, err
		}
		opts.Store = store
	}

	if opts.SentryDSN != "" && opts.SentryOptions == nil {
		opts.SentryOptions = sentryOptions(cfg.Sentry.Environment)
	}

	return NewClient(opts)
}

// storeFromConfig picks redis, then file, then memory
func storeFromConfig(ctx context.Context, cfg config.SessionConfig) (Store, error) {
	switch {
	case cfg.RedisAddr != "":
		return NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	case cfg.File != "":
		return session.NewFileStore(cfg.File), nil
	default:
		return session.NewMemoryStore(), nil
	}
}

func sentryOptions(environment string) *sentry.ClientOptions {
	return &sentry.ClientOptions{
		Environment: environment,
	}
}
