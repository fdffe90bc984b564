package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eshaffer321/notes-go/internal/config"
)

const (
	configDirName       = "notesctl"
	configFileName      = "config.yaml"
	credentialsFileName = "credentials.json"
)

// DefaultConfigDir returns ~/.config/notesctl, honoring XDG_CONFIG_HOME
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, configDirName), nil
}

// DefaultConfigPath returns the config file used when --config is not given
func DefaultConfigPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadConfig reads path if it exists, otherwise the environment alone.
// Credentials default to a file next to the config.
func LoadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	if _, statErr := os.Stat(path); statErr == nil {
		cfg, err = config.LoadFile(path)
	} else if os.IsNotExist(statErr) {
		cfg, err = config.Load()
	} else {
		return nil, fmt.Errorf("failed to read config file: %w", statErr)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Session.File == "" && cfg.Session.RedisAddr == "" {
		cfg.Session.File = filepath.Join(filepath.Dir(path), credentialsFileName)
	}

	return cfg, nil
}

// SaveConfig writes cfg to path as YAML
func SaveConfig(path string, cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// configKeys lists the settable keys in display order
var configKeys = []string{
	"api.base_url",
	"api.app_version",
	"api.timeout",
	"session.file",
	"session.redis_addr",
	"session.redis_db",
	"session.redis_prefix",
	"sentry.dsn",
	"sentry.environment",
}

// setConfigValue assigns value to a dotted key such as api.base_url
func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "api.base_url":
		cfg.API.BaseURL = strings.TrimSpace(value)
	case "api.app_version":
		cfg.API.AppVersion = value
	case "api.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", value, err)
		}
		cfg.API.Timeout = d
	case "session.file":
		cfg.Session.File = value
	case "session.redis_addr":
		cfg.Session.RedisAddr = value
	case "session.redis_db":
		db, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid redis db %q: %w", value, err)
		}
		cfg.Session.RedisDB = db
	case "session.redis_prefix":
		cfg.Session.RedisPrefix = value
	case "sentry.dsn":
		cfg.Sentry.DSN = value
	case "sentry.environment":
		cfg.Sentry.Environment = value
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(configKeys, ", "))
	}
	return nil
}

// getConfigValue returns the value of a dotted key for display
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "api.base_url":
		return cfg.API.BaseURL, nil
	case "api.app_version":
		return cfg.API.AppVersion, nil
	case "api.timeout":
		return cfg.API.Timeout.String(), nil
	case "session.file":
		return cfg.Session.File, nil
	case "session.redis_addr":
		return cfg.Session.RedisAddr, nil
	case "session.redis_db":
		return strconv.Itoa(cfg.Session.RedisDB), nil
	case "session.redis_prefix":
		return cfg.Session.RedisPrefix, nil
	case "sentry.dsn":
		return cfg.Sentry.DSN, nil
	case "sentry.environment":
		return cfg.Sentry.Environment, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}
