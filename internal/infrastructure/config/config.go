package config

import (
	"netprofile-agent/internal/domain/errors"
	"os"
	"strconv"
	"time"
)

// Config is a struct that holds application configuration
type Config struct {
	Store  StoreConfig
	Engine EngineConfig
	Health HealthConfig
	Locale LocaleConfig
}

// LocaleConfig is a struct that holds message catalog configuration
type LocaleConfig struct {
	// Language selects the catalog (e.g. "en").
	Language string
	// CatalogDir, when set, overrides the embedded catalogs with
	// <CatalogDir>/<Language>.yaml.
	CatalogDir string
}

// StoreConfig is a struct that holds local store configuration
type StoreConfig struct {
	DataDirectory string
}

// EngineConfig is a struct that holds transaction engine configuration
type EngineConfig struct {
	CommandTimeout time.Duration
	VerifyRetries  int
	VerifyDelay    time.Duration
}

// HealthConfig is a struct that holds health check configuration
type HealthConfig struct {
	Port string
}

// ConfigLoader is an interface for loading configuration
type ConfigLoader interface {
	Load() (*Config, error)
}

// EnvironmentConfigLoader is an implementation that loads configuration from environment variables
type EnvironmentConfigLoader struct{}

// NewEnvironmentConfigLoader creates a new EnvironmentConfigLoader
func NewEnvironmentConfigLoader() ConfigLoader {
	return &EnvironmentConfigLoader{}
}

// Load loads configuration from environment variables
func (l *EnvironmentConfigLoader) Load() (*Config, error) {
	config := &Config{
		Store: StoreConfig{
			DataDirectory: getEnvOrDefault("NETPROFILE_DATA_DIR", defaultDataDir()),
		},
		Engine: EngineConfig{
			CommandTimeout: getEnvDurationOrDefault("COMMAND_TIMEOUT", 30*time.Second),
			VerifyRetries:  getEnvIntOrDefault("VERIFY_RETRIES", 2),
			VerifyDelay:    getEnvDurationOrDefault("VERIFY_DELAY", 1*time.Second),
		},
		Health: HealthConfig{
			Port: getEnvOrDefault("HEALTH_PORT", "8080"),
		},
		Locale: LocaleConfig{
			Language:   getEnvOrDefault("NETPROFILE_LOCALE", "en"),
			CatalogDir: os.Getenv("NETPROFILE_LOCALE_DIR"),
		},
	}

	if err := l.validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// validate validates the configuration
func (l *EnvironmentConfigLoader) validate(config *Config) error {
	if config.Store.DataDirectory == "" {
		return errors.NewValidationError("invalid_config", "data directory not configured", nil)
	}
	if config.Engine.CommandTimeout <= 0 {
		return errors.NewValidationError("invalid_config", "invalid command timeout", nil)
	}
	if config.Engine.VerifyRetries < 0 {
		return errors.NewValidationError("invalid_config", "invalid verify retry count", nil)
	}
	if config.Health.Port == "" {
		return errors.NewValidationError("invalid_config", "health check port not configured", nil)
	}
	if config.Locale.Language == "" {
		return errors.NewValidationError("invalid_config", "locale not configured", nil)
	}
	return nil
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + string(os.PathSeparator) + "netprofile"
	}
	return "."
}

// Environment variable helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
