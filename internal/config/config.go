// Package config loads rtc-auth-client settings from the environment
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names
const (
	EnvApplicationKey      = "RTC_APPLICATION_KEY"
	EnvApplicationSecret   = "RTC_APPLICATION_SECRET"
	EnvTokenTTL            = "RTC_TOKEN_TTL"
	EnvInstanceTTL         = "RTC_INSTANCE_TTL"
	EnvCredentialsFile     = "RTC_CREDENTIALS_FILE"
	EnvCredentialsCacheTTL = "RTC_CREDENTIALS_CACHE_TTL"
	EnvLogEnv              = "RTC_LOG_ENV"
	EnvLogLevel            = "RTC_LOG_LEVEL"
)

// Defaults
const (
	DefaultTokenTTL            = 10 * time.Minute
	DefaultCredentialsCacheTTL = time.Minute
	DefaultLogEnv              = "dev"
	DefaultLogLevel            = "info"
)

// Config holds issuer credentials, token lifetimes and ambient settings
type Config struct {
	// ApplicationKey identifies the application issuing tokens
	ApplicationKey string
	// ApplicationSecret is the base64-encoded application secret
	ApplicationSecret string
	// TokenTTL is the lifetime of issued tokens (exp - iat)
	TokenTTL time.Duration
	// InstanceTTL is the lifetime of the client registration, 0 means no instance expiry
	InstanceTTL time.Duration

	// CredentialsFile is a YAML file mapping application keys to secrets, used for validation
	CredentialsFile string
	// CredentialsCacheTTL bounds how long looked up secrets are cached
	CredentialsCacheTTL time.Duration

	LogEnv   string
	LogLevel string
}

// Default returns a Config with default lifetimes and logging
func Default() Config {
	return Config{
		TokenTTL:            DefaultTokenTTL,
		CredentialsCacheTTL: DefaultCredentialsCacheTTL,
		LogEnv:              DefaultLogEnv,
		LogLevel:            DefaultLogLevel,
	}
}

// Load reads an optional .env file from the working directory, then the environment
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// LoadFile reads the given env file, then the environment
// Variables already set in the environment take precedence
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil {
		return Config{}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only
func FromEnv() (Config, error) {
	cfg := Default()

	cfg.ApplicationKey = strings.TrimSpace(os.Getenv(EnvApplicationKey))
	cfg.ApplicationSecret = strings.TrimSpace(os.Getenv(EnvApplicationSecret))
	cfg.CredentialsFile = strings.TrimSpace(os.Getenv(EnvCredentialsFile))

	if v := os.Getenv(EnvLogEnv); v != "" {
		cfg.LogEnv = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	var err error
	if cfg.TokenTTL, err = durationEnv(EnvTokenTTL, cfg.TokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.InstanceTTL, err = durationEnv(EnvInstanceTTL, cfg.InstanceTTL); err != nil {
		return Config{}, err
	}
	if cfg.CredentialsCacheTTL, err = durationEnv(EnvCredentialsCacheTTL, cfg.CredentialsCacheTTL); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ValidateIssuer checks the settings required to issue tokens
func (c Config) ValidateIssuer() error {
	if c.ApplicationKey == "" {
		return fmt.Errorf("%s environment variable is required", EnvApplicationKey)
	}
	if c.ApplicationSecret == "" {
		return fmt.Errorf("%s environment variable is required", EnvApplicationSecret)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvTokenTTL)
	}
	if c.InstanceTTL < 0 {
		return fmt.Errorf("%s must not be negative", EnvInstanceTTL)
	}
	return nil
}

func durationEnv(name string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	return d, nil
}
