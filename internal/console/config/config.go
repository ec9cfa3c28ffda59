// Package config loads console settings from defaults, a .env file, the process
// environment and explicit overrides.
package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile         = ".env"
	defaultHTTPAddr        = ":8080"
	defaultBasePath        = "/app"
	defaultEnvironment     = "development"
	defaultLogLevel        = "info"
	defaultIdleTimeout     = 30 * time.Minute
	defaultLifetime        = 12 * time.Hour
	defaultShutdownTimeout = 10 * time.Second
	minHashKeyLength       = 32
)

// Config is the resolved console configuration.
type Config struct {
	Environment string
	LogLevel    string
	HTTP        HTTPConfig
	Session     SessionConfig
}

// HTTPConfig controls the listener and routing prefix.
type HTTPConfig struct {
	Addr            string
	BasePath        string
	ShutdownTimeout time.Duration
}

// SessionConfig controls cookie signing and lifetime.
type SessionConfig struct {
	HashKey      []byte
	BlockKey     []byte
	IdleTimeout  time.Duration
	Lifetime     time.Duration
	CookieSecure bool
}

// IsDevelopment reports whether the console runs with development defaults.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, defaultEnvironment)
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path. An empty path disables the file.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects values that take precedence over every other source.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load resolves the configuration. Precedence, lowest first: defaults, .env file,
// process environment, WithEnvMap values.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnv, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if value, ok := options.envMap[key]; ok {
			return value, true
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		value, ok := dotEnv[key]
		return value, ok
	}

	cfg := Config{
		Environment: strings.ToLower(stringWithDefault(lookup, "CONSOLE_ENV", defaultEnvironment)),
		LogLevel:    stringWithDefault(lookup, "CONSOLE_LOG_LEVEL", defaultLogLevel),
		HTTP: HTTPConfig{
			Addr:            stringWithDefault(lookup, "CONSOLE_HTTP_ADDR", defaultHTTPAddr),
			BasePath:        stringWithDefault(lookup, "CONSOLE_BASE_PATH", defaultBasePath),
			ShutdownTimeout: durationWithDefault(lookup, "CONSOLE_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Session: SessionConfig{
			HashKey:      []byte(stringWithDefault(lookup, "CONSOLE_SESSION_HASH_KEY", "")),
			BlockKey:     []byte(stringWithDefault(lookup, "CONSOLE_SESSION_BLOCK_KEY", "")),
			IdleTimeout:  durationWithDefault(lookup, "CONSOLE_SESSION_IDLE_TIMEOUT", defaultIdleTimeout),
			Lifetime:     durationWithDefault(lookup, "CONSOLE_SESSION_LIFETIME", defaultLifetime),
			CookieSecure: boolWithDefault(lookup, "CONSOLE_COOKIE_SECURE", false),
		},
	}

	if len(cfg.Session.HashKey) == 0 && cfg.IsDevelopment() {
		key, err := randomKey(minHashKeyLength)
		if err != nil {
			return Config{}, err
		}
		cfg.Session.HashKey = key
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var invalid []string
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		invalid = append(invalid, "HTTP.Addr")
	}
	if len(cfg.Session.HashKey) < minHashKeyLength {
		invalid = append(invalid, "Session.HashKey")
	}
	switch len(cfg.Session.BlockKey) {
	case 0, 16, 24, 32:
	default:
		invalid = append(invalid, "Session.BlockKey")
	}
	if cfg.Session.IdleTimeout <= 0 {
		invalid = append(invalid, "Session.IdleTimeout")
	}
	if cfg.Session.Lifetime < cfg.Session.IdleTimeout {
		invalid = append(invalid, "Session.Lifetime")
	}
	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", path, err)
	}
	return values, nil
}

func randomKey(length int) ([]byte, error) {
	key := make([]byte, length)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("config: generate session key: %w", err)
	}
	return key, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
