// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devSecret = "feira-dev-secret-change-me-0000000000"

// MinSecretLength is the shortest JWT secret accepted outside development.
const MinSecretLength = 32

type Config struct {
	// HTTP server
	Port          string
	AllowedOrigin string

	// Database
	DBPath string

	// Sessions
	JWTSecret string
	TokenTTL  time.Duration

	// Observability
	LogLevel       slog.Level
	MetricsEnabled bool

	// Optional administrator created at startup
	AdminEmail    string
	AdminName     string
	AdminPassword string

	// Environment: development or production
	Env string
}

// Load reads .env (if present) and then the process environment.
// Variables already set in the environment take precedence over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),

		DBPath: getEnv("DB_PATH", "./data/feira.db"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),

		LogLevel:       ParseLevel(os.Getenv("LOG_LEVEL")),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		Env: getEnv("APP_ENV", "development"),
	}

	if cfg.JWTSecret == "" && cfg.IsDevelopment() {
		cfg.JWTSecret = devSecret
	}
	return cfg
}

// IsDevelopment reports whether the server runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// HasAdmin reports whether an administrator should be created at startup.
func (c *Config) HasAdmin() bool {
	return c.AdminEmail != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		problems = append(problems, "database path cannot be empty")
	}

	switch c.Env {
	case "development", "production":
	default:
		problems = append(problems, fmt.Sprintf("invalid environment '%s': must be development or production", c.Env))
	}

	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	} else if !c.IsDevelopment() && len(c.JWTSecret) < MinSecretLength {
		problems = append(problems, fmt.Sprintf("JWT_SECRET must be at least %d bytes", MinSecretLength))
	}

	if c.TokenTTL < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid token TTL %v: must be at least 1 minute", c.TokenTTL))
	}

	if c.HasAdmin() && len(c.AdminPassword) < 8 {
		problems = append(problems, "ADMIN_PASSWORD must be at least 8 characters when ADMIN_EMAIL is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else
// is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
