package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP server
	Port string

	// Database
	SQLiteDBPath string

	// Sessions
	SessionSecret string
	SessionMaxAge int // seconds

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8000"),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/finance.db"),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionMaxAge: getEnvInt("SESSION_MAX_AGE", 604800),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	// Session cookies are signed with this value; an unset or guessable
	// secret silently breaks authentication.
	if c.SessionSecret == "" {
		errs = append(errs, "SESSION_SECRET must be set")
	} else if len(c.SessionSecret) < 16 {
		errs = append(errs, fmt.Sprintf("session secret is %d characters: must be at least 16", len(c.SessionSecret)))
	}

	if c.SessionMaxAge < 60 {
		errs = append(errs, fmt.Sprintf("invalid session max age %d: must be at least 60 seconds", c.SessionMaxAge))
	} else if c.SessionMaxAge > 31536000 {
		errs = append(errs, fmt.Sprintf("invalid session max age %d: must be at most one year in seconds", c.SessionMaxAge))
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	isValidLevel := false
	for _, level := range validLevels {
		if c.LogLevel == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

// SlogLevel maps the configured level name onto a slog.Level. Unknown names
// fall back to Info so logging keeps working even with a bad config.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
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

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
