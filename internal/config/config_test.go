package config

import (
	"log/slog"
	"os"
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		Port:          "8000",
		SQLiteDBPath:  "./test.db",
		SessionSecret: "0123456789abcdef",
		SessionMaxAge: 604800,
		LogLevel:      "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "missing database path",
			mutate:      func(c *Config) { c.SQLiteDBPath = "" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name:        "missing session secret",
			mutate:      func(c *Config) { c.SessionSecret = "" },
			wantErr:     true,
			errorString: "SESSION_SECRET must be set",
		},
		{
			name:        "session secret too short",
			mutate:      func(c *Config) { c.SessionSecret = "short" },
			wantErr:     true,
			errorString: "session secret is 5 characters: must be at least 16",
		},
		{
			name:        "session max age too small",
			mutate:      func(c *Config) { c.SessionMaxAge = 30 },
			wantErr:     true,
			errorString: "invalid session max age 30: must be at least 60 seconds",
		},
		{
			name:        "session max age too large",
			mutate:      func(c *Config) { c.SessionMaxAge = 40000000 },
			wantErr:     true,
			errorString: "invalid session max age 40000000: must be at most one year",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose': must be one of [debug info warn error]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else {
				if err != nil {
					t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := Config{Port: "abc", SQLiteDBPath: "", SessionSecret: "", SessionMaxAge: 0, LogLevel: "loud"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Config.Validate() error = nil, want every problem reported")
	}
	for _, want := range []string{"invalid port", "database path", "SESSION_SECRET", "session max age", "log level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Config.Validate() error missing %q:\n%v", want, err)
		}
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := Config{LogLevel: tt.level}
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	// Save original env vars
	originalVars := map[string]string{
		"PORT":            os.Getenv("PORT"),
		"SQLITE_DB_PATH":  os.Getenv("SQLITE_DB_PATH"),
		"SESSION_SECRET":  os.Getenv("SESSION_SECRET"),
		"SESSION_MAX_AGE": os.Getenv("SESSION_MAX_AGE"),
		"LOG_LEVEL":       os.Getenv("LOG_LEVEL"),
	}

	// Clean environment
	for key := range originalVars {
		os.Unsetenv(key)
	}

	// Restore env vars at end of test
	defer func() {
		for key, value := range originalVars {
			if value != "" {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8000" {
			t.Errorf("Load() Port = %v, want 8000", cfg.Port)
		}
		if cfg.SQLiteDBPath != "./data/finance.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/finance.db", cfg.SQLiteDBPath)
		}
		if cfg.SessionSecret != "" {
			t.Errorf("Load() SessionSecret = %v, want empty", cfg.SessionSecret)
		}
		if cfg.SessionMaxAge != 604800 {
			t.Errorf("Load() SessionMaxAge = %v, want 604800", cfg.SessionMaxAge)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("Load() LogLevel = %v, want info", cfg.LogLevel)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		os.Setenv("PORT", "9090")
		os.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		os.Setenv("SESSION_SECRET", "super-secret-test-value")
		os.Setenv("SESSION_MAX_AGE", "3600")
		os.Setenv("LOG_LEVEL", "debug")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want /tmp/test.db", cfg.SQLiteDBPath)
		}
		if cfg.SessionSecret != "super-secret-test-value" {
			t.Errorf("Load() SessionSecret = %v, want super-secret-test-value", cfg.SessionSecret)
		}
		if cfg.SessionMaxAge != 3600 {
			t.Errorf("Load() SessionMaxAge = %v, want 3600", cfg.SessionMaxAge)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("Load() LogLevel = %v, want debug", cfg.LogLevel)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		os.Setenv("SESSION_MAX_AGE", "invalid")

		cfg := Load()

		if cfg.SessionMaxAge != 604800 {
			t.Errorf("Load() SessionMaxAge = %v, want 604800 (default for invalid input)", cfg.SessionMaxAge)
		}
	})
}
