package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Auth backend selection values.
const (
	AuthBackendProvider = "provider"
	AuthBackendJWT      = "jwt"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// Identity verification
	AuthBackend     string
	AuthProviderURL string
	AuthProviderKey string
	AuthTimeout     time.Duration
	JWTSecret       string

	// AMQP (optional; purchase events are skipped when unset)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export (worker only)
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Worker
	SyncInterval time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8081"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/hondana.db"),

		AuthBackend:     getEnv("AUTH_BACKEND", AuthBackendProvider),
		AuthProviderURL: getEnv("AUTH_PROVIDER_URL", ""),
		AuthProviderKey: getEnv("AUTH_PROVIDER_KEY", ""),
		AuthTimeout:     getEnvDuration("AUTH_TIMEOUT", 10*time.Second),
		JWTSecret:       getEnv("JWT_SECRET", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "hondana"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "purchase_events"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Purchases"),

		SyncInterval: getEnvDuration("SYNC_INTERVAL", 30*time.Second),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate SQLite path
	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	// Validate auth backend
	switch c.AuthBackend {
	case AuthBackendProvider:
		if c.AuthProviderURL == "" {
			errors = append(errors, "AUTH_PROVIDER_URL is required when using the provider auth backend")
		} else if parsedURL, err := url.Parse(c.AuthProviderURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid auth provider URL '%s': %v", c.AuthProviderURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid auth provider URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	case AuthBackendJWT:
		if c.JWTSecret == "" {
			errors = append(errors, "JWT_SECRET is required when using the jwt auth backend")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid auth backend '%s': must be one of [%s %s]", c.AuthBackend, AuthBackendJWT, AuthBackendProvider))
	}

	if c.AuthTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid auth timeout %v: must be at least 1 second", c.AuthTimeout))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate worker configuration
	if c.SyncInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	} else if c.SyncInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at most 24 hours", c.SyncInterval))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
