package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mealtab/internal/core"
)

type Config struct {
	// HTTP server
	Port string

	// Ledger
	StartingBudget      string // decimal text, e.g. "100.00"
	startingBudgetCents int64

	// Persistence
	DataBackend  string
	SQLiteDBPath string

	// AMQP (optional; empty URL disables publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Worker
	ArchiveInterval time.Duration

	// Report archive (optional)
	GoogleSpreadsheetID string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		StartingBudget: getEnv("STARTING_BUDGET", "100.00"),

		DataBackend:  getEnv("DATA_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/mealtab.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "mealtab"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_changes"),

		ArchiveInterval: getEnvDuration("ARCHIVE_INTERVAL", 5*time.Minute),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
	}

	return cfg
}

// StartingBudgetCents returns the parsed starting budget. Populated by
// Validate; falls back to the domain default before that.
func (c *Config) StartingBudgetCents() int64 {
	if c.startingBudgetCents > 0 {
		return c.startingBudgetCents
	}
	return core.DefaultStartingBudgetCents
}

// Validate checks the configuration, collecting every problem into one error.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	cents, err := core.ParseDecimalToCents(c.StartingBudget)
	if err != nil {
		errors = append(errors, fmt.Sprintf("invalid starting budget '%s': must be a positive decimal", c.StartingBudget))
	} else {
		c.startingBudgetCents = cents
	}

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
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
	}

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

	if c.ArchiveInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid archive interval %v: must be at least 1 second", c.ArchiveInterval))
	} else if c.ArchiveInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid archive interval %v: must be at most 24 hours", c.ArchiveInterval))
	}

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
