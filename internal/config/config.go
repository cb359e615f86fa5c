package config

import (
	"fmt"
	"os"

	"billing/internal/logger"
	"billing/internal/store"
)

type Config struct {
	// Record store
	Store      string
	DataDir    string
	SQLitePath string

	// Presentation
	CurrencySymbol string

	// Google Sheets Configuration
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		Store:                getEnv("BILLING_STORE", store.BackendFile),
		DataDir:              getEnv("BILLING_DATA_DIR", "./data"),
		SQLitePath:           getEnv("BILLING_SQLITE_PATH", ""),
		CurrencySymbol:       getEnv("CURRENCY_SYMBOL", "₹"),
		GoogleSheetURL:       getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet: getEnv("GOOGLE_SHEET_WORKSHEET", "Invoices"),
		LogLevel:             getEnv("LOG_LEVEL", "warn"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:        getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:            getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case store.BackendFile, store.BackendSQLite, store.BackendMemory:
	default:
		return fmt.Errorf("BILLING_STORE must be %s, %s or %s, got %q",
			store.BackendFile, store.BackendSQLite, store.BackendMemory, c.Store)
	}
	if c.Store != store.BackendMemory && c.DataDir == "" && c.SQLitePath == "" {
		return fmt.Errorf("BILLING_DATA_DIR is required")
	}
	return nil
}

// StoreOptions returns the record store settings. Without BILLING_SQLITE_PATH
// the SQLite database is billing.db inside the data directory.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:    c.Store,
		DataDir:    c.DataDir,
		SQLitePath: c.SQLitePath,
	}
}

// RequireSheets checks the settings needed by the Google Sheets export.
func (c *Config) RequireSheets() error {
	if c.GoogleSheetURL == "" {
		return fmt.Errorf("GOOGLE_SHEET_URL is required")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
