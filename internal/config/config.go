// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Logging  LoggingConfig
	Output   OutputConfig
	Progress ProgressConfig
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// OutputConfig holds settings for the cleaned CSV file.
type OutputConfig struct {
	// CRLF terminates lines with \r\n (default: true)
	CRLF bool `env:"CONTACTCLEAN_CRLF" envDefault:"true"`

	// BOM prepends a UTF-8 byte order mark for Excel (default: false)
	BOM bool `env:"CONTACTCLEAN_BOM" envDefault:"false"`
}

// ProgressConfig holds progress reporting settings.
type ProgressConfig struct {
	// Interval is how many input rows pass between progress logs, 0 disables (default: 10000)
	Interval int `env:"CONTACTCLEAN_PROGRESS_INTERVAL" envDefault:"10000"`
}
