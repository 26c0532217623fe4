package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	// Server port
	APIPort int `toml:"api_port" validate:"min=1,max=65535"`

	// Database
	DatabasePath string `toml:"database_path" validate:"required"`

	// Frontend
	FrontendURL string `toml:"frontend_url" validate:"omitempty,url"`

	// Logging
	LogLevel  string `toml:"log_level" validate:"oneof=DEBUG INFO WARN ERROR"`
	LogFormat string `toml:"log_format" validate:"oneof=text json"`

	// Conversion
	LayoutStrategy string `toml:"layout" validate:"oneof=preserve auto"`

	// Request limits
	MaxUploadMB           int `toml:"max_upload_mb" validate:"min=1,max=512"`
	RequestTimeoutSeconds int `toml:"request_timeout_seconds" validate:"min=1,max=600"`
}

var validate = validator.New()

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		APIPort:        8080,
		DatabasePath:   "./data/dashconv.duckdb",
		FrontendURL:    "http://localhost:5173",
		LogLevel:       "INFO",
		LogFormat:      "text",
		LayoutStrategy: "preserve",

		MaxUploadMB:           10,
		RequestTimeoutSeconds: 10,
	}
}

// Load builds the configuration from defaults, the optional TOML file named
// by DASHCONV_CONFIG, and environment overrides, in that order
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("DASHCONV_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.APIPort = getEnvInt("DASHCONV_API_PORT", cfg.APIPort)
	cfg.DatabasePath = getEnv("DASHCONV_DATABASE_PATH", cfg.DatabasePath)
	cfg.FrontendURL = getEnv("DASHCONV_FRONTEND_URL", cfg.FrontendURL)
	cfg.LogLevel = strings.ToUpper(getEnv("DASHCONV_LOG_LEVEL", cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(getEnv("DASHCONV_LOG_FORMAT", cfg.LogFormat))
	cfg.LayoutStrategy = strings.ToLower(getEnv("DASHCONV_LAYOUT", cfg.LayoutStrategy))
	cfg.MaxUploadMB = getEnvInt("DASHCONV_MAX_UPLOAD_MB", cfg.MaxUploadMB)
	cfg.RequestTimeoutSeconds = getEnvInt("DASHCONV_REQUEST_TIMEOUT_SECONDS", cfg.RequestTimeoutSeconds)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the values set in a TOML file onto cfg
func (c *Config) LoadFile(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	return nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// MaxUploadBytes is the request body limit for classic documents.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// SlogLevel maps LogLevel to a slog level
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
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
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
