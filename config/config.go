// Package config loads the terminal configuration from a YAML or JSON
// file with environment variable overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the complete terminal configuration
type Config struct {
	Paper    bool          `json:"paper" yaml:"paper"`
	Server   ServerConfig  `json:"server" yaml:"server"`
	Neo      NeoConfig     `json:"neo" yaml:"neo"`
	Risk     RiskConfig    `json:"risk" yaml:"risk"`
	Journal  JournalConfig `json:"journal" yaml:"journal"`
	LogLevel string        `json:"log_level" yaml:"log_level"`
}

// ServerConfig contains the HTTP server parameters
type ServerConfig struct {
	Host       string `json:"host" yaml:"host"`
	Port       int    `json:"port" yaml:"port"`
	CORSOrigin string `json:"cors_origin" yaml:"cors_origin"`
}

// Addr is the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// NeoConfig contains the broker connection parameters. The session
// token comes from an already completed login; the terminal never
// performs the authentication flow itself.
type NeoConfig struct {
	BaseURL      string `json:"base_url" yaml:"base_url"`
	SessionToken string `json:"session_token" yaml:"session_token"`
	FeedURL      string `json:"feed_url" yaml:"feed_url"`
}

// RiskConfig contains the order validation limits; a zero limit
// disables that check
type RiskConfig struct {
	MaxOrderValue   float64 `json:"max_order_value" yaml:"max_order_value"`
	MaxDailyLoss    float64 `json:"max_daily_loss" yaml:"max_daily_loss"`
	MaxPositionSize int64   `json:"max_position_size" yaml:"max_position_size"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "sqlite", "csv", or "none"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	OrdersFile string `json:"orders_file,omitempty" yaml:"orders_file,omitempty"`
	FillsFile  string `json:"fills_file,omitempty" yaml:"fills_file,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML), applies
// environment overrides, and validates the result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load returns the default configuration with environment overrides,
// for running without a config file.
func Load() (*Config, error) {
	cfg := Default()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv lets the environment override file values, so a session
// token never has to live on disk.
func (c *Config) applyEnv() {
	if v := os.Getenv("PAPER_TRADING"); v != "" {
		c.Paper = v == "true" || v == "1"
	}
	if v := os.Getenv("TERMINAL_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("TERMINAL_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("TERMINAL_CORS_ORIGIN"); v != "" {
		c.Server.CORSOrigin = v
	}
	if v := os.Getenv("TERMINAL_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("NEO_BASE_URL"); v != "" {
		c.Neo.BaseURL = v
	}
	if v := os.Getenv("NEO_SESSION_TOKEN"); v != "" {
		c.Neo.SessionToken = v
	}
	if v := os.Getenv("NEO_FEED_URL"); v != "" {
		c.Neo.FeedURL = v
	}
	if v := os.Getenv("MAX_ORDER_VALUE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Risk.MaxOrderValue = f
		}
	}
	if v := os.Getenv("MAX_DAILY_LOSS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Risk.MaxDailyLoss = f
		}
	}
	if v := os.Getenv("MAX_POSITION_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Risk.MaxPositionSize = n
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if !c.Paper && c.Neo.SessionToken == "" {
		return fmt.Errorf("neo.session_token is required in live mode")
	}
	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite type")
		}
	case "csv":
		if c.Journal.OrdersFile == "" || c.Journal.FillsFile == "" {
			return fmt.Errorf("journal orders_file and fills_file required for csv type")
		}
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv', or 'none'")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error")
	}
	if c.Risk.MaxOrderValue < 0 || c.Risk.MaxDailyLoss < 0 || c.Risk.MaxPositionSize < 0 {
		return fmt.Errorf("risk limits must not be negative")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Paper: true,
		Server: ServerConfig{
			Host:       "0.0.0.0",
			Port:       8000,
			CORSOrigin: "*",
		},
		Neo: NeoConfig{
			BaseURL: "https://gw-napi.kotaksecurities.com",
			FeedURL: "wss://mlhsm.kotaksecurities.com",
		},
		Risk: RiskConfig{
			MaxOrderValue:   500000,
			MaxDailyLoss:    25000,
			MaxPositionSize: 1000,
		},
		Journal:  JournalConfig{Type: "none"},
		LogLevel: "info",
	}
}
