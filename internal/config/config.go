package config

import "time"

// Config holds bot configuration values.
type Config struct {
	LogLevel        string        `mapstructure:"log_level" yaml:"log_level"`
	BotToken        string        `mapstructure:"bot_token" yaml:"bot_token"`
	TelegramAPIBase string        `mapstructure:"telegram_api_base" yaml:"telegram_api_base"`
	RequiredGroup   string        `mapstructure:"required_group" yaml:"required_group"`
	JoinLink        string        `mapstructure:"join_link" yaml:"join_link"`
	LookupBaseURL   string        `mapstructure:"lookup_base_url" yaml:"lookup_base_url"`
	LookupTimeout   time.Duration `mapstructure:"lookup_timeout" yaml:"lookup_timeout"`
	PollTimeout     time.Duration `mapstructure:"poll_timeout" yaml:"poll_timeout"`
	SessionTTL      time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
	StatusAddr      string        `mapstructure:"status_addr" yaml:"status_addr"`
	DatabasePath    string        `mapstructure:"database_path" yaml:"database_path"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns configuration with reasonable starter defaults.
// BotToken has no default; it must come from the config file or env.
func Default() Config {
	return Config{
		LogLevel:        "info",
		TelegramAPIBase: "https://api.telegram.org",
		RequiredGroup:   "@aybeechannel",
		LookupBaseURL:   "https://api.isan.eu.org/nickname",
		LookupTimeout:   10 * time.Second,
		PollTimeout:     30 * time.Second,
		SessionTTL:      24 * time.Hour,
		StatusAddr:      ":8080",
		DatabasePath:    "nickbot.db",
		ShutdownTimeout: 5 * time.Second,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.BotToken != "" {
		c.BotToken = other.BotToken
	}
	if other.TelegramAPIBase != "" {
		c.TelegramAPIBase = other.TelegramAPIBase
	}
	if other.RequiredGroup != "" {
		c.RequiredGroup = other.RequiredGroup
	}
	if other.JoinLink != "" {
		c.JoinLink = other.JoinLink
	}
	if other.LookupBaseURL != "" {
		c.LookupBaseURL = other.LookupBaseURL
	}
	if other.LookupTimeout != 0 {
		c.LookupTimeout = other.LookupTimeout
	}
	if other.PollTimeout != 0 {
		c.PollTimeout = other.PollTimeout
	}
	if other.SessionTTL != 0 {
		c.SessionTTL = other.SessionTTL
	}
	if other.StatusAddr != "" {
		c.StatusAddr = other.StatusAddr
	}
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
}
