package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	MailerLite MailerLiteConfig `mapstructure:"mailerlite"`
	Filter     FilterConfig     `mapstructure:"filter"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// MailerLiteConfig holds the API connection details
type MailerLiteConfig struct {
	APIKey  string `mapstructure:"api_key"`
	URL     string `mapstructure:"url"`
	Timeout int    `mapstructure:"timeout"` // seconds
	Metrics bool   `mapstructure:"metrics"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c MailerLiteConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// FilterConfig maps a name to a filter expression, usable as --filter <name>
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
