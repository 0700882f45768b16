package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g.
// MAILKIT_MAILERLITE_API_KEY for mailerlite.api_key.
const EnvPrefix = "MAILKIT"

// Load loads the configuration from file and environment. A .env file in
// the working directory is read first when present; it never overrides
// variables that are already set. When configPath is empty a missing config
// file is not an error, so the environment alone can configure everything.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// keys without a default are invisible to Unmarshal unless bound
	if err := v.BindEnv("mailerlite.api_key", EnvPrefix+"_MAILERLITE_API_KEY", "MAILERLITE_API_KEY"); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".mailkit"))
		}

		// Check /etc
		v.AddConfigPath("/etc/mailkit/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			// nothing in the search paths; the environment may be enough
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("config file not found: %w", err)
		default:
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// MailerLite defaults
	v.SetDefault("mailerlite.url", "https://connect.mailerlite.com/api")
	v.SetDefault("mailerlite.timeout", 30)
	v.SetDefault("mailerlite.metrics", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.MailerLite.APIKey == "" || cfg.MailerLite.APIKey == "your-api-key-here" {
		return fmt.Errorf("mailerlite.api_key must be set to a valid API key")
	}

	u, err := url.Parse(cfg.MailerLite.URL)
	if cfg.MailerLite.URL == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("mailerlite.url must be an absolute http(s) URL, got %q", cfg.MailerLite.URL)
	}

	if cfg.MailerLite.Timeout <= 0 {
		return fmt.Errorf("mailerlite.timeout must be a positive number of seconds")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	for name, expression := range cfg.Filter {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filter %s has an empty expression", name)
		}
	}

	return nil
}
