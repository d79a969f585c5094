// Package config provides configuration management for financli.
// It loads configuration from environment variables and .env files, and
// user settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Storage  StorageConfig
	Currency string
	Debug    bool
}

// StorageConfig represents where financli keeps its files.
type StorageConfig struct {
	Home         string
	DBPath       string
	SettingsPath string
	ExportDir    string
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	// Load .env file
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	config := &Config{
		Storage: StorageConfig{
			Home:         getEnvOrDefault("FINANCLI_HOME", defaultHome()),
			DBPath:       os.Getenv("FINANCLI_DB_PATH"),
			SettingsPath: os.Getenv("FINANCLI_SETTINGS_PATH"),
			ExportDir:    os.Getenv("FINANCLI_EXPORT_DIR"),
		},
		Currency: os.Getenv("FINANCLI_CURRENCY"),
		Debug:    os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate validates the configuration.
// It checks if all required fields are set.
func (c *Config) Validate(required ...[]string) error {
	var missing []string

	for _, path := range required {
		if len(path) == 0 {
			continue
		}

		var value string
		switch path[0] {
		case "storage":
			if len(path) < 2 {
				continue
			}
			switch path[1] {
			case "home":
				value = c.Storage.Home
			case "dbPath":
				value = c.Storage.DBPath
			case "settingsPath":
				value = c.Storage.SettingsPath
			case "exportDir":
				value = c.Storage.ExportDir
			}
		case "currency":
			value = c.Currency
		}

		if value == "" {
			missing = append(missing, strings.Join(path, "."))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}

	return nil
}

// ApplyTo overrides settings with values set in the environment.
func (c *Config) ApplyTo(s *Settings) {
	if c.Currency != "" {
		s.CurrencySymbol = c.Currency
	}
}

// defaultHome returns ~/.local/share/financli, or a directory under the
// working directory when the home directory is unknown.
func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".financli"
	}
	return filepath.Join(home, ".local", "share", "financli")
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
