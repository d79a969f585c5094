package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings are the user preferences kept in the settings file.
type Settings struct {
	CurrencySymbol string `yaml:"currency_symbol"`
	ExportPath     string `yaml:"export_path"`
}

// DefaultSettings returns the settings written on first run.
func DefaultSettings() Settings {
	return Settings{CurrencySymbol: "£"}
}

var settingKeys = map[string]func(*Settings) *string{
	"currency_symbol": func(s *Settings) *string { return &s.CurrencySymbol },
	"export_path":     func(s *Settings) *string { return &s.ExportPath },
}

// SettingKeys returns the keys accepted by Get and Set.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingKeys))
	for k := range settingKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadSettings reads the settings file at path. A missing file is created
// with the defaults.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s := DefaultSettings()
		if err := s.Save(path); err != nil {
			return nil, err
		}
		return &s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}
	if s.CurrencySymbol == "" {
		s.CurrencySymbol = DefaultSettings().CurrencySymbol
	}
	return &s, nil
}

// Save writes the settings to path, creating its directory if needed.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// Get returns the value of a setting.
func (s *Settings) Get(key string) (string, error) {
	field, ok := settingKeys[key]
	if !ok {
		return "", unknownKey(key)
	}
	return *field(s), nil
}

// Set changes one setting. The currency symbol may not be blank.
func (s *Settings) Set(key, value string) error {
	field, ok := settingKeys[key]
	if !ok {
		return unknownKey(key)
	}
	value = strings.TrimSpace(value)
	if key == "currency_symbol" && value == "" {
		return fmt.Errorf("currency_symbol cannot be empty")
	}
	*field(s) = value
	return nil
}

func unknownKey(key string) error {
	return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(SettingKeys(), ", "))
}
