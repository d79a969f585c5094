// Package pathutil provides centralized path management for the ledger
// database, the settings file and export files.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExportTimeLayout prefixes export file names.
const ExportTimeLayout = "2006-01-02-15-04"

// PathResolver manages paths for the database, settings and exports.
type PathResolver struct {
	home         string
	databasePath string
	settingsPath string
	exportDir    string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// Home is the data directory (e.g., ~/.local/share/financli)
	Home string
	// DatabasePath is the path to the SQLite ledger file
	DatabasePath string
	// SettingsPath is the path to the YAML settings file
	SettingsPath string
	// ExportDir is where export files are written
	ExportDir string
}

// New creates a new PathResolver with the given configuration.
// If DatabasePath is empty, it defaults to {Home}/financli.db
// If SettingsPath is empty, it defaults to {Home}/settings.yaml
// If ExportDir is empty, it defaults to {Home}/exports
func New(config Config) *PathResolver {
	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(config.Home, "financli.db")
	}

	settingsPath := config.SettingsPath
	if settingsPath == "" {
		settingsPath = filepath.Join(config.Home, "settings.yaml")
	}

	exportDir := config.ExportDir
	if exportDir == "" {
		exportDir = filepath.Join(config.Home, "exports")
	}

	return &PathResolver{
		home:         config.Home,
		databasePath: dbPath,
		settingsPath: settingsPath,
		exportDir:    exportDir,
	}
}

// WithExportDir returns a copy of the resolver writing exports to dir.
// An empty dir keeps the current export directory.
func (p *PathResolver) WithExportDir(dir string) *PathResolver {
	clone := *p
	if dir != "" {
		clone.exportDir = dir
	}
	return &clone
}

// GetHome returns the data directory.
func (p *PathResolver) GetHome() string {
	return p.home
}

// GetDatabasePath returns the database file path.
func (p *PathResolver) GetDatabasePath() string {
	return p.databasePath
}

// GetSettingsPath returns the settings file path.
func (p *PathResolver) GetSettingsPath() string {
	return p.settingsPath
}

// GetExportDir returns the export directory.
func (p *PathResolver) GetExportDir() string {
	return p.exportDir
}

// GetExportFilePath returns the file path for an export of one table.
// Example: exports/2024-01-31-18-05-credit_card_accounts.csv
func (p *PathResolver) GetExportFilePath(name, format string, at time.Time) (string, error) {
	name = strings.Join(strings.Fields(strings.ToLower(name)), "_")
	if name == "" {
		return "", fmt.Errorf("export name is required")
	}
	format = strings.TrimPrefix(strings.ToLower(format), ".")
	if format == "" {
		return "", fmt.Errorf("export format is required")
	}

	filename := fmt.Sprintf("%s-%s_accounts.%s", at.Format(ExportTimeLayout), name, format)
	return filepath.Join(p.exportDir, filename), nil
}

// EnsureDir creates a directory if it doesn't exist.
// It creates all parent directories as needed (like mkdir -p).
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// FileExists checks if a file exists.
func (p *PathResolver) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}

// IsDir checks if a path is a directory.
func (p *PathResolver) IsDir(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}
