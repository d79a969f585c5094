package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/financli/pkg/account"
	"github.com/shunichi-ikebuchi/financli/pkg/config"
	"github.com/shunichi-ikebuchi/financli/pkg/db"
	"github.com/shunichi-ikebuchi/financli/pkg/display"
	"github.com/shunichi-ikebuchi/financli/pkg/ledger"
	"github.com/shunichi-ikebuchi/financli/pkg/pathutil"
	"github.com/shunichi-ikebuchi/financli/pkg/registry"
)

// app holds the components every command works with.
type app struct {
	cfg          *config.Config
	pathResolver *pathutil.PathResolver
	settings     *config.Settings
	conn         *db.Connection
	registry     *registry.Registry
	ledger       *ledger.Ledger
	printer      *display.Printer
}

// loadSettings loads configuration and user settings without opening the
// database.
func loadSettings() (*config.Config, *pathutil.PathResolver, *config.Settings) {
	// Load configuration
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	// Validate required fields
	if err := cfg.Validate([]string{"storage", "home"}); err != nil {
		exitOnError(err, "invalid configuration")
	}

	// Initialize PathResolver
	pathResolver := pathutil.New(pathutil.Config{
		Home:         cfg.Storage.Home,
		DatabasePath: cfg.Storage.DBPath,
		SettingsPath: cfg.Storage.SettingsPath,
		ExportDir:    cfg.Storage.ExportDir,
	})

	err = pathResolver.EnsureDir(pathResolver.GetHome())
	exitOnError(err, "failed to create data directory")

	settings, err := config.LoadSettings(pathResolver.GetSettingsPath())
	exitOnError(err, "failed to load settings")
	cfg.ApplyTo(settings)

	return cfg, pathResolver, settings
}

// openApp loads configuration and opens the database. Callers must Close
// the returned app.
func openApp(cmd *cobra.Command) *app {
	cfg, pathResolver, settings := loadSettings()

	// Open database connection
	dbPath := pathResolver.GetDatabasePath()
	slog.Debug("Opening database", "path", dbPath)
	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")

	opts := account.Options{CurrencySymbol: settings.CurrencySymbol}
	reg, err := registry.New(conn, opts)
	exitOnError(err, "failed to initialize account types")

	l, err := ledger.New(conn, reg)
	exitOnError(err, "failed to initialize transaction log")

	return &app{
		cfg:          cfg,
		pathResolver: pathResolver.WithExportDir(settings.ExportPath),
		settings:     settings,
		conn:         conn,
		registry:     reg,
		ledger:       l,
		printer:      display.New(cmd.OutOrStdout(), opts),
	}
}

// Close closes the database.
func (a *app) Close() {
	if err := a.conn.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

// policy returns the policy for a type flag value.
func (a *app) policy(typeName string) account.Policy {
	t, err := account.ParseType(typeName)
	exitOnError(err, "invalid account type")

	p, err := a.registry.Policy(t)
	exitOnError(err, "invalid account type")
	return p
}
