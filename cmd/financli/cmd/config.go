package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/financli/pkg/config"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change user settings",
	Long: `Show or change the settings kept in the settings file.

Keys: ` + strings.Join(config.SettingKeys(), ", ") + `

Example:
  financli config list
  financli config set currency_symbol $`,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, _, settings := loadSettings()
		for _, key := range config.SettingKeys() {
			value, err := settings.Get(key)
			exitOnError(err, "failed to read setting")
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", key, value)
		}
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, _, settings := loadSettings()
		value, err := settings.Get(args[0])
		exitOnError(err, "failed to read setting")
		fmt.Fprintln(cmd.OutOrStdout(), value)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		_, pathResolver, _ := loadSettings()

		// Reload without environment overrides so they are not persisted.
		settings, err := config.LoadSettings(pathResolver.GetSettingsPath())
		exitOnError(err, "failed to load settings")

		exitOnError(settings.Set(args[0], args[1]), "invalid setting")
		exitOnError(settings.Save(pathResolver.GetSettingsPath()), "failed to save settings")

		slog.Info("Updated setting", "key", args[0], "path", pathResolver.GetSettingsPath())
		fmt.Fprintf(cmd.OutOrStdout(), "%s set to %s\n", args[0], strings.TrimSpace(args[1]))
	},
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
