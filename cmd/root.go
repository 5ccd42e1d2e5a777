package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"questpath/config"
)

var rootCmd = &cobra.Command{
	Use:          "questpath",
	Short:        "QuestPath learning dashboard",
	Long:         "QuestPath serves the gamified learning dashboard in front of the QuestPath API.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", os.Getenv("QUESTPATH_CONFIG"), "Path to TOML config file (overrides QUESTPATH_CONFIG env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the file named by --config; without one, defaults
// and QUESTPATH_* variables apply.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}
