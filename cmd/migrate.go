package cmd

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"questpath/config"
	"questpath/database"
	"questpath/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the server-side credential table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		slog.SetDefault(logger.New(cfg.Log))

		if cfg.Database.DSN == "" {
			return errors.New("migrate: database.dsn is not set")
		}

		db, err := database.Connect(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.InitDB(cmd.Context(), db); err != nil {
			return err
		}
		slog.Info("migration complete", slog.String("credentials", config.CredentialsPostgres))
		return nil
	},
}
