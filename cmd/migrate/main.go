package main

import (
	"fmt"
	"os"

	"pro5/backend/config"
	"pro5/backend/database"
	"pro5/backend/logging"

	"github.com/spf13/cobra"
)

var configPath string

var migrateCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Apply pending migrations to the local mirror database",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		logger, err := logging.New(cfg.Logging.Level, cfg.IsDevelopment())
		if err != nil {
			return err
		}
		defer logger.Sync()

		// InitDB applies the migrations.
		if err := database.InitDB(cfg.Database.Path, logger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		defer database.DB.Close()

		fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed successfully!")
		return nil
	},
}

func main() {
	migrateCmd.Flags().StringVarP(&configPath, "config", "c", "pro5.yaml", "path to the YAML configuration file")
	if err := migrateCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
