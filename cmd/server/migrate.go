package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"streamflow/cmd/config"
	"streamflow/pkg/database"
	"streamflow/pkg/logger"
)

func newMigrateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := database.OpenAndMigrate(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			log.Info("schema ready", zap.String("database", cfg.Database.Path))
			fmt.Fprintln(cmd.OutOrStdout(), "database migrated:", cfg.Database.Path)
			return nil
		},
	}
}
