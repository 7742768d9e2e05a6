package cmd

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/imagerepo/internal/config"
	"github.com/templui/imagerepo/internal/db"
)

func MigrateCmd(load ConfigLoader) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(c *cobra.Command, args []string) error {
			return withDB(load(), func(cfg *config.Config, database *sql.DB) error {
				return db.RunMigrations(database, cfg.DBDriver)
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(c *cobra.Command, args []string) error {
			return withDB(load(), func(cfg *config.Config, database *sql.DB) error {
				return db.MigrateDown(database, cfg.DBDriver)
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(c *cobra.Command, args []string) error {
			return withDB(load(), func(cfg *config.Config, database *sql.DB) error {
				version, err := db.Version(database, cfg.DBDriver)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(c.OutOrStdout(), version)
				return err
			})
		},
	})

	return migrateCmd
}

// withDB opens the configured database for the duration of fn
func withDB(cfg *config.Config, fn func(cfg *config.Config, database *sql.DB) error) error {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() { _ = db.Close(database) }()

	return fn(cfg, database.DB)
}
