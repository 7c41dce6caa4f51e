package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/idlesession/integration/activitystore/pgstore"
	"github.com/dmitrymomot/idlesession/integration/database/pg"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply PostgreSQL migrations for the activity table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		pool, err := pg.Connect(cmd.Context(), cfg.DB)
		if err != nil {
			return err
		}
		defer pool.Close()

		return pg.Migrate(cmd.Context(), pool, pgstore.Migrations, cfg.DB, log)
	},
}
