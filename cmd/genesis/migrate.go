package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/genesisgates/genesis/cmd"
	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/db/migrate"
	"github.com/spf13/cobra"
)

var rollback bool

var migrateCmd = &cobra.Command{
	Use:                "migrate",
	Short:              "Migrate the database to the latest version",
	Args:               cobra.NoArgs,
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
	RunE: func(c *cobra.Command, _ []string) error {
		ctx := c.Context()
		dbx := db.FromContext(ctx)
		if rollback {
			if err := migrate.Rollback(ctx, dbx); err != nil {
				return fmt.Errorf("rollback: %w", err)
			}
			return nil
		}

		n, err := migrate.Migrate(ctx, dbx)
		if err != nil {
			return fmt.Errorf("migration: %w", err)
		}

		log.FromContext(ctx).Info("database migrated", "applied", n)
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&rollback, "rollback", false, "roll back the latest migration instead")
}
