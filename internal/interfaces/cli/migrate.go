package cli

import (
	"github.com/spf13/cobra"

	"github.com/andrewtarzia/stk/internal/infrastructure/database/postgres"
	"github.com/andrewtarzia/stk/pkg/errors"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			if !cfg.Database.Enabled {
				return errors.New(errors.CodeConfigError, "database is not enabled in configuration")
			}
			if err := postgres.Migrate(cfg.Database); err != nil {
				return err
			}
			printTable([][2]string{{"Migrations", "up to date"}})
			return nil
		},
	}
}
