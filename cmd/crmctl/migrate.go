package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/travel-crm/internal/persistence"
)

func newMigrateCmd(app *cli) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the SQL migrations to Postgres",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				dir = app.cfg.Postgres.MigrationsDir
			}
			pg, err := persistence.NewPostgres(cmd.Context(), app.cfg.Postgres, app.logger)
			if err != nil {
				return err
			}
			defer pg.Close()

			applied, err := persistence.RunMigrations(cmd.Context(), pg.Pool, dir, app.logger)
			if err != nil {
				return err
			}
			for _, name := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migration(s) applied\n", len(applied))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "migrations directory (defaults to MIGRATIONS_DIR)")
	return cmd
}
