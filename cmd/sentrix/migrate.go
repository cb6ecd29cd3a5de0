package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sentrix/internal/infrastructure/storage/postgres"
	"sentrix/internal/pkg/logger"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := postgres.New(cmd.Context(), postgres.Options{
				URL:      a.cfg.Database.URL,
				MaxConns: 2,
			}, logger.Named("postgres"))
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			applied, err := db.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), "applied", v)
			}
			return nil
		},
	}
}
