package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/classroll/attendance-tracker/config"
	"github.com/classroll/attendance-tracker/internal/infrastructure/persistence/postgres"
	"github.com/classroll/attendance-tracker/pkg/logger"
	"github.com/classroll/attendance-tracker/pkg/timeutil"
)

func newMigrateCmd() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply (or roll back) the PostgreSQL schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Storage.Backend != config.BackendPostgres {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing to migrate for the %s backend.\n", cfg.Storage.Backend)
				return nil
			}

			a := &app{cfg: cfg, log: newLogger(cfg), clock: timeutil.NewClock(cfg.App.Location)}
			defer a.Close()

			conn, err := a.connectPostgres(ctx)
			if err != nil {
				return err
			}

			migrator := postgres.NewMigrator(conn)
			if down {
				err = migrator.Rollback(ctx)
			} else {
				err = migrator.Migrate(ctx)
			}
			if err != nil {
				a.log.Error("migration failed", logger.Err(err))
				return err
			}

			status, err := migrator.Status(ctx)
			if err != nil {
				return err
			}
			for _, m := range status {
				state := "pending"
				if m.IsApplied {
					state = "applied " + m.AppliedAt.Format(timeutil.FormatDateTime)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%03d %-32s %s\n", m.Version, m.Name, state)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll back the last applied migration")
	return cmd
}
