package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blockedby/jobtrends/internal/config"
	"github.com/blockedby/jobtrends/internal/migrator"
	"github.com/blockedby/jobtrends/migrations"
)

// schemaMigrator is the part of migrator.Migrator the migrate commands use.
type schemaMigrator interface {
	Up(ctx context.Context, databaseURL string) error
	Down(ctx context.Context, databaseURL string) error
	Version(ctx context.Context, databaseURL string) (uint, bool, error)
}

var errDownNeedsForce = errors.New("migrate down drops every table; pass --force to continue")

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema of the application store",
		Long: `Apply, roll back or inspect the embedded schema migrations against
DATABASE_URL. Only the postgres and gorm store drivers use migrations.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, url, err := a.openMigrator()
				if err != nil {
					return err
				}
				if err := m.Up(cmd.Context(), url); err != nil {
					return err
				}
				return printVersion(cmd, m, url)
			},
		},
		newMigrateDownCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, url, err := a.openMigrator()
				if err != nil {
					return err
				}
				return printVersion(cmd, m, url)
			},
		},
	)
	return cmd
}

func newMigrateDownCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				return errDownNeedsForce
			}
			m, url, err := a.openMigrator()
			if err != nil {
				return err
			}
			if err := m.Down(cmd.Context(), url); err != nil {
				return err
			}
			return printVersion(cmd, m, url)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm dropping the schema")
	return cmd
}

func printVersion(cmd *cobra.Command, m schemaMigrator, url string) error {
	version, dirty, err := m.Version(cmd.Context(), url)
	if err != nil {
		return err
	}
	state := ""
	if dirty {
		state = " (dirty)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d%s\n", version, state)
	return nil
}

// migratorFromConfig builds a migrator for the configured database.
func (a *app) migratorFromConfig() (schemaMigrator, string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", err
	}
	if cfg.StoreDriver == config.DriverSQLite {
		return nil, "", fmt.Errorf("store driver %q has no migrations", cfg.StoreDriver)
	}

	m, err := migrator.NewWithFS(migrations.FS)
	if err != nil {
		return nil, "", err
	}
	return m, cfg.DatabaseURL, nil
}
