package main

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/blockedby/jobtrends/internal/config"
	"github.com/blockedby/jobtrends/internal/logger"
	"github.com/blockedby/jobtrends/internal/repository"
	"github.com/blockedby/jobtrends/internal/store"
)

// app carries state shared by every subcommand.
type app struct {
	verbose bool
	log     *logger.Logger

	// openStore and openMigrator are replaced in tests.
	openStore    func(ctx context.Context) (repository.ApplicationStore, func(), error)
	openMigrator func() (schemaMigrator, string, error)
}

func newApp() *app {
	a := &app{log: logger.Nop()}
	a.openStore = a.storeFromConfig
	a.openMigrator = a.migratorFromConfig
	return a
}

func newRootCmd(version string, a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "trends-report",
		Short: "Job application trends from the command line",
		Long: `trends-report computes velocity, response times, success probability and
benchmarks over tracked job applications.

Example usage:
  trends-report overview --file applications.yaml --range 90d
  trends-report overview --from-store --market-url https://labor.example.com/indicators --format json
  trends-report export --out backup.json
  trends-report import --in backup.json
  trends-report validate backup.json archive.yaml
  trends-report migrate version`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := zerolog.WarnLevel
			if a.verbose {
				level = zerolog.DebugLevel
			}
			a.log = logger.NewWriter(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}, level)
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(newOverviewCmd(a), newExportCmd(a), newImportCmd(a), newValidateCmd(), newMigrateCmd(a))
	return root
}

// storeFromConfig opens the store described by the environment.
func (a *app) storeFromConfig(ctx context.Context) (repository.ApplicationStore, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return store.Open(ctx, cfg, a.log)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
