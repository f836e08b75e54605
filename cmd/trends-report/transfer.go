package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blockedby/jobtrends/internal/export"
	"github.com/blockedby/jobtrends/internal/repository"
)

func newExportCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored application to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, closeFn, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			apps, err := s.List(cmd.Context(), repository.ApplicationFilter{})
			if err != nil {
				return err
			}
			if err := export.Write(out, apps); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported %d applications to %s\n", len(apps), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "applications.json", "destination file (.json, .yaml or .yml)")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load applications from a file into the store",
		Long: `Load applications from an export file. Records whose ID is already
stored are skipped, so importing the same file twice is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			apps, err := export.Load(in)
			if err != nil {
				return err
			}

			s, closeFn, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			imported, skipped := 0, 0
			for _, app := range apps {
				if err := app.Validate(); err != nil {
					a.log.Warn().Err(err).Str("id", app.ID.String()).Msg("skipping invalid application")
					skipped++
					continue
				}
				existing, err := s.GetByID(cmd.Context(), app.ID)
				if err != nil {
					return err
				}
				if existing != nil {
					skipped++
					continue
				}
				if err := s.Create(cmd.Context(), app); err != nil {
					return fmt.Errorf("import %s: %w", app.ID, err)
				}
				imported++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d applications, skipped %d\n", imported, skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "export file to read")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
