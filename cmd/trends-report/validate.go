package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blockedby/jobtrends/internal/export"
)

var errInvalidFiles = errors.New("some files are invalid")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check that export files parse and every record is valid",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			failed := false
			for _, path := range args {
				apps, err := export.Load(path)
				if err != nil {
					fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
					failed = true
					continue
				}

				bad := 0
				for i, app := range apps {
					if err := app.Validate(); err != nil {
						fmt.Fprintf(out, "FAIL %s: record %d (%s): %v\n", path, i, app.ID, err)
						bad++
					}
				}
				if bad > 0 {
					failed = true
					continue
				}
				fmt.Fprintf(out, "ok   %s (%d applications)\n", path, len(apps))
			}

			if failed {
				return errInvalidFiles
			}
			return nil
		},
	}
}
