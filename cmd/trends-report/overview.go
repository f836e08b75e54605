package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/blockedby/jobtrends/internal/export"
	"github.com/blockedby/jobtrends/internal/market"
	"github.com/blockedby/jobtrends/internal/models"
	"github.com/blockedby/jobtrends/internal/report"
	"github.com/blockedby/jobtrends/internal/repository"
	"github.com/blockedby/jobtrends/internal/trends"
)

type overviewOptions struct {
	file      string
	fromStore bool
	rng       string
	tz        string
	format    string
	company   string
	status    string
	marketURL string
	noColor   bool
}

func newOverviewCmd(a *app) *cobra.Command {
	opts := &overviewOptions{}

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Print every trend view for a range",
		Long: `Compute the time series, velocity, response times, success probability
and benchmarks for the selected range.

Examples:
  trends-report overview -f applications.json
  trends-report overview -f applications.yaml --range all --company acme
  trends-report overview --from-store --market-url https://labor.example.com/indicators`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runOverview(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "export file to read (.json, .yaml or .yml)")
	f.BoolVar(&opts.fromStore, "from-store", false, "read records from the configured store")
	f.StringVarP(&opts.rng, "range", "r", string(trends.DefaultRange), "range: 7d, 30d, 90d or all")
	f.StringVar(&opts.tz, "tz", "Local", "time zone for calendar buckets")
	f.StringVarP(&opts.format, "format", "o", string(report.FormatTable), "output format: table or json")
	f.StringVar(&opts.company, "company", "", "only records for this company")
	f.StringVar(&opts.status, "status", "", "only records in this status")
	f.StringVar(&opts.marketURL, "market-url", "", "labor market endpoint for live benchmarks")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colors")
	cmd.MarkFlagsMutuallyExclusive("file", "from-store")
	cmd.MarkFlagsOneRequired("file", "from-store")

	return cmd
}

func (a *app) runOverview(cmd *cobra.Command, opts *overviewOptions) error {
	rng, err := trends.ParseRange(opts.rng)
	if err != nil {
		return err
	}
	loc, err := time.LoadLocation(opts.tz)
	if err != nil {
		return fmt.Errorf("load time zone: %w", err)
	}

	filter := repository.ApplicationFilter{Company: opts.company}
	if opts.status != "" {
		filter.Status = models.Status(opts.status)
		if !filter.Status.Valid() {
			return fmt.Errorf("%w: %q", models.ErrInvalidStatus, opts.status)
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	records, err := a.loadRecords(ctx, opts, filter)
	if err != nil {
		return err
	}
	a.log.Debug().Int("records", len(records)).Str("range", string(rng)).Msg("computing overview")

	mb := trends.StaticMarketBenchmarks
	if opts.marketURL != "" {
		src := market.NewHTTPSource(opts.marketURL, &http.Client{Timeout: 15 * time.Second}, market.DefaultRateLimiter())
		mb = market.NewProvider(src, "labor-market", a.log).LiveBenchmarks(ctx)
	}

	o := trends.BuildOverview(records, rng, time.Now().In(loc), mb)

	out := cmd.OutOrStdout()
	return report.NewPrinter(out, !opts.noColor && isTerminal(out)).Print(o, report.Format(opts.format))
}

func (a *app) loadRecords(ctx context.Context, opts *overviewOptions, filter repository.ApplicationFilter) ([]*models.Application, error) {
	if opts.fromStore {
		s, closeFn, err := a.openStore(ctx)
		if err != nil {
			return nil, err
		}
		defer closeFn()
		return s.List(ctx, filter)
	}

	if opts.file == "" {
		return nil, errors.New("an export file or --from-store is required")
	}
	all, err := export.Load(opts.file)
	if err != nil {
		return nil, err
	}

	records := make([]*models.Application, 0, len(all))
	for _, rec := range all {
		if filter.Matches(rec) {
			records = append(records, rec)
		}
	}
	return records, nil
}
