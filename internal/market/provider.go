package market

import (
	"context"
	"time"

	"github.com/blockedby/jobtrends/internal/logger"
	"github.com/blockedby/jobtrends/internal/metrics"
	"github.com/blockedby/jobtrends/internal/trends"
)

// Provider turns a Source into benchmarks the trends core can use.
type Provider struct {
	source Source
	name   string
	log    *logger.Logger
	now    func() time.Time
}

// NewProvider creates a provider. A nil source always yields static benchmarks.
func NewProvider(source Source, name string, log *logger.Logger) *Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &Provider{
		source: source,
		name:   name,
		log:    log,
		now:    time.Now,
	}
}

// LiveBenchmarks returns benchmarks enriched with the current market reading.
// It never fails: any problem yields trends.StaticMarketBenchmarks.
func (p *Provider) LiveBenchmarks(ctx context.Context) trends.MarketBenchmarks {
	if p == nil || p.source == nil {
		return trends.StaticMarketBenchmarks
	}

	res, err := p.source.Fetch(ctx)

	switch {
	case err != nil:
		metrics.RecordMarketFetch(p.name, metrics.FetchError)
		p.log.Warn().Err(err).Str("source", p.name).Msg("live market data unavailable, using static benchmarks")
	case !res.Usable():
		metrics.RecordMarketFetch(p.name, metrics.FetchUnusable)
		ev := p.log.Warn().Str("source", p.name)
		if res != nil && res.Error != "" {
			ev = ev.Str("upstream_error", res.Error)
		}
		ev.Msg("market source returned no data, using static benchmarks")
	default:
		metrics.RecordMarketFetch(p.name, metrics.FetchSuccess)
		fetchedAt := p.now()
		if res.FetchedAt != nil {
			fetchedAt = *res.FetchedAt
		}
		mb := trends.LiveMarketBenchmarks(*res.Data, fetchedAt)
		p.log.Debug().
			Str("source", p.name).
			Str("condition", string(mb.Condition)).
			Msg("live market benchmarks")
		return mb
	}

	metrics.RecordFallback()
	return trends.StaticMarketBenchmarks
}
