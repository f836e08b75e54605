package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/blockedby/jobtrends/internal/config"
	"github.com/blockedby/jobtrends/internal/logger"
	"github.com/blockedby/jobtrends/internal/market"
	"github.com/blockedby/jobtrends/internal/nats"
	"github.com/blockedby/jobtrends/internal/publisher"
	"github.com/blockedby/jobtrends/internal/store"
	"github.com/blockedby/jobtrends/internal/tracker"
	"github.com/blockedby/jobtrends/internal/web"
	"github.com/blockedby/jobtrends/internal/web/handlers"
)

// eventRetention is how long the applications stream keeps events.
const eventRetention = 30 * 24 * time.Hour

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// 2. Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	log := logger.Get()
	log.Info().Str("store", cfg.StoreDriver).Msg("starting trends api")

	// 3. Setup context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 4. Open the application store
	apps, closeStore, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open application store")
	}
	defer closeStore()

	// 5. Connect to NATS (optional)
	var pub tracker.EventPublisher
	if cfg.NatsURL != "" {
		nc, err := nats.New(ctx, cfg.NatsURL)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to nats, publishing disabled")
		} else {
			defer nc.Close()
			if err := nc.EnsureStream(ctx, publisher.StreamName, publisher.Subjects, eventRetention); err != nil {
				log.Warn().Err(err).Msg("failed to ensure event stream")
			}
			pub = publisher.NewNATSPublisher(nc.Conn)
		}
	}

	// 6. Live market data (optional)
	var provider *market.Provider
	if cfg.MarketDataURL != "" {
		var src market.Source = market.NewHTTPSource(
			cfg.MarketDataURL,
			&http.Client{Timeout: 15 * time.Second},
			market.NewRateLimiter(cfg.MarketRPS, 1),
		)
		if cfg.RedisAddr != "" {
			rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			defer rdb.Close()
			if err := rdb.Ping(ctx).Err(); err != nil {
				log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, market cache degraded")
			}
			src = market.NewCachedSource(src, rdb, cfg.MarketCacheTTL, log.Component("market-cache"))
		}
		provider = market.NewProvider(src, "labor-market", log.Component("market"))
	}

	// 7. Initialize services and handlers
	svc := tracker.NewService(apps, pub, log.Component("tracker"))

	var marketProvider handlers.MarketProvider
	if provider != nil {
		marketProvider = provider
	}

	server := web.NewServer(&web.Config{
		Port:        cfg.HTTPPort,
		CORSOrigins: cfg.CORSOrigins,
	})
	server.RegisterApplicationsHandler(handlers.NewApplicationsHandler(svc))
	server.RegisterTrendsHandler(handlers.NewTrendsHandler(svc, marketProvider))
	server.RegisterBenchmarksHandler(handlers.NewBenchmarksHandler(marketProvider))

	// 8. Start Server
	log.Info().Int("port", cfg.HTTPPort).Msg("starting web server")
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// 9. Wait for shutdown
	<-ctx.Done()
	log.Info().Msg("shutting down services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	log.Info().Msg("shutdown complete")
}
