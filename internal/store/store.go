// Package store opens the application store selected by configuration.
package store

import (
	"context"
	"fmt"

	"github.com/blockedby/jobtrends/internal/config"
	"github.com/blockedby/jobtrends/internal/database"
	"github.com/blockedby/jobtrends/internal/logger"
	"github.com/blockedby/jobtrends/internal/migrator"
	"github.com/blockedby/jobtrends/internal/repository"
	"github.com/blockedby/jobtrends/migrations"
)

// Open builds the store for cfg.StoreDriver and returns a cleanup func.
// Postgres-backed drivers run pending migrations first.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.ApplicationStore, func(), error) {
	if log == nil {
		log = logger.Nop()
	}

	switch cfg.StoreDriver {
	case config.DriverPostgres, config.DriverGorm:
		m, err := migrator.NewWithFS(migrations.FS)
		if err != nil {
			return nil, nil, err
		}
		if err := m.Up(ctx, cfg.DatabaseURL); err != nil {
			return nil, nil, err
		}

		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}

		if cfg.StoreDriver == config.DriverPostgres {
			return repository.NewApplicationsRepository(db.Pool, log.Component("applications-repo")), db.Close, nil
		}

		s, err := repository.NewGormStore(db.GORM, log.Component("gorm-store"))
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, db.Close, nil

	case config.DriverSQLite:
		db, err := database.OpenLocal(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}

		s, err := repository.NewGormStore(db, log.Component("sqlite-store"))
		if err != nil {
			_ = database.CloseLocal(db)
			return nil, nil, err
		}
		return s, func() { _ = database.CloseLocal(db) }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
