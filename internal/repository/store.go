// Package repository persists application records in Postgres or a local
// SQLite file.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/blockedby/jobtrends/internal/models"
)

// ErrNotFound is returned by Update and Delete when the record does not exist.
var ErrNotFound = errors.New("application not found")

// ApplicationStore is the single writer of application records.
// GetByID returns nil, nil when the record is missing.
type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ApplicationFilter narrows List. Zero values match everything.
type ApplicationFilter struct {
	Status  models.Status
	Company string
	Since   *time.Time
}

// Matches reports whether app passes the filter.
func (f ApplicationFilter) Matches(app *models.Application) bool {
	if app == nil {
		return false
	}
	if f.Status != "" && app.Status != f.Status {
		return false
	}
	if f.Company != "" && !strings.EqualFold(strings.TrimSpace(app.Company), strings.TrimSpace(f.Company)) {
		return false
	}
	if f.Since != nil && app.CreatedAt.Before(*f.Since) {
		return false
	}
	return true
}

// DBTX is the subset of pgx shared by *pgxpool.Pool, pgx.Tx and pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
