package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/blockedby/jobtrends/internal/models"
	"github.com/blockedby/jobtrends/internal/repository"
	"github.com/blockedby/jobtrends/internal/tracker"
	"github.com/blockedby/jobtrends/internal/trends"
)

// ApplicationService defines the tracker operations exposed over HTTP
type ApplicationService interface {
	Create(ctx context.Context, in tracker.CreateInput) (*models.Application, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Application, error)
	List(ctx context.Context, filter repository.ApplicationFilter) ([]*models.Application, error)
	Transition(ctx context.Context, id uuid.UUID, status models.Status, note *string) (*models.Application, error)
	AddNote(ctx context.Context, id uuid.UUID, text string) (*models.Application, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RecordLister supplies the record snapshot the analytics run over
type RecordLister interface {
	List(ctx context.Context, filter repository.ApplicationFilter) ([]*models.Application, error)
}

// MarketProvider supplies live benchmarks, falling back to static ones
type MarketProvider interface {
	LiveBenchmarks(ctx context.Context) trends.MarketBenchmarks
}
