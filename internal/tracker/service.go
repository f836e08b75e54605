// Package tracker is the write path for application records: every mutation
// is persisted first and then announced as an ApplicationEvent.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/blockedby/jobtrends/internal/logger"
	"github.com/blockedby/jobtrends/internal/metrics"
	"github.com/blockedby/jobtrends/internal/models"
	"github.com/blockedby/jobtrends/internal/repository"
)

// ErrNotFound is returned when the application does not exist.
var ErrNotFound = errors.New("application not found")

// CreateInput holds the fields accepted when tracking a new application.
type CreateInput struct {
	Company      string              `json:"company"`
	Role         string              `json:"role"`
	Status       models.Status       `json:"status,omitempty"`
	Source       models.Source       `json:"source,omitempty"`
	LocationType models.LocationType `json:"location_type,omitempty"`
	Salary       *int                `json:"salary,omitempty"`
}

// Service mutates applications through the store and publishes events.
// Read-modify-write updates on the same application are serialized, so a
// Service must be the only writer of its store.
type Service struct {
	store     repository.ApplicationStore
	publisher EventPublisher
	log       *logger.Logger
	now       func() time.Time
	locks     *keyedMutex
}

// NewService creates a tracker. A nil publisher disables events.
func NewService(store repository.ApplicationStore, publisher EventPublisher, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:     store,
		publisher: publisher,
		log:       log,
		now:       time.Now,
		locks:     newKeyedMutex(),
	}
}

// Create tracks a new application. A non-saved initial status is recorded
// as the first history entry.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Application, error) {
	now := s.now()

	app := models.NewApplication(in.Company, in.Role, now)
	app.Source = in.Source
	app.LocationType = in.LocationType
	app.Salary = in.Salary

	if err := app.Validate(); err != nil {
		return nil, err
	}
	if in.Status != "" && in.Status != models.StatusSaved {
		if err := app.TransitionTo(in.Status, now, nil); err != nil {
			return nil, err
		}
	}

	err := s.store.Create(ctx, app)
	metrics.RecordMutation("create", err)
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.notify(ctx, ApplicationEvent{
		Type:          EventCreated,
		ApplicationID: app.ID,
		Status:        app.Status,
		OccurredAt:    now,
	})
	return app, nil
}

// Get returns one application.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	app, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrNotFound
	}
	return app, nil
}

// List returns a snapshot of the applications matching filter.
func (s *Service) List(ctx context.Context, filter repository.ApplicationFilter) ([]*models.Application, error) {
	return s.store.List(ctx, filter)
}

// Transition moves an application to a new status.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, status models.Status, note *string) (*models.Application, error) {
	if note != nil {
		trimmed := strings.TrimSpace(*note)
		if trimmed == "" {
			note = nil
		} else {
			note = &trimmed
		}
	}

	return s.mutate(ctx, id, "transition", func(app *models.Application, now time.Time) (string, error) {
		from := app.Status
		if err := app.TransitionTo(status, now, note); err != nil {
			return "", err
		}
		return fmt.Sprintf("status %s -> %s", from, status), nil
	})
}

// AddNote attaches a note to an application.
func (s *Service) AddNote(ctx context.Context, id uuid.UUID, text string) (*models.Application, error) {
	return s.mutate(ctx, id, "note", func(app *models.Application, now time.Time) (string, error) {
		if err := app.AddNote(text, now); err != nil {
			return "", err
		}
		return "note added", nil
	})
}

// Delete removes an application.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	err := s.store.Delete(ctx, id)
	metrics.RecordMutation("delete", err)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}

	s.notify(ctx, ApplicationEvent{
		Type:          EventDeleted,
		ApplicationID: id,
		OccurredAt:    s.now(),
	})
	return nil
}

func (s *Service) mutate(
	ctx context.Context,
	id uuid.UUID,
	op string,
	apply func(app *models.Application, now time.Time) (string, error),
) (*models.Application, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	change, err := apply(app, now)
	if err != nil {
		return nil, err
	}

	err = s.store.Update(ctx, app)
	metrics.RecordMutation(op, err)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}

	s.notify(ctx, ApplicationEvent{
		Type:          EventUpdated,
		ApplicationID: app.ID,
		Status:        app.Status,
		Change:        change,
		OccurredAt:    now,
	})
	return app, nil
}

// notify publishes without failing the mutation that already succeeded.
func (s *Service) notify(ctx context.Context, event ApplicationEvent) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.PublishApplicationEvent(ctx, event)
	metrics.RecordPublish(string(event.Type), err)
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("type", string(event.Type)).
			Str("id", event.ApplicationID.String()).
			Msg("failed to publish application event")
	}
}
