package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/blockedby/jobtrends/internal/logger"
	"github.com/blockedby/jobtrends/internal/models"
)

const applicationColumns = `id, company, role, status, source, location_type, salary,
       status_history, notes, created_at, applied_at, last_activity_at`

// ApplicationsRepository stores applications in Postgres.
// Status history and notes live in JSONB columns.
type ApplicationsRepository struct {
	db  DBTX
	log *logger.Logger
}

// NewApplicationsRepository creates a new applications repository
func NewApplicationsRepository(db DBTX, log *logger.Logger) *ApplicationsRepository {
	if log == nil {
		log = logger.Nop()
	}
	return &ApplicationsRepository{
		db:  db,
		log: log,
	}
}

// Create inserts a new application record
func (r *ApplicationsRepository) Create(ctx context.Context, app *models.Application) error {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if app.Status == "" {
		app.Status = models.StatusSaved
	}

	history, notes, err := encodeLogs(app)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO applications (
			id, company, role, status, source, location_type, salary,
			status_history, notes, created_at, applied_at, last_activity_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, app.ID, app.Company, app.Role, string(app.Status), string(app.Source), string(app.LocationType), app.Salary,
		history, notes, app.CreatedAt, app.AppliedAt, app.LastActivityAt,
	)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}

	r.log.Info().
		Str("id", app.ID.String()).
		Str("company", app.Company).
		Str("status", string(app.Status)).
		Msg("created application")

	return nil
}

// GetByID returns a single application, or nil when it does not exist
func (r *ApplicationsRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE id = $1
	`, id)

	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get application by id: %w", err)
	}
	return app, nil
}

// List returns applications matching the filter, oldest first
func (r *ApplicationsRepository) List(ctx context.Context, filter ApplicationFilter) ([]*models.Application, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if c := strings.TrimSpace(filter.Company); c != "" {
		args = append(args, c)
		conds = append(conds, fmt.Sprintf("lower(company) = lower($%d)", len(args)))
	}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}

	query := `SELECT ` + applicationColumns + ` FROM applications`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	apps := make([]*models.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	return apps, nil
}

// Update overwrites every mutable column of an existing application
func (r *ApplicationsRepository) Update(ctx context.Context, app *models.Application) error {
	history, notes, err := encodeLogs(app)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE applications
		SET company = $2, role = $3, status = $4, source = $5, location_type = $6,
		    salary = $7, status_history = $8, notes = $9, applied_at = $10,
		    last_activity_at = $11, updated_at = NOW()
		WHERE id = $1
	`, app.ID, app.Company, app.Role, string(app.Status), string(app.Source), string(app.LocationType),
		app.Salary, history, notes, app.AppliedAt, app.LastActivityAt,
	)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.log.Debug().
		Str("id", app.ID.String()).
		Str("status", string(app.Status)).
		Msg("updated application")

	return nil
}

// Delete removes an application
func (r *ApplicationsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.log.Info().Str("id", id.String()).Msg("deleted application")
	return nil
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	var (
		app                      models.Application
		status, source, location string
		salary                   *int
		historyJSON, notesJSON   []byte
		appliedAt                *time.Time
	)

	err := row.Scan(
		&app.ID, &app.Company, &app.Role, &status, &source, &location, &salary,
		&historyJSON, &notesJSON, &app.CreatedAt, &appliedAt, &app.LastActivityAt,
	)
	if err != nil {
		return nil, err
	}

	app.Status = models.Status(status)
	app.Source = models.Source(source)
	app.LocationType = models.LocationType(location)
	app.Salary = salary
	app.AppliedAt = appliedAt

	if err := decodeLogs(&app, historyJSON, notesJSON); err != nil {
		return nil, err
	}
	return &app, nil
}

func encodeLogs(app *models.Application) (history, notes []byte, err error) {
	h := app.StatusHistory
	if h == nil {
		h = []models.StatusChange{}
	}
	n := app.Notes
	if n == nil {
		n = []models.Note{}
	}

	if history, err = json.Marshal(h); err != nil {
		return nil, nil, fmt.Errorf("marshal status history: %w", err)
	}
	if notes, err = json.Marshal(n); err != nil {
		return nil, nil, fmt.Errorf("marshal notes: %w", err)
	}
	return history, notes, nil
}

func decodeLogs(app *models.Application, history, notes []byte) error {
	app.StatusHistory = []models.StatusChange{}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &app.StatusHistory); err != nil {
			return fmt.Errorf("unmarshal status history: %w", err)
		}
	}
	if len(notes) > 0 {
		if err := json.Unmarshal(notes, &app.Notes); err != nil {
			return fmt.Errorf("unmarshal notes: %w", err)
		}
		if len(app.Notes) == 0 {
			app.Notes = nil
		}
	}
	return nil
}
