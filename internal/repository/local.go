package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blockedby/jobtrends/internal/logger"
	"github.com/blockedby/jobtrends/internal/models"
)

// applicationRecord is one row of the GORM store. Payload holds the full
// record as JSON; the other columns exist for filtering.
type applicationRecord struct {
	ID         string    `gorm:"primaryKey;size:36"`
	CompanyKey string    `gorm:"index"`
	Status     string    `gorm:"index;size:32"`
	CreatedAt  time.Time `gorm:"index;autoCreateTime:false"`
	Payload    string    `gorm:"type:text;not null"`
	UpdatedAt  time.Time
}

func (applicationRecord) TableName() string { return "application_records" }

// GormStore keeps applications in any GORM database. It backs the local
// single-file SQLite store and can also run on Postgres through GORM.
type GormStore struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewGormStore creates the store and migrates its table.
func NewGormStore(db *gorm.DB, log *logger.Logger) (*GormStore, error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := db.AutoMigrate(&applicationRecord{}); err != nil {
		return nil, fmt.Errorf("migrate application records: %w", err)
	}
	return &GormStore{db: db, log: log}, nil
}

// Create inserts a new application record
func (s *GormStore) Create(ctx context.Context, app *models.Application) error {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if app.Status == "" {
		app.Status = models.StatusSaved
	}

	rec, err := toRecord(app)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("create application: %w", err)
	}

	s.log.Info().
		Str("id", app.ID.String()).
		Str("company", app.Company).
		Msg("created application")
	return nil
}

// GetByID returns a single application, or nil when it does not exist
func (s *GormStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var rec applicationRecord
	err := s.db.WithContext(ctx).Where("id = ?", id.String()).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get application by id: %w", err)
	}
	return fromRecord(&rec)
}

// List returns applications matching the filter, oldest first
func (s *GormStore) List(ctx context.Context, filter ApplicationFilter) ([]*models.Application, error) {
	q := s.db.WithContext(ctx).Model(&applicationRecord{})
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if c := companyKey(filter.Company); c != "" {
		q = q.Where("company_key = ?", c)
	}
	if filter.Since != nil {
		q = q.Where("created_at >= ?", filter.Since.UTC())
	}

	var recs []applicationRecord
	if err := q.Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	apps := make([]*models.Application, 0, len(recs))
	for i := range recs {
		app, err := fromRecord(&recs[i])
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// Update replaces the stored record
func (s *GormStore) Update(ctx context.Context, app *models.Application) error {
	rec, err := toRecord(app)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Model(&applicationRecord{}).
		Where("id = ?", rec.ID).
		Updates(map[string]any{
			"company_key": rec.CompanyKey,
			"status":      rec.Status,
			"payload":     rec.Payload,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("update application: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an application
func (s *GormStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&applicationRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete application: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	s.log.Info().Str("id", id.String()).Msg("deleted application")
	return nil
}

func toRecord(app *models.Application) (*applicationRecord, error) {
	payload, err := json.Marshal(app)
	if err != nil {
		return nil, fmt.Errorf("marshal application: %w", err)
	}
	return &applicationRecord{
		ID:         app.ID.String(),
		CompanyKey: companyKey(app.Company),
		Status:     string(app.Status),
		CreatedAt:  app.CreatedAt.UTC(),
		Payload:    string(payload),
		UpdatedAt:  time.Now().UTC(),
	}, nil
}

func fromRecord(rec *applicationRecord) (*models.Application, error) {
	var app models.Application
	if err := json.Unmarshal([]byte(rec.Payload), &app); err != nil {
		return nil, fmt.Errorf("unmarshal application %s: %w", rec.ID, err)
	}
	if app.StatusHistory == nil {
		app.StatusHistory = []models.StatusChange{}
	}
	return &app, nil
}

func companyKey(company string) string {
	return strings.ToLower(strings.TrimSpace(company))
}
