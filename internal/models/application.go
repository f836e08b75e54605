package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the pipeline stage of a job application.
type Status string

// Status constants define the stages an application moves through.
const (
	StatusSaved        Status = "saved"
	StatusApplied      Status = "applied"
	StatusScreening    Status = "screening"
	StatusInterviewing Status = "interviewing"
	StatusOffered      Status = "offered"
	StatusAccepted     Status = "accepted"
	StatusRejected     Status = "rejected"
	StatusWithdrawn    Status = "withdrawn"
)

// AllStatuses lists every known status in pipeline order.
var AllStatuses = []Status{
	StatusSaved,
	StatusApplied,
	StatusScreening,
	StatusInterviewing,
	StatusOffered,
	StatusAccepted,
	StatusRejected,
	StatusWithdrawn,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsResponse reports whether the employer has reacted to the application.
func (s Status) IsResponse() bool {
	return s.Valid() && s != StatusSaved && s != StatusApplied
}

// IsInterview reports whether the application reached the interview stage.
func (s Status) IsInterview() bool {
	return s == StatusInterviewing || s == StatusOffered || s == StatusAccepted
}

// LocationType tags where the role is performed.
type LocationType string

// LocationType constants. The empty value means unspecified.
const (
	LocationRemote      LocationType = "remote"
	LocationHybrid      LocationType = "hybrid"
	LocationOnsite      LocationType = "onsite"
	LocationUnspecified LocationType = ""
)

// Source is the channel through which the application was submitted.
type Source string

// Source constants.
const (
	SourceReferral    Source = "referral"
	SourceJobBoard    Source = "job_board"
	SourceCompanySite Source = "company_site"
	SourceRecruiter   Source = "recruiter"
	SourceOther       Source = "other"
)

// Valid reports whether s is a known source. The empty value means unset.
func (s Source) Valid() bool {
	switch s {
	case "", SourceReferral, SourceJobBoard, SourceCompanySite, SourceRecruiter, SourceOther:
		return true
	}
	return false
}

// validation errors
var (
	ErrInvalidStatus   = errors.New("invalid status")
	ErrSameStatus      = errors.New("application already has this status")
	ErrOutOfOrder      = errors.New("status change is older than the last history entry")
	ErrEmptyNote       = errors.New("note text is required")
	ErrCompanyRequired = errors.New("company is required")
	ErrRoleRequired    = errors.New("role is required")
	ErrInvalidLocation = errors.New("location_type must be remote, hybrid, onsite or empty")
	ErrInvalidSource   = errors.New("invalid source")
)

// StatusChange is one entry of the status history log.
type StatusChange struct {
	Status    Status    `json:"status" yaml:"status"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Note      *string   `json:"note,omitempty" yaml:"note,omitempty"`
}

// Note is a free-text remark attached to an application.
type Note struct {
	Text      string    `json:"text" yaml:"text"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Application is a single tracked job application.
type Application struct {
	ID           uuid.UUID    `json:"id" yaml:"id"`
	Company      string       `json:"company" yaml:"company"`
	Role         string       `json:"role" yaml:"role"`
	Status       Status       `json:"status" yaml:"status"`
	Source       Source       `json:"source,omitempty" yaml:"source,omitempty"`
	LocationType LocationType `json:"location_type,omitempty" yaml:"location_type,omitempty"`
	Salary       *int         `json:"salary,omitempty" yaml:"salary,omitempty"`

	// history
	StatusHistory []StatusChange `json:"status_history" yaml:"status_history"`
	Notes         []Note         `json:"notes,omitempty" yaml:"notes,omitempty"`

	// timestamps
	CreatedAt      time.Time  `json:"created_at" yaml:"created_at"`
	AppliedAt      *time.Time `json:"applied_at,omitempty" yaml:"applied_at,omitempty"`
	LastActivityAt time.Time  `json:"last_activity_at" yaml:"last_activity_at"`
}

// NewApplication creates a saved application with no history.
func NewApplication(company, role string, at time.Time) *Application {
	return &Application{
		ID:             uuid.New(),
		Company:        strings.TrimSpace(company),
		Role:           strings.TrimSpace(role),
		Status:         StatusSaved,
		StatusHistory:  []StatusChange{},
		CreatedAt:      at,
		LastActivityAt: at,
	}
}

// Validate checks required fields.
func (a *Application) Validate() error {
	if strings.TrimSpace(a.Company) == "" {
		return ErrCompanyRequired
	}
	if strings.TrimSpace(a.Role) == "" {
		return ErrRoleRequired
	}
	if !a.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, a.Status)
	}
	switch a.LocationType {
	case LocationRemote, LocationHybrid, LocationOnsite, LocationUnspecified:
	default:
		return ErrInvalidLocation
	}
	if !a.Source.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSource, a.Source)
	}
	return nil
}

// TransitionTo moves the application to a new status and records it in the history.
// AppliedAt is stamped the first time the application reaches StatusApplied.
func (a *Application) TransitionTo(status Status, at time.Time, note *string) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if status == a.Status {
		return ErrSameStatus
	}
	if n := len(a.StatusHistory); n > 0 && at.Before(a.StatusHistory[n-1].Timestamp) {
		return ErrOutOfOrder
	}

	a.StatusHistory = append(a.StatusHistory, StatusChange{
		Status:    status,
		Timestamp: at,
		Note:      note,
	})
	a.Status = status

	if status == StatusApplied && a.AppliedAt == nil {
		applied := at
		a.AppliedAt = &applied
	}
	a.LastActivityAt = at

	return nil
}

// AddNote appends a note to the application.
func (a *Application) AddNote(text string, at time.Time) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyNote
	}
	a.Notes = append(a.Notes, Note{Text: text, CreatedAt: at})
	a.LastActivityAt = at
	return nil
}
