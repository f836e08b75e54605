package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/blockedby/jobtrends/internal/logger"
	"github.com/blockedby/jobtrends/internal/models"
	"github.com/blockedby/jobtrends/internal/repository"
	"github.com/blockedby/jobtrends/internal/tracker"
)

// ApplicationsHandler handles application tracking endpoints.
type ApplicationsHandler struct {
	svc ApplicationService
	log *logger.Logger
}

// NewApplicationsHandler creates a new applications handler.
func NewApplicationsHandler(svc ApplicationService) *ApplicationsHandler {
	return &ApplicationsHandler{
		svc: svc,
		log: logger.Get().Component("applications-api"),
	}
}

// List returns tracked applications, optionally filtered.
// GET /api/v1/applications?status=&company=&since=
func (h *ApplicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.ApplicationFilter{Company: q.Get("company")}
	if s := q.Get("status"); s != "" {
		status := models.Status(s)
		if !status.Valid() {
			respondError(w, http.StatusBadRequest, "invalid status: "+s)
			return
		}
		filter.Status = status
	}

	since, err := parseSince(q.Get("since"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "since must be RFC 3339 or YYYY-MM-DD")
		return
	}
	filter.Since = since

	apps, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	if apps == nil {
		apps = []*models.Application{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"applications": apps,
		"total":        len(apps),
	})
}

// Create tracks a new application.
// POST /api/v1/applications
func (h *ApplicationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in tracker.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	app, err := h.svc.Create(r.Context(), in)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, app)
}

// GetByID returns a single application.
// GET /api/v1/applications/{id}
func (h *ApplicationsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	app, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, app)
}

// Delete stops tracking an application.
// DELETE /api/v1/applications/{id}
func (h *ApplicationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateStatusRequest is the payload for a status change.
type UpdateStatusRequest struct {
	Status models.Status `json:"status"`
	Note   *string       `json:"note,omitempty"`
}

// UpdateStatus moves an application to a new status.
// PATCH /api/v1/applications/{id}/status
func (h *ApplicationsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Status == "" {
		respondError(w, http.StatusBadRequest, "status is required")
		return
	}

	app, err := h.svc.Transition(r.Context(), id, req.Status, req.Note)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, app)
}

// AddNoteRequest is the payload for a new note.
type AddNoteRequest struct {
	Text string `json:"text"`
}

// AddNote attaches a note to an application.
// POST /api/v1/applications/{id}/notes
func (h *ApplicationsHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req AddNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	app, err := h.svc.AddNote(r.Context(), id, req.Text)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, app)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid application ID")
		return uuid.Nil, false
	}
	return id, true
}
