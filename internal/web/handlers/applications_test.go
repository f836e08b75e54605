package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/jobtrends/internal/models"
	"github.com/blockedby/jobtrends/internal/repository"
	"github.com/blockedby/jobtrends/internal/tracker"
)

// MockApplicationService is a mock for ApplicationService
type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) Create(ctx context.Context, in tracker.CreateInput) (*models.Application, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationService) Get(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationService) List(ctx context.Context, f repository.ApplicationFilter) ([]*models.Application, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Application), args.Error(1)
}

func (m *MockApplicationService) Transition(ctx context.Context, id uuid.UUID, status models.Status, note *string) (*models.Application, error) {
	args := m.Called(ctx, id, status, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationService) AddNote(ctx context.Context, id uuid.UUID, text string) (*models.Application, error) {
	args := m.Called(ctx, id, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func newApplicationsRouter(svc ApplicationService) http.Handler {
	h := NewApplicationsHandler(svc)
	r := chi.NewRouter()
	r.Get("/api/v1/applications", h.List)
	r.Post("/api/v1/applications", h.Create)
	r.Get("/api/v1/applications/{id}", h.GetByID)
	r.Delete("/api/v1/applications/{id}", h.Delete)
	r.Patch("/api/v1/applications/{id}/status", h.UpdateStatus)
	r.Post("/api/v1/applications/{id}/notes", h.AddNote)
	return r
}

func serve(h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp["error"]
}

func sampleApplication() *models.Application {
	return models.NewApplication("Acme", "SRE", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
}

func TestApplicationsHandler_List(t *testing.T) {
	app := sampleApplication()
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	svc := new(MockApplicationService)
	svc.On("List", mock.Anything, repository.ApplicationFilter{
		Status:  models.StatusApplied,
		Company: "acme",
		Since:   &since,
	}).Return([]*models.Application{app}, nil)

	w := serve(newApplicationsRouter(svc), http.MethodGet,
		"/api/v1/applications?status=applied&company=acme&since=2026-03-01", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Applications []*models.Application `json:"applications"`
		Total        int                   `json:"total"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Applications, 1)
	assert.Equal(t, app.ID, resp.Applications[0].ID)
	svc.AssertExpectations(t)
}

func TestApplicationsHandler_List_EmptyIsArray(t *testing.T) {
	svc := new(MockApplicationService)
	svc.On("List", mock.Anything, repository.ApplicationFilter{}).Return(nil, nil)

	w := serve(newApplicationsRouter(svc), http.MethodGet, "/api/v1/applications", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"applications":[]`)
}

func TestApplicationsHandler_List_BadQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"unknown status", "?status=ghosted", "invalid status: ghosted"},
		{"bad since", "?since=last-week", "since must be RFC 3339 or YYYY-MM-DD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockApplicationService)
			w := serve(newApplicationsRouter(svc), http.MethodGet, "/api/v1/applications"+tt.query, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, decodeError(t, w))
			svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
		})
	}
}

func TestApplicationsHandler_Create(t *testing.T) {
	app := sampleApplication()
	in := tracker.CreateInput{Company: "Acme", Role: "SRE", Source: models.SourceReferral}

	svc := new(MockApplicationService)
	svc.On("Create", mock.Anything, in).Return(app, nil)

	w := serve(newApplicationsRouter(svc), http.MethodPost, "/api/v1/applications", in)

	assert.Equal(t, http.StatusCreated, w.Code)

	var got models.Application
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, app.ID, got.ID)
	svc.AssertExpectations(t)
}

func TestApplicationsHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		expectCode int
		expectErr  string
	}{
		{"missing company", models.ErrCompanyRequired, http.StatusBadRequest, "company is required"},
		{"wrapped status", fmt.Errorf("%w: %q", models.ErrInvalidStatus, "x"), http.StatusBadRequest, `invalid status: "x"`},
		{"unknown source", fmt.Errorf("%w: %q", models.ErrInvalidSource, "carrier-pigeon"), http.StatusBadRequest, `invalid source: "carrier-pigeon"`},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockApplicationService)
			svc.On("Create", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := serve(newApplicationsRouter(svc), http.MethodPost, "/api/v1/applications",
				map[string]string{"role": "SRE"})

			assert.Equal(t, tt.expectCode, w.Code)
			assert.Equal(t, tt.expectErr, decodeError(t, w))
		})
	}
}

func TestApplicationsHandler_Create_InvalidPayload(t *testing.T) {
	svc := new(MockApplicationService)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	newApplicationsRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request payload", decodeError(t, w))
}

func TestApplicationsHandler_GetByID(t *testing.T) {
	app := sampleApplication()
	missing := uuid.New()

	svc := new(MockApplicationService)
	svc.On("Get", mock.Anything, app.ID).Return(app, nil)
	svc.On("Get", mock.Anything, missing).Return(nil, tracker.ErrNotFound)
	router := newApplicationsRouter(svc)

	w := serve(router, http.MethodGet, "/api/v1/applications/"+app.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodGet, "/api/v1/applications/"+missing.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application not found", decodeError(t, w))

	w = serve(router, http.MethodGet, "/api/v1/applications/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid application ID", decodeError(t, w))
}

func TestApplicationsHandler_Delete(t *testing.T) {
	id := uuid.New()

	svc := new(MockApplicationService)
	svc.On("Delete", mock.Anything, id).Return(nil)

	w := serve(newApplicationsRouter(svc), http.MethodDelete, "/api/v1/applications/"+id.String(), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestApplicationsHandler_UpdateStatus(t *testing.T) {
	app := sampleApplication()
	note := "recruiter called"

	svc := new(MockApplicationService)
	svc.On("Transition", mock.Anything, app.ID, models.StatusScreening, &note).Return(app, nil)
	router := newApplicationsRouter(svc)

	w := serve(router, http.MethodPatch, "/api/v1/applications/"+app.ID.String()+"/status",
		UpdateStatusRequest{Status: models.StatusScreening, Note: &note})
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)

	w = serve(router, http.MethodPatch, "/api/v1/applications/"+app.ID.String()+"/status",
		map[string]string{"note": "no status"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status is required", decodeError(t, w))
}

func TestApplicationsHandler_UpdateStatus_SameStatus(t *testing.T) {
	id := uuid.New()

	svc := new(MockApplicationService)
	svc.On("Transition", mock.Anything, id, models.StatusSaved, (*string)(nil)).Return(nil, models.ErrSameStatus)

	w := serve(newApplicationsRouter(svc), http.MethodPatch, "/api/v1/applications/"+id.String()+"/status",
		UpdateStatusRequest{Status: models.StatusSaved})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrSameStatus.Error(), decodeError(t, w))
}

func TestApplicationsHandler_AddNote(t *testing.T) {
	app := sampleApplication()

	svc := new(MockApplicationService)
	svc.On("AddNote", mock.Anything, app.ID, "send portfolio").Return(app, nil)
	svc.On("AddNote", mock.Anything, app.ID, "").Return(nil, models.ErrEmptyNote)
	router := newApplicationsRouter(svc)

	w := serve(router, http.MethodPost, "/api/v1/applications/"+app.ID.String()+"/notes",
		AddNoteRequest{Text: "send portfolio"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = serve(router, http.MethodPost, "/api/v1/applications/"+app.ID.String()+"/notes", AddNoteRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "note text is required", decodeError(t, w))
}
