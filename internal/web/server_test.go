package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Starts(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	srv := NewServer(&Config{Port: port})
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)

	go func() { _ = srv.Start() }()
	defer func() { _ = srv.Stop(context.Background()) }()

	// wait for server to be ready
	require.Eventually(t, func() bool {
		resp, err := http.Get(baseURL + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == 200
	}, 2*time.Second, 50*time.Millisecond)
}

func TestServer_HealthEndpoint(t *testing.T) {
	srv := NewServer(&Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var health struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.NotEmpty(t, health.Version)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	srv := NewServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body, _ := io.ReadAll(w.Body)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestServer_CORS(t *testing.T) {
	srv := NewServer(&Config{CORSOrigins: []string{"https://app.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

type mockApplicationsAPIHandler struct{}

func (h *mockApplicationsAPIHandler) List(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
func (h *mockApplicationsAPIHandler) Create(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusCreated)
}
func (h *mockApplicationsAPIHandler) GetByID(w http.ResponseWriter, _ *http.Request) {}
func (h *mockApplicationsAPIHandler) Delete(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
func (h *mockApplicationsAPIHandler) UpdateStatus(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusAccepted)
}
func (h *mockApplicationsAPIHandler) AddNote(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusCreated)
}

type mockTrendsAPIHandler struct{}

func (h *mockTrendsAPIHandler) TimeSeries(w http.ResponseWriter, _ *http.Request)    {}
func (h *mockTrendsAPIHandler) Velocity(w http.ResponseWriter, _ *http.Request)      {}
func (h *mockTrendsAPIHandler) ResponseTimes(w http.ResponseWriter, _ *http.Request) {}
func (h *mockTrendsAPIHandler) Probability(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusTeapot)
}
func (h *mockTrendsAPIHandler) Overview(w http.ResponseWriter, _ *http.Request) {}

type mockBenchmarksAPIHandler struct{}

func (h *mockBenchmarksAPIHandler) Tables(w http.ResponseWriter, _ *http.Request)   {}
func (h *mockBenchmarksAPIHandler) Seasonal(w http.ResponseWriter, _ *http.Request) {}
func (h *mockBenchmarksAPIHandler) WeeksToOffer(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusTeapot)
}
func (h *mockBenchmarksAPIHandler) Market(w http.ResponseWriter, _ *http.Request) {}

func TestServer_RegisterHandlers(t *testing.T) {
	srv := NewServer(&Config{})
	srv.RegisterApplicationsHandler(&mockApplicationsAPIHandler{})
	srv.RegisterTrendsHandler(&mockTrendsAPIHandler{})
	srv.RegisterBenchmarksHandler(&mockBenchmarksAPIHandler{})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/applications", http.StatusOK},
		{http.MethodPost, "/api/v1/applications", http.StatusCreated},
		{http.MethodDelete, "/api/v1/applications/abc", http.StatusNoContent},
		{http.MethodPatch, "/api/v1/applications/abc/status", http.StatusAccepted},
		{http.MethodPost, "/api/v1/applications/abc/notes", http.StatusCreated},
		{http.MethodGet, "/api/v1/trends/probability", http.StatusTeapot},
		{http.MethodGet, "/api/v1/benchmarks/weeks-to-offer", http.StatusTeapot},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			srv.router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestServer_RegisterIgnoresIncompleteHandler(t *testing.T) {
	srv := NewServer(&Config{})
	srv.RegisterTrendsHandler(struct{}{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trends/overview", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
