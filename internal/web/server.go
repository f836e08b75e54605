package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds server configuration
type Config struct {
	Port        int
	CORSOrigins []string
}

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	config     *Config
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	if cfg == nil {
		cfg = &Config{}
	}

	srv := &Server{
		router: chi.NewRouter(),
		config: cfg,
	}

	srv.setupMiddleware()
	srv.setupRoutes()

	return srv
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))
	s.router.Use(middleware.Compress(5))

	origins := s.config.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok","version":"dev"}`)); err != nil {
			_ = err // Client disconnected
		}
	})

	s.router.Handle("/metrics", promhttp.Handler())
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s.httpServer.Serve(listener)
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// RegisterApplicationsHandler registers application tracking handlers
func (s *Server) RegisterApplicationsHandler(handler interface{}) {
	type applicationsHandler interface {
		List(w http.ResponseWriter, r *http.Request)
		Create(w http.ResponseWriter, r *http.Request)
		GetByID(w http.ResponseWriter, r *http.Request)
		Delete(w http.ResponseWriter, r *http.Request)
		UpdateStatus(w http.ResponseWriter, r *http.Request)
		AddNote(w http.ResponseWriter, r *http.Request)
	}

	if h, ok := handler.(applicationsHandler); ok {
		s.router.Route("/api/v1/applications", func(r chi.Router) {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/{id}", h.GetByID)
			r.Delete("/{id}", h.Delete)
			r.Patch("/{id}/status", h.UpdateStatus)
			r.Post("/{id}/notes", h.AddNote)
		})
	}
}

// RegisterTrendsHandler registers the analytics views
func (s *Server) RegisterTrendsHandler(handler interface{}) {
	type trendsHandler interface {
		TimeSeries(w http.ResponseWriter, r *http.Request)
		Velocity(w http.ResponseWriter, r *http.Request)
		ResponseTimes(w http.ResponseWriter, r *http.Request)
		Probability(w http.ResponseWriter, r *http.Request)
		Overview(w http.ResponseWriter, r *http.Request)
	}

	if h, ok := handler.(trendsHandler); ok {
		s.router.Route("/api/v1/trends", func(r chi.Router) {
			r.Get("/timeseries", h.TimeSeries)
			r.Get("/velocity", h.Velocity)
			r.Get("/response-times", h.ResponseTimes)
			r.Get("/probability", h.Probability)
			r.Get("/overview", h.Overview)
		})
	}
}

// RegisterBenchmarksHandler registers benchmark table handlers
func (s *Server) RegisterBenchmarksHandler(handler interface{}) {
	type benchmarksHandler interface {
		Tables(w http.ResponseWriter, r *http.Request)
		Seasonal(w http.ResponseWriter, r *http.Request)
		WeeksToOffer(w http.ResponseWriter, r *http.Request)
		Market(w http.ResponseWriter, r *http.Request)
	}

	if h, ok := handler.(benchmarksHandler); ok {
		s.router.Route("/api/v1/benchmarks", func(r chi.Router) {
			r.Get("/", h.Tables)
			r.Get("/seasonal", h.Seasonal)
			r.Get("/weeks-to-offer", h.WeeksToOffer)
			r.Get("/market", h.Market)
		})
	}
}
