// Package httpserver provides the HTTP REST API server for the video
// curation backend.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/surajit20072003/guddu-backend/internal/database"
	"github.com/surajit20072003/guddu-backend/internal/observability"
	"github.com/surajit20072003/guddu-backend/internal/repository"
	"github.com/surajit20072003/guddu-backend/internal/temporal"
)

// WorkflowClient defines the workflow operations used by the HTTP server.
// Satisfied by *temporal.CurationWorkflowClient.
type WorkflowClient interface {
	StartExtraction(ctx context.Context, requestID uuid.UUID, workflowFunc interface{}, input interface{}) (workflowID, runID string, err error)
	StartTagBatch(ctx context.Context, workflowFunc interface{}) (workflowID, runID string, err error)
	StartTopicBatch(ctx context.Context, workflowFunc interface{}) (workflowID, runID string, err error)
	DescribeWorkflow(ctx context.Context, workflowID, runID string) (*temporal.WorkflowDescription, error)
}

// WorkflowFuncs carries the Temporal workflow function references the
// handlers start. Passing them in keeps this package free of a dependency on
// the workflows package.
type WorkflowFuncs struct {
	Extraction interface{}
	TagBatch   interface{}
	TopicBatch interface{}
}

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// UploadDir is where uploaded documents are stored.
	UploadDir string

	// MaxUploadBytes bounds the accepted multipart payload size.
	MaxUploadBytes int64
}

// Server is the HTTP REST API server.
type Server struct {
	router         chi.Router
	httpServer     *http.Server
	cfg            Config
	workflowClient WorkflowClient
	workflows      WorkflowFuncs
	requestRepo    repository.RequestRepository
	tagRepo        repository.TagRepository
	videoRepo      repository.VideoRepository
	db             *database.DB
	validate       *validator.Validate
	metrics        *observability.Metrics
	logger         zerolog.Logger
}

// NewServer creates a new HTTP server with all dependencies.
func NewServer(
	cfg Config,
	workflowClient WorkflowClient,
	workflows WorkflowFuncs,
	requestRepo repository.RequestRepository,
	tagRepo repository.TagRepository,
	videoRepo repository.VideoRepository,
	db *database.DB,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 << 20
	}

	s := &Server{
		cfg:            cfg,
		workflowClient: workflowClient,
		workflows:      workflows,
		requestRepo:    requestRepo,
		tagRepo:        tagRepo,
		videoRepo:      videoRepo,
		db:             db,
		validate:       validator.New(),
		metrics:        metrics,
		logger:         logger.With().Str("component", "http-server").Logger(),
	}

	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(correlationIDMiddleware)

	// Health endpoints
	r.Get("/healthz", s.healthHandler)
	r.Get("/readyz", s.readinessHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/admin", func(r chi.Router) {
			r.Post("/upload", s.uploadHandler)
			r.Post("/start-batch", s.startTagBatchHandler)
			r.Post("/process-topics", s.startTopicBatchHandler)
		})

		r.Get("/requests/{requestID}", s.getRequestHandler)
		r.Get("/tags", s.listTagsHandler)
		r.Get("/tags/{tagID}/videos", s.listTagVideosHandler)
		r.Patch("/videos/{videoID}/approval", s.updateApprovalHandler)
	})

	return r
}

// Router returns the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// healthHandler returns basic liveness status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := s.db.Health(r.Context())
	if health.Status == "healthy" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": health.Status})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{
		"status":   "unhealthy",
		"database": health.Status,
		"error":    health.Error,
	})
}

// readinessHandler returns readiness status.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	health := s.db.Health(r.Context())
	if health.Status != "healthy" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "not_ready",
			"database": health.Status,
			"error":    health.Error,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"database": "healthy",
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort; headers already sent.
		_ = err
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
