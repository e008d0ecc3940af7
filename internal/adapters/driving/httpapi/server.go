// Package httpapi serves lexroster over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/custodia-labs/lexroster/internal/core/ports/driving"
	"github.com/custodia-labs/lexroster/internal/logger"
)

// Default configuration values.
const (
	DefaultMaxUploadBytes = 50 << 20
	DefaultCORSOrigin     = "*"

	// maxJSONBytes bounds JSON request bodies.
	maxJSONBytes = 1 << 20
)

// ErrMissingService is returned when a required service is not provided.
var ErrMissingService = errors.New("httpapi: ingest, documents, search, judges and rosters services are required")

// Pinger checks a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EngineStatus reports primary engine state.
type EngineStatus interface {
	EngineStatus() (configured, healthy bool)
}

// Services aggregates the driving ports the API exposes.
type Services struct {
	Ingest    driving.IngestService
	Documents driving.DocumentService
	Search    driving.SearchService
	Judges    driving.JudgeService
	Rosters   driving.RosterService

	// Store and Engine feed /healthz. Both are optional.
	Store  Pinger
	Engine EngineStatus

	// Metrics serves /metrics when set.
	Metrics http.Handler
}

func (s Services) validate() error {
	if s.Ingest == nil || s.Documents == nil || s.Search == nil || s.Judges == nil || s.Rosters == nil {
		return ErrMissingService
	}
	return nil
}

// Config holds server settings.
type Config struct {
	MaxUploadBytes  int64
	CORSAllowOrigin string
}

// Server routes HTTP requests to services.
type Server struct {
	svc Services
	cfg Config
	mux *http.ServeMux
}

// NewServer creates the API handler.
func NewServer(svc Services, cfg Config) (*Server, error) {
	if err := svc.validate(); err != nil {
		return nil, err
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.CORSAllowOrigin == "" {
		cfg.CORSAllowOrigin = DefaultCORSOrigin
	}

	s := &Server{svc: svc, cfg: cfg, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /documents", s.handleIngest)
	s.mux.HandleFunc("GET /documents", s.handleListDocuments)
	s.mux.HandleFunc("GET /documents/summary", s.handleSummary)
	s.mux.HandleFunc("GET /documents/summary.xlsx", s.handleSummaryXLSX)
	s.mux.HandleFunc("GET /documents/{id}", s.handleGetDocument)
	s.mux.HandleFunc("GET /documents/{id}/pages", s.handlePages)
	s.mux.HandleFunc("DELETE /documents/{id}", s.handleDeleteDocument)

	s.mux.HandleFunc("GET /search/filter", s.handleFilterSearch)
	s.mux.HandleFunc("GET /search/text", s.handleTextSearch)
	s.mux.HandleFunc("GET /search/judges", s.handleJudgeSearch)

	s.mux.HandleFunc("GET /rosters", s.handleListRosters)
	s.mux.HandleFunc("PUT /rosters", s.handleUpsertRosters)
	s.mux.HandleFunc("GET /rosters/{id}", s.handleGetRoster)
	s.mux.HandleFunc("DELETE /rosters/{id}", s.handleDeleteRoster)

	s.mux.HandleFunc("GET /topology", s.handleTopology)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.svc.Metrics != nil {
		s.mux.Handle("GET /metrics", s.svc.Metrics)
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", s.cfg.CORSAllowOrigin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	logger.Debug("%s %s %d %dB %s", r.Method, r.URL.Path, rec.status, rec.bytes, time.Since(start))
}

// ListenAndServe runs srv until ctx is cancelled,
// then shuts it down gracefully.
func ListenAndServe(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}
