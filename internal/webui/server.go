// Package webui serves the statistics query API over HTTP.
package webui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/perf-stats/internal/service"
	"github.com/perf-stats/internal/statistics"
	"github.com/perf-stats/pkg/config"
	apperrors "github.com/perf-stats/pkg/errors"
	"github.com/perf-stats/pkg/model"
	"github.com/perf-stats/pkg/utils"
)

// maxLoadBody bounds the JSON body of a load request.
const maxLoadBody = 64 << 10

// Server represents the HTTP API server
type Server struct {
	svc    *service.Service
	port   int
	logger utils.Logger
	server *http.Server
}

// NewServer creates a new API server
func NewServer(svc *service.Service, cfg config.ServerConfig, logger utils.Logger) *Server {
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	readTimeout := cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 30 * time.Second
	}
	s := &Server{
		svc:    svc,
		port:   cfg.Port,
		logger: logger,
	}
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: readTimeout,
	}
	return s
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/formats", s.handleFormats)
	mux.HandleFunc("POST /api/load", s.handleLoad)
	mux.HandleFunc("GET /api/records", s.handleRecords)
	mux.HandleFunc("GET /api/top", s.handleTop)
	mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/metrics", s.handleMetrics)
	return mux
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("Starting API server at http://localhost:%d", s.port)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type loadRequest struct {
	Path   string `json:"path"`
	Format string `json:"format"`
}

// RecordView is a time record with its display grading.
type RecordView struct {
	model.TimeRecord `yaml:",inline"`
	Impact           statistics.ImpactLevel `json:"impact" yaml:"impact"`
	Summary          string                 `json:"summary" yaml:"summary"`
}

// NewRecordViews grades records for display.
func NewRecordViews(records []model.TimeRecord) []RecordView {
	views := make([]RecordView, len(records))
	for i, rec := range records {
		views[i] = RecordView{
			TimeRecord: rec,
			Impact:     statistics.ClassifyImpact(rec.RelativeTime),
			Summary:    statistics.Summary(rec),
		}
	}
	return views
}

type recordsResponse struct {
	Class   string       `json:"class"`
	Method  string       `json:"method"`
	Records []RecordView `json:"records"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.HealthCheck(r.Context()); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.ListFormats())
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoadBody)).Decode(&req); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid load request", err))
		return
	}
	if req.Path == "" {
		s.writeError(w, apperrors.New(apperrors.CodeInvalidInput, "path is required"))
		return
	}

	info, err := s.svc.Load(r.Context(), req.Path, req.Format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	class := r.URL.Query().Get("class")
	method := r.URL.Query().Get("method")

	records, err := s.svc.GetTimeRecords(r.Context(), class, method)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, recordsResponse{
		Class:   class,
		Method:  method,
		Records: NewRecordViews(records),
	})
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "n")
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.svc.Top(n))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Snapshot())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		s.writeError(w, err)
		return
	}
	events, err := s.svc.History(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	points, err := s.svc.Counters(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, points)
}

// intParam parses an optional non-negative integer query parameter.
func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.Newf(apperrors.CodeInvalidInput, "invalid %s: %q", name, raw)
	}
	return n, nil
}

func statusFor(code string) int {
	switch code {
	case apperrors.CodeInvalidInput, apperrors.CodeUnknownFormat:
		return http.StatusBadRequest
	case apperrors.CodeSourceNotFound:
		return http.StatusNotFound
	case apperrors.CodeSuperseded:
		return http.StatusConflict
	case apperrors.CodeConfigError:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetErrorCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed: %v", err)
	}
	s.writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to encode response: %v", err)
	}
}
