// Package chi is the HTTP surface of the matching service.
package chi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/aimatch/internal/logger"

	"github.com/kailas-cloud/aimatch/internal/domain/match"
	"github.com/kailas-cloud/aimatch/internal/domain/record"
	"github.com/kailas-cloud/aimatch/internal/version"
)

// Matcher is the matching use case consumed by the server.
type Matcher interface {
	Upsert(ctx context.Context, recordID string, rec *record.Record, typ record.Type) error
	Rank(ctx context.Context, recordID string, rec *record.Record, typ record.Type, topK int) ([]match.Match, error)
	Stats(ctx context.Context) (map[string]any, error)
}

// Explainer is the enrichment use case consumed by the server. Both
// operations degrade internally; they never return errors.
type Explainer interface {
	AddReasons(ctx context.Context, rec *record.Record, typ record.Type, matches []match.Match)
	Summarize(ctx context.Context, rec *record.Record, typ record.Type, matches []match.Match) *string
}

// Server dispatches the five-route matching API.
type Server struct {
	matcher   Matcher
	explainer Explainer
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(matcher Matcher, explainer Explainer, logger *zap.Logger) *Server {
	return &Server{matcher: matcher, explainer: explainer, logger: logger}
}

// Routes mounts all handlers onto the router. Unmatched paths and methods
// get the JSON 404 contract rather than chi's plain-text defaults.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Liveness)
	r.Get("/health", s.Liveness)
	r.Get("/stats", s.Stats)
	r.Post("/upsert", s.Upsert)
	r.Post("/search", s.Search)
	r.Get("/metrics", s.Metrics)
	r.NotFound(s.NotFound)
	r.MethodNotAllowed(s.NotFound)
}

type upsertRequest struct {
	RecordID   string         `json:"record_id"`
	Record     *record.Record `json:"record"`
	RecordType string         `json:"record_type"`
}

type upsertResponse struct {
	Success  bool   `json:"success"`
	RecordID string `json:"record_id"`
}

type searchRequest struct {
	RecordID        string         `json:"record_id"`
	Record          *record.Record `json:"record"`
	RecordType      string         `json:"record_type"`
	TopK            int            `json:"top_k"`
	GenerateReasons bool           `json:"generate_reasons"`
	GenerateSummary bool           `json:"generate_summary"`
}

type searchResponse struct {
	Success  bool          `json:"success"`
	RecordID string        `json:"record_id"`
	Matches  []match.Match `json:"matches"`
	Summary  *string       `json:"summary"`
}

type livenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	CORS    string `json:"cors"`
}

type statsResponse struct {
	Success           bool           `json:"success"`
	PineconeConnected bool           `json:"pinecone_connected"`
	Stats             map[string]any `json:"stats,omitempty"`
	Error             string         `json:"error,omitempty"`
}

// Liveness handles GET / and GET /health. No backend calls.
func (s *Server) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, livenessResponse{
		Status:  "ok",
		Version: version.Version,
		CORS:    "dynamic-origin",
	})
}

// Stats handles GET /stats, proxying the backend's index statistics.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.matcher.Stats(r.Context())
	if err != nil {
		logpkg.FromContext(r.Context()).Error("stats error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, statsResponse{
			Success:           false,
			PineconeConnected: false,
			Error:             err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		Success:           true,
		PineconeConnected: true,
		Stats:             stats,
	})
}

// Upsert handles POST /upsert.
func (s *Server) Upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RecordID == "" || req.Record == nil || req.RecordType == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: record_id, record, record_type")
		return
	}

	typ := record.ParseType(req.RecordType)
	if err := s.matcher.Upsert(r.Context(), req.RecordID, req.Record, typ); err != nil {
		logpkg.FromContext(r.Context()).Error("upsert error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, upsertResponse{Success: true, RecordID: req.RecordID})
}

// Search handles POST /search: rank matches from the opposite namespace,
// then run at most one enrichment pass. Summary takes priority over
// per-match reasons when both are requested.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RecordID == "" || req.Record == nil || req.RecordType == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: record_id, record, record_type")
		return
	}

	typ := record.ParseType(req.RecordType)
	matches, err := s.matcher.Rank(r.Context(), req.RecordID, req.Record, typ, req.TopK)
	if err != nil {
		logpkg.FromContext(r.Context()).Error("search error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var summary *string
	switch {
	case req.GenerateSummary && len(matches) > 0:
		summary = s.explainer.Summarize(r.Context(), req.Record, typ, matches)
	case req.GenerateReasons && len(matches) > 0:
		s.explainer.AddReasons(r.Context(), req.Record, typ, matches)
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Success:  true,
		RecordID: req.RecordID,
		Matches:  matches,
		Summary:  summary,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// NotFound handles unmatched routes and methods.
func (s *Server) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "Not found",
		"path":  r.URL.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
