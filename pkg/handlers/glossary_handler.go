package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/kpi-translator/pkg/models"
	"github.com/ekaya-inc/kpi-translator/pkg/services"
)

// ============================================================================
// Request/Response Types
// ============================================================================

// MetricListResponse for GET .../teams/{team}/metrics
type MetricListResponse struct {
	Team    string                `json:"team"`
	Metrics []models.MetricRecord `json:"metrics"`
	Total   int                   `json:"total"`
}

// TeamListResponse for GET .../teams
type TeamListResponse struct {
	Teams []string `json:"teams"`
	Total int      `json:"total"`
}

// UpsertMetricRequest for PUT .../metrics
type UpsertMetricRequest struct {
	Team       string `json:"team"`
	MetricName string `json:"metric_name"`
	Definition string `json:"definition"`
}

// ValidateReportRequest for POST .../validate
type ValidateReportRequest struct {
	Text string `json:"text"`
}

// UnifiedDefinitionResponse for GET .../unified
type UnifiedDefinitionResponse struct {
	Team              string `json:"team"`
	Metric            string `json:"metric"`
	OtherTeam         string `json:"other_team"`
	UnifiedDefinition string `json:"unified_definition"`
}

// UnifiedDefinitionListResponse for GET .../unified-definitions
type UnifiedDefinitionListResponse struct {
	UnifiedDefinitions []models.UnifiedDefinition `json:"unified_definitions"`
	Total              int                        `json:"total"`
}

// SearchResponse for GET .../search
type SearchResponse struct {
	Query   string                `json:"query"`
	Metrics []models.MetricRecord `json:"metrics"`
	Total   int                   `json:"total"`
}

// maxImportBytes bounds CSV uploads.
const maxImportBytes = 5 << 20

// ============================================================================
// Handler
// ============================================================================

// GlossaryHandler serves one session's KPI glossary.
type GlossaryHandler struct {
	registry services.SessionRegistry
	logger   *zap.Logger
}

// NewGlossaryHandler creates a new glossary handler.
func NewGlossaryHandler(registry services.SessionRegistry, logger *zap.Logger) *GlossaryHandler {
	return &GlossaryHandler{
		registry: registry,
		logger:   logger,
	}
}

// RegisterRoutes registers the glossary handler's routes on the given mux.
func (h *GlossaryHandler) RegisterRoutes(mux *http.ServeMux) {
	base := "/api/sessions/{sid}"

	mux.HandleFunc("GET "+base+"/teams", h.ListTeams)
	mux.HandleFunc("GET "+base+"/teams/{team}/metrics", h.ListMetrics)
	mux.HandleFunc("GET "+base+"/teams/{team}/metrics/{metric}", h.GetMetric)
	mux.HandleFunc("PUT "+base+"/metrics", h.UpsertMetric)
	mux.HandleFunc("POST "+base+"/import", h.Import)
	mux.HandleFunc("POST "+base+"/sample", h.LoadSample)
	mux.HandleFunc("GET "+base+"/translate", h.Translate)
	mux.HandleFunc("GET "+base+"/unified-definitions", h.ListUnifiedDefinitions)
	mux.HandleFunc("GET "+base+"/unified", h.GetUnifiedDefinition)
	mux.HandleFunc("POST "+base+"/validate", h.Validate)
	mux.HandleFunc("GET "+base+"/search", h.Search)
	mux.HandleFunc("GET "+base+"/export", h.Export)
}

// glossary resolves the session in the path. On failure it writes the error
// response and returns false.
func (h *GlossaryHandler) glossary(w http.ResponseWriter, r *http.Request) (services.GlossaryService, bool) {
	sessionID, ok := ParseSessionID(w, r, h.logger)
	if !ok {
		return nil, false
	}

	glossary, err := h.registry.Get(r.Context(), sessionID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to resolve glossary session", zap.String("session_id", sessionID.String()))
		return nil, false
	}
	return glossary, true
}

// writeServiceError maps err to a status code. Server failures are logged.
func (h *GlossaryHandler) writeServiceError(w http.ResponseWriter, err error, logMsg string, fields ...zap.Field) {
	status, code := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(logMsg, append(fields, zap.Error(err))...)
	}
	if err := ErrorResponse(w, status, code, err.Error()); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}

func (h *GlossaryHandler) writeData(w http.ResponseWriter, status int, data any) {
	if err := WriteJSON(w, status, ApiResponse{Success: true, Data: data}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListTeams handles GET /api/sessions/{sid}/teams
func (h *GlossaryHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	glossary, ok := h.glossary(w, r)
	if !ok {
		return
	}

	teams := glossary.Teams(r.Context())
	h.writeData(w, http.StatusOK, TeamListResponse{Teams: teams, Total: len(teams)})
}

// ListMetrics handles GET /api/sessions/{sid}/teams/{team}/metrics
func (h *GlossaryHandler) ListMetrics(w http.ResponseWriter, r *http.Request) {
	glossary, ok := h.glossary(w, r)
	if !ok {
		return
	}

	team := r.PathValue("team")
	metrics := glossary.Metrics(r.Context(), team)
	h.writeData(w, http.StatusOK, MetricListResponse{Team: team, Metrics: metrics, Total: len(metrics)})
}

// GetMetric handles GET /api/sessions/{sid}/teams/{team}/metrics/{metric}
func (h *GlossaryHandler) GetMetric(w http.ResponseWriter, r *http.Request) {
	glossary, ok := h.glossary(w, r)
	if !ok {
		return
	}

	record, err := glossary.GetMetric(r.Context(), r.PathValue("team"), r.PathValue("metric"))
	if err != nil {
		h.writeServiceError(w, err, "Failed to get metric")
		return
	}
	h.writeData(w, http.StatusOK, record)
}

// UpsertMetric handles PUT /api/sessions/{sid}/metrics
func (h *GlossaryHandler) UpsertMetric(w http.ResponseWriter, r *http.Request) {
	glossary, ok := h.glossary(w, r)
	if !ok {
		return
	}

	var req UpsertMetricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	record, err := glossary.AddMetric(r.Context(),
		req.Team, req.MetricName, req.Definition)
	if err != nil {
		h.writeServiceError(w, err, "Failed to upsert metric",
			zap.String("team", req.Team),
			zap.String("metric", req.MetricName))
		return
	}
	h.writeData(w, http.StatusOK, record)
}

// Import handles POST /api/sessions/{sid}/import with a CSV request body.
func (h *GlossaryHandler) Import(w http.ResponseWriter, r *http.Request) {
	glossary, ok := h.glossary(w, r)
	if !ok {
		return
	}

	result, err := glossary.ImportCSV(r.Context(), http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		h.writeServiceError(w, err, "Failed to import glossary CSV")
		return
	}
	h.writeData(w, http.StatusOK, result)
}

// LoadSample handles POST /api/sessions/{sid}/sample
func (h *GlossaryHandler) LoadSample(w http.ResponseWriter, r *http.Request) {
	glossary, ok := h.glossary(w, r)
	if !ok {
		return
	}

	result, err := glossary.LoadSample(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "Failed to load sample glossary")
		return
	}
	h.writeData(w, http.StatusOK, result)
}

// Translate handles GET /api/sessions/{sid}/translate?source_team=&metric=&target_team=
func (h *GlossaryHandler) Translate(w http.ResponseWriter, r *http.Request) {
	glossary, ok := h.glossary(w, r)
	if !ok {
		return
	}

	params, ok := requireQuery(w, r, h.logger, "source_team", "metric", "target_team")
	if !ok {
		return
	}
	h.writeData(w, http.StatusOK, glossary.Translate(r.Context(), params[0], params[1], params[2]))
}

// ListUnifiedDefinitions handles GET /api/sessions/{sid}/unified-definitions
func (h *GlossaryHandler) ListUnifiedDefinitions(w http.ResponseWriter, r *http.Request) {
	glossary, ok := h.glossary(w, r)
	if !ok {
		return
	}

	defs := glossary.UnifiedDefinitions(r.Context())
	h.writeData(w, http.StatusOK, UnifiedDefinitionListResponse{UnifiedDefinitions: defs, Total: len(defs)})
}

// GetUnifiedDefinition handles GET /api/sessions/{sid}/unified?team=&metric=&other_team=
func (h *GlossaryHandler) GetUnifiedDefinition(w http.ResponseWriter, r *http.Request) {
	glossary, ok := h.glossary(w, r)
	if !ok {
		return
	}

	params, ok := requireQuery(w, r, h.logger, "team", "metric", "other_team")
	if !ok {
		return
	}
	h.writeData(w, http.StatusOK, UnifiedDefinitionResponse{
		Team:              params[0],
		Metric:            params[1],
		OtherTeam:         params[2],
		UnifiedDefinition: glossary.UnifiedDefinitionFor(r.Context(), params[0], params[1], params[2]),
	})
}

// Validate handles POST /api/sessions/{sid}/validate
func (h *GlossaryHandler) Validate(w http.ResponseWriter, r *http.Request) {
	glossary, ok := h.glossary(w, r)
	if !ok {
		return
	}

	var req ValidateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	report, err := glossary.ValidateReport(r.Context(), req.Text)
	if err != nil {
		h.writeServiceError(w, err, "Failed to validate report")
		return
	}
	h.writeData(w, http.StatusOK, report)
}

// Search handles GET /api/sessions/{sid}/search?q=
// An empty query returns every metric.
func (h *GlossaryHandler) Search(w http.ResponseWriter, r *http.Request) {
	glossary, ok := h.glossary(w, r)
	if !ok {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	metrics := glossary.Search(r.Context(), query)
	h.writeData(w, http.StatusOK, SearchResponse{Query: query, Metrics: metrics, Total: len(metrics)})
}

// Export handles GET /api/sessions/{sid}/export
// The export document is written bare, without the ApiResponse envelope.
func (h *GlossaryHandler) Export(w http.ResponseWriter, r *http.Request) {
	glossary, ok := h.glossary(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="kpi_glossary.json"`)
	if err := WriteJSON(w, http.StatusOK, glossary.Export(r.Context())); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
