package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/kpi-translator/pkg/models"
	"github.com/ekaya-inc/kpi-translator/pkg/services"
)

// SessionListResponse for GET /api/sessions
type SessionListResponse struct {
	Sessions []models.GlossarySession `json:"sessions"`
	Total    int                      `json:"total"`
}

// SessionHandler creates, lists and deletes glossary sessions.
type SessionHandler struct {
	registry services.SessionRegistry
	logger   *zap.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(registry services.SessionRegistry, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		registry: registry,
		logger:   logger,
	}
}

// RegisterRoutes registers the session handler's routes on the given mux.
func (h *SessionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sessions", h.Create)
	mux.HandleFunc("GET /api/sessions", h.List)
	mux.HandleFunc("DELETE /api/sessions/{sid}", h.Delete)
}

// Create handles POST /api/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, err := h.registry.Create(r.Context())
	if err != nil {
		status, code := errorStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Failed to create glossary session", zap.Error(err))
		}
		if err := ErrorResponse(w, status, code, err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: session}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions := h.registry.List(r.Context())
	response := SessionListResponse{Sessions: sessions, Total: len(sessions)}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/sessions/{sid}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := ParseSessionID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.registry.Delete(r.Context(), sessionID); err != nil {
		status, code := errorStatus(err)
		if err := ErrorResponse(w, status, code, err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Session deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
