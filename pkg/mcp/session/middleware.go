// Package mcpsession binds MCP requests to an in-memory glossary session.
package mcpsession

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/kpi-translator/pkg/apperrors"
	"github.com/ekaya-inc/kpi-translator/pkg/mcp/tools"
	"github.com/ekaya-inc/kpi-translator/pkg/services"
)

// Middleware resolves the session ID in the MCP URL to a glossary.
type Middleware struct {
	registry services.SessionRegistry
	logger   *zap.Logger
}

// NewMiddleware creates a new MCP session middleware.
func NewMiddleware(registry services.SessionRegistry, logger *zap.Logger) *Middleware {
	return &Middleware{
		registry: registry,
		logger:   logger,
	}
}

// RequireSession looks up the glossary for the session ID in the URL path and
// injects it into the request context for the MCP tools.
// The pathParamName is the name used in r.PathValue() (e.g., "sid").
func (m *Middleware) RequireSession(pathParamName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawID := r.PathValue(pathParamName)
			if rawID == "" {
				m.logger.Error("MCP session lookup failed: missing session ID in URL path",
					zap.String("path", r.URL.Path),
					zap.String("path_param", pathParamName))
				m.writeError(w, http.StatusBadRequest, "invalid_request", "Missing session ID in URL")
				return
			}

			sessionID, err := uuid.Parse(rawID)
			if err != nil {
				m.logger.Debug("MCP session lookup failed: malformed session ID",
					zap.String("session_id", rawID))
				m.writeError(w, http.StatusBadRequest, "invalid_session_id", "Invalid session ID format")
				return
			}

			glossary, err := m.registry.Get(r.Context(), sessionID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					m.logger.Debug("MCP session lookup failed: unknown session",
						zap.String("session_id", sessionID.String()))
					m.writeError(w, http.StatusNotFound, "session_not_found", "Glossary session not found")
					return
				}
				m.logger.Error("MCP session lookup failed",
					zap.String("session_id", sessionID.String()),
					zap.Error(err))
				m.writeError(w, http.StatusInternalServerError, "session_lookup_failed", err.Error())
				return
			}

			ctx := tools.WithGlossary(r.Context(), glossary)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *Middleware) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": code, "message": message}); err != nil {
		m.logger.Error("Failed to write error response", zap.Error(err))
	}
}
