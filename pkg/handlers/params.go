package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ParseSessionID extracts and validates the glossary session ID from the request path.
// Returns the parsed UUID and true on success, or uuid.Nil and false on error
// (after writing an error response).
// Expects path parameter: sid
func ParseSessionID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "sid", "invalid_session_id", "Invalid session ID format", logger)
}

// requireQuery reads required query parameters in order. On the first missing
// or blank parameter it writes a 400 response and returns false.
func requireQuery(w http.ResponseWriter, r *http.Request, logger *zap.Logger, names ...string) ([]string, bool) {
	query := r.URL.Query()
	values := make([]string, 0, len(names))
	for _, name := range names {
		value := strings.TrimSpace(query.Get(name))
		if value == "" {
			if err := ErrorResponse(w, http.StatusBadRequest, "missing_parameter", "Query parameter '"+name+"' is required"); err != nil {
				logger.Error("Failed to write error response", zap.Error(err))
			}
			return nil, false
		}
		values = append(values, value)
	}
	return values, true
}

// parseUUID is the internal helper that does the actual parsing work.
func parseUUID(w http.ResponseWriter, r *http.Request, pathParam, errorCode, errorMessage string, logger *zap.Logger) (uuid.UUID, bool) {
	idStr := r.PathValue(pathParam)
	id, err := uuid.Parse(idStr)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, errorCode, errorMessage); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}
