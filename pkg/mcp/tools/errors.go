package tools

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ekaya-inc/kpi-translator/pkg/apperrors"
)

// ErrorResponse represents a structured error in tool results.
// This is used to return actionable error information to the agent
// as a successful tool result, ensuring error details are visible
// rather than being swallowed by the MCP client.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResult creates a tool result containing a structured error.
// Use this for recoverable/actionable errors the caller can fix
// (e.g., invalid parameters, metric not found).
//
// Do NOT use this for system failures - those should still return Go errors.
func NewErrorResult(code, message string) *mcp.CallToolResult {
	return NewErrorResultWithDetails(code, message, nil)
}

// NewErrorResultWithDetails creates an error result with additional context.
//
// Example:
//
//	return NewErrorResultWithDetails(
//	    "invalid_format",
//	    "missing required columns",
//	    map[string]any{"missing": []string{"Definition"}},
//	), nil
func NewErrorResultWithDetails(code, message string, details any) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
		Details: details,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// IsUserError returns true if the error is caused by caller input (blank fields,
// malformed data, unknown team or metric) rather than a server failure.
// These errors should be returned as JSON error results, not MCP protocol errors,
// because the caller can correct them and retry.
func IsUserError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrFormat) ||
		errors.Is(err, apperrors.ErrNotFound)
}

// userErrorResult converts a user error into a structured tool result.
func userErrorResult(err error) *mcp.CallToolResult {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		return NewErrorResultWithDetails("validation_error", err.Error(), map[string]string{"field": ve.Field})
	}
	var fe *apperrors.FormatError
	if errors.As(err, &fe) {
		if len(fe.Missing) > 0 {
			return NewErrorResultWithDetails("invalid_format", err.Error(), map[string]any{"missing": fe.Missing})
		}
		return NewErrorResult("invalid_format", err.Error())
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return NewErrorResult("not_found", err.Error())
	}
	return NewErrorResult("invalid_request", err.Error())
}
