package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// trimString removes leading and trailing whitespace from a string.
// This is a common helper used across MCP tool parameter validation.
func trimString(s string) string {
	return strings.TrimSpace(s)
}

// getOptionalString extracts an optional string argument from the request.
func getOptionalString(req mcp.CallToolRequest, key string) string {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return ""
	}
	val, ok := args[key].(string)
	if !ok {
		return ""
	}
	return val
}

// requireTrimmed reads a required string argument and rejects blank values.
// The second return value is non-nil when the argument is missing or blank.
func requireTrimmed(req mcp.CallToolRequest, name string) (string, *mcp.CallToolResult) {
	value, err := req.RequireString(name)
	if err != nil {
		return "", NewErrorResult("invalid_parameters", err.Error())
	}
	value = trimString(value)
	if value == "" {
		return "", NewErrorResult("invalid_parameters", fmt.Sprintf("parameter %q must not be empty", name))
	}
	return value, nil
}

// jsonResult marshals v as the text content of a tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
