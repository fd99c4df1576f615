package logging

import (
	"strings"
	"testing"
)

func TestExcerptReport(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "collapses whitespace",
			input:    "Marketing's   Engagement Rate\n\tand Sales' Qualified Lead",
			expected: "Marketing's Engagement Rate and Sales' Qualified Lead",
		},
		{
			name:     "redacts email",
			input:    "Contact jane.doe@example.com about Churn Risk",
			expected: "Contact [REDACTED] about Churn Risk",
		},
		{
			name:     "redacts bearer token",
			input:    "token Bearer eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.abc pasted",
			expected: "token Bearer [REDACTED] pasted",
		},
		{
			name:     "redacts api key",
			input:    "api_key=abcdefghijklmnopqrstuvwxyz123456 leaked",
			expected: "api_key=[REDACTED] leaked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExcerptReport(tt.input)
			if result != tt.expected {
				t.Errorf("ExcerptReport() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExcerptReport_Truncates(t *testing.T) {
	input := strings.Repeat("success ", 50)
	result := ExcerptReport(input)

	if !strings.HasSuffix(result, "...") {
		t.Errorf("expected truncated excerpt to end with ellipsis, got %q", result)
	}
	if len([]rune(result)) != MaxExcerptLength+3 {
		t.Errorf("expected %d runes, got %d", MaxExcerptLength+3, len([]rune(result)))
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			maxLen:   10,
			expected: "",
		},
		{
			name:     "string shorter than max",
			input:    "hello",
			maxLen:   10,
			expected: "hello",
		},
		{
			name:     "string exactly at max",
			input:    "hello",
			maxLen:   5,
			expected: "hello",
		},
		{
			name:     "string longer than max",
			input:    "hello world",
			maxLen:   5,
			expected: "hello...",
		},
		{
			name:     "truncate to zero",
			input:    "hello",
			maxLen:   0,
			expected: "...",
		},
		{
			name:     "multibyte runes kept whole",
			input:    "Clicks ÷ sent",
			maxLen:   8,
			expected: "Clicks ÷...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TruncateString(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("TruncateString() = %q, want %q", result, tt.expected)
			}
		})
	}
}
