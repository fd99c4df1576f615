package logging

import (
	"regexp"
	"strings"
)

const (
	// MaxExcerptLength is the maximum length of report text to log
	MaxExcerptLength = 100
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Pattern to match bearer tokens pasted into report text
	jwtPattern = regexp.MustCompile(`Bearer\s+[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+\.[A-Za-z0-9-_]*`)

	// Pattern to match potential API keys
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|key)=[A-Za-z0-9-_]{20,}`)

	// Pattern to match email addresses
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
)

// ExcerptReport prepares free-text report content for logging.
// Whitespace runs collapse to a single space, credentials and email addresses are
// redacted, and the result is truncated to MaxExcerptLength.
func ExcerptReport(text string) string {
	if text == "" {
		return ""
	}

	excerpt := strings.Join(strings.Fields(text), " ")
	excerpt = jwtPattern.ReplaceAllString(excerpt, "Bearer "+RedactedText)
	excerpt = apiKeyPattern.ReplaceAllString(excerpt, "${1}="+RedactedText)
	excerpt = emailPattern.ReplaceAllString(excerpt, RedactedText)

	return TruncateString(excerpt, MaxExcerptLength)
}

// TruncateString truncates a string to maxLen runes and adds ellipsis if needed
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
