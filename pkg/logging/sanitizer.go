// Package logging holds helpers for keeping log output safe: secrets are
// redacted and free-text user input is truncated before it reaches a field.
package logging

import (
	"regexp"
	"strings"
)

const (
	// MaxQuestionLogLength is the maximum length of user question text to log.
	MaxQuestionLogLength = 120
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Pattern to match bearer tokens echoed back in provider error bodies
	bearerPattern = regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9-_.]+`)

	// Pattern to match potential API keys (sk-..., key=... styles)
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|key)=[A-Za-z0-9-_]{20,}`)

	// Pattern to match provider secret key literals
	skPattern = regexp.MustCompile(`\bsk-[A-Za-z0-9-_]{10,}`)
)

// RedactSecrets removes credential material from a string before logging.
// Provider SDK errors sometimes echo the authorization header back.
func RedactSecrets(s string) string {
	if s == "" {
		return ""
	}
	s = bearerPattern.ReplaceAllString(s, "Bearer "+RedactedText)
	s = apiKeyPattern.ReplaceAllString(s, "${1}="+RedactedText)
	s = skPattern.ReplaceAllString(s, RedactedText)
	return s
}

// TruncateQuestion bounds free-text user input for log fields.
func TruncateQuestion(q string) string {
	q = strings.TrimSpace(q)
	if len(q) <= MaxQuestionLogLength {
		return q
	}
	return q[:MaxQuestionLogLength] + "..."
}
