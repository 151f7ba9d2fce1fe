package util

import (
	"regexp"
	"strings"
)

var controlChars = regexp.MustCompile(`[\x00-\x1F\x7F]+`)

// maxLogField bounds identifiers echoed into logs. Lock controllers are
// unauthenticated, so anything they send is treated as hostile.
const maxLogField = 128

// SanitizeForLog removes control characters and newlines from user content before logging.
func SanitizeForLog(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return controlChars.ReplaceAllString(s, " ")
}

// SanitizeID sanitizes and truncates an externally supplied identifier
// (card or lock uid) for logging.
func SanitizeID(id string) string {
	id = SanitizeForLog(strings.TrimSpace(id))
	if len(id) > maxLogField {
		return id[:maxLogField] + "..."
	}
	return id
}
