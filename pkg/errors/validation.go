package errors

import (
	"slices"
	"strings"
	"unicode"
)

// maxNodeIDLength bounds node identifiers read from tree documents.
const maxNodeIDLength = 256

// ValidateNodeID validates a node identifier read from a tree document.
//
// Identifiers may be empty (anonymous nodes) but must not contain control
// characters and must not exceed 256 bytes. Identifiers end up in DOT
// output and log lines, so control characters are rejected outright.
func ValidateNodeID(id string) error {
	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidTree, "node id too long (max %d characters)", maxNodeIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTree, "node id %q contains control characters", id)
		}
	}
	return nil
}

// ValidateThreshold validates a not-ready threshold. Zero disables the
// abort; negative values are rejected.
func ValidateThreshold(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "threshold must be >= 0, got %d", n)
	}
	return nil
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed []string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(allowed, format) {
		return New(ErrCodeInvalidFormat, "invalid format: %s (must be one of %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidateURL validates a backend URL string. The scheme must be one of
// schemes (for example "redis" or "mongodb+srv").
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	scheme, _, ok := strings.Cut(rawURL, "://")
	if !ok {
		return New(ErrCodeInvalidInput, "URL %q has no scheme", rawURL)
	}
	if len(schemes) > 0 && !slices.Contains(schemes, scheme) {
		return New(ErrCodeInvalidInput, "URL scheme %q not allowed (must be one of %s)", scheme, strings.Join(schemes, ", "))
	}
	return nil
}
