// Package sanitize validates externally supplied identifiers before they
// reach the registry or ledger.
package sanitize

import (
	"strings"

	"sharegate/internal/constants"
)

// ValidFileName reports whether a caller-supplied file name is acceptable
// as a registry key. File names are display names, never paths: anything
// that smells like traversal is rejected outright.
func ValidFileName(name string) bool {
	if name == "" || len(name) > constants.MaxFileNameLen {
		return false
	}
	if IsPathTraversal(name) {
		return false
	}
	// Control characters break log lines and HTTP headers
	for _, r := range name {
		if r < 0x20 || r == 0x7F {
			return false
		}
	}
	return true
}

// IsPathTraversal checks whether a string contains path traversal
// indicators, including directory separators, parent directory references,
// null bytes, and common percent-encoded bypass variants.
func IsPathTraversal(s string) bool {
	if s == "" {
		return false
	}

	if strings.Contains(s, "\x00") {
		return true
	}
	if strings.ContainsAny(s, "/\\") {
		return true
	}
	if strings.Contains(s, "..") {
		return true
	}

	lower := strings.ToLower(s)
	encodedPatterns := []string{
		"%2f",    // /
		"%5c",    // \
		"%00",    // null
		"%c0%af", // UTF-8 overlong encoding of /
	}
	for _, pattern := range encodedPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}

	return false
}
