package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds map names and node ids accepted from the outside.
const maxNameLength = 256

// ValidateMapName validates a map name used as a storage key.
// It rejects names that could escape a storage directory or break a
// Redis key layout:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateMapName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "map name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "map name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "map name contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\", ":"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "map name contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidateNodeID validates an identifier read from a document.
// Ids are opaque, but must be non-empty and free of whitespace-only or
// control content so they survive DOT and TOML round trips.
func ValidateNodeID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidFormat, "node id cannot be empty")
	}
	if len(id) > maxNameLength {
		return New(ErrCodeInvalidFormat, "node id too long (max %d characters)", maxNameLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFormat, "node id %q contains control characters", id)
		}
	}
	return nil
}
