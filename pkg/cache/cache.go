// Package cache stores rendered artifacts so unchanged maps are not drawn
// twice.
//
// Keys are derived from the DOT source and the output format with
// [ArtifactKey]; the same map, layout and render options always produce
// the same key. [FileCache] keeps entries under the user cache directory and
// [NullCache] disables caching.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// DefaultTTL bounds how long a rendered artifact is reused.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// DefaultDir returns the artifact cache directory following the XDG
// convention (~/.cache/neromind/render).
func DefaultDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "neromind", "render"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "neromind", "render"), nil
}
