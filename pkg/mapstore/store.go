// Package mapstore persists map documents by name.
//
// Two backends implement [Store]:
//   - [FileStore]: one .kknm file per map in a directory, for the CLI
//   - [RedisStore]: one key per map plus a sorted index, for shared setups
//
// Names are validated with [errors.ValidateMapName] before they reach a
// backend. Documents are validated on the way in and sanitized on the way
// out, exactly as [mapfile.Read] does for files.
package mapstore

import (
	"context"
	"time"

	"github.com/kknero/neromind/pkg/errors"
	"github.com/kknero/neromind/pkg/mapfile"
	"github.com/kknero/neromind/pkg/observability"
)

// ErrNotFound is returned by Get when no map has the given name.
var ErrNotFound = errors.New(errors.ErrCodeNotFound, "map not found")

// Entry describes one stored map.
type Entry struct {
	Name      string
	UpdatedAt time.Time
}

// Store is a named collection of map documents.
type Store interface {
	// Get returns the named document or ErrNotFound.
	Get(ctx context.Context, name string) (*mapfile.Document, error)

	// Put validates doc and stores it under name, replacing any previous
	// version.
	Put(ctx context.Context, name string, doc *mapfile.Document) error

	// Delete removes the named document. Deleting a missing map is not an
	// error.
	Delete(ctx context.Context, name string) error

	// List returns every stored map ordered by name.
	List(ctx context.Context) ([]Entry, error)

	// Close releases backend resources.
	Close() error
}

func observe(backend, op string, start time.Time, err error) {
	if errors.Is(err, errors.ErrCodeNotFound) {
		err = nil
	}
	observability.MapStore().OnStorageOp(backend, op, time.Since(start), err)
}
