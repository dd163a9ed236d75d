package mapstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kknero/neromind/pkg/errors"
	"github.com/kknero/neromind/pkg/mapfile"
)

const fileBackend = "file"

// FileStore keeps each map in <dir>/<name>.kknm.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	logger  *log.Logger
}

// FileOption configures a [FileStore].
type FileOption func(*FileStore)

// WithFileLogger sets the logger that receives sanitation warnings.
func WithFileLogger(l *log.Logger) FileOption {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewFileStore creates a file store rooted at baseDir, creating it if
// needed. An empty baseDir uses [DefaultDir].
func NewFileStore(baseDir string, opts ...FileOption) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create map dir")
	}
	s := &FileStore{baseDir: baseDir, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// DefaultDir returns $XDG_DATA_HOME/neromind/maps, falling back to
// ~/.local/share/neromind/maps.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "neromind", "maps"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "get home dir")
	}
	return filepath.Join(home, ".local", "share", "neromind", "maps"), nil
}

func (s *FileStore) mapPath(name string) string {
	return filepath.Join(s.baseDir, name+mapfile.Extension)
}

func (s *FileStore) Get(ctx context.Context, name string) (doc *mapfile.Document, err error) {
	start := time.Now()
	defer func() { observe(fileBackend, "get", start, err) }()

	if err := errors.ValidateMapName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.mapPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read map %s", name)
	}
	doc, warnings, err := mapfile.Read(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		s.logger.Warn(w.String(), "map", name)
	}
	return doc, nil
}

func (s *FileStore) Put(ctx context.Context, name string, doc *mapfile.Document) (err error) {
	start := time.Now()
	defer func() { observe(fileBackend, "put", start, err) }()

	if err := errors.ValidateMapName(name); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := mapfile.Write(doc, &buf); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "encode map %s", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Write to a sibling temp file and rename so readers never see a
	// partial document.
	tmp, err := os.CreateTemp(s.baseDir, "."+name+"-*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write map %s", name)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeStorage, err, "write map %s", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write map %s", name)
	}
	if err := os.Rename(tmp.Name(), s.mapPath(name)); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write map %s", name)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { observe(fileBackend, "delete", start, err) }()

	if err := errors.ValidateMapName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.mapPath(name)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStorage, err, "remove map %s", name)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) (entries []Entry, err error) {
	start := time.Now()
	defer func() { observe(fileBackend, "list", start, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	dirEntries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read map dir")
	}
	for _, e := range dirEntries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != mapfile.Extension {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:      strings.TrimSuffix(name, mapfile.Extension),
			UpdatedAt: info.ModTime(),
		})
	}
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return entries, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the directory holding the map files.
func (s *FileStore) Path() string { return s.baseDir }

var _ Store = (*FileStore)(nil)
