package mapstore

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	backend "github.com/redis/go-redis/v9"

	"github.com/kknero/neromind/pkg/errors"
	"github.com/kknero/neromind/pkg/mapfile"
)

const (
	redisBackend = "redis"

	// DefaultRedisPrefix namespaces every key the store writes.
	DefaultRedisPrefix = "neromind:map:"
)

// RedisStore keeps each map as a JSON string under <prefix><name>, with a
// sorted set <prefix>index scored by the document's updatedAt.
type RedisStore struct {
	client *backend.Client
	prefix string
	logger *log.Logger
}

// RedisOption configures a [RedisStore].
type RedisOption func(*RedisStore)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// WithRedisLogger sets the logger that receives sanitation warnings.
func WithRedisLogger(l *log.Logger) RedisOption {
	return func(s *RedisStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewRedisStore connects to the Redis server at addr.
func NewRedisStore(addr, password string, db int, opts ...RedisOption) *RedisStore {
	return NewRedisFromClient(backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), opts...)
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *backend.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: DefaultRedisPrefix,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(name string) string { return s.prefix + name }

// indexKey contains a colon, which map names cannot, so it never collides
// with a map key.
func (s *RedisStore) indexKey() string { return s.prefix + "index:" }

func (s *RedisStore) Get(ctx context.Context, name string) (doc *mapfile.Document, err error) {
	start := time.Now()
	defer func() { observe(redisBackend, "get", start, err) }()

	if err := errors.ValidateMapName(name); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if err == backend.Nil {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "get map %s", name)
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

func (s *RedisStore) Put(ctx context.Context, name string, doc *mapfile.Document) (err error) {
	start := time.Now()
	defer func() { observe(redisBackend, "put", start, err) }()

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

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(name), buf.Bytes(), 0)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  float64(doc.Meta.UpdatedAt),
		Member: name,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "put map %s", name)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { observe(redisBackend, "delete", start, err) }()

	if err := errors.ValidateMapName(name); err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete map %s", name)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) (entries []Entry, err error) {
	start := time.Now()
	defer func() { observe(redisBackend, "list", start, err) }()

	members, err := s.client.ZRangeWithScores(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list maps")
	}
	for _, z := range members {
		name, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			Name:      name,
			UpdatedAt: time.UnixMilli(int64(z.Score)).UTC(),
		})
	}
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return entries, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
