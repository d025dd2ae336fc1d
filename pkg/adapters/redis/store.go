package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/contour/pkg/domain"
	"github.com/aretw0/contour/pkg/schema"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.SchemaStore using Redis.
// Schemas are stored as JSON strings; a set keeps track of the stored names.
type Store struct {
	client *backend.Client
	prefix string
}

type Option func(*Store)

// WithPrefix sets the key prefix for schemas.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "contour:schema:",
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

// indexKey names the set of stored names. Schema names cannot contain "/",
// so it never collides with a schema key.
func (s *Store) indexKey() string {
	return s.prefix + "/index"
}

// Save persists the schema to Redis.
func (s *Store) Save(ctx context.Context, name string, sc schema.Schema) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}

	data, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(name), data, 0)
	pipe.SAdd(ctx, s.indexKey(), name)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the schema from Redis.
func (s *Store) Load(ctx context.Context, name string) (schema.Schema, error) {
	val, err := s.client.Get(ctx, s.key(name)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return schema.Schema{}, domain.ErrSchemaNotFound
		}
		return schema.Schema{}, fmt.Errorf("failed to get from redis: %w", err)
	}

	var sc schema.Schema
	if err := json.Unmarshal([]byte(val), &sc); err != nil {
		return schema.Schema{}, fmt.Errorf("failed to unmarshal schema: %w", err)
	}
	return sc, nil
}

// Delete removes the schema.
func (s *Store) Delete(ctx context.Context, name string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(name))
	pipe.SRem(ctx, s.indexKey(), name)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// List returns the stored names in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
