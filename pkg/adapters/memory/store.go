package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/contour/pkg/domain"
	"github.com/aretw0/contour/pkg/schema"
)

// Store implements ports.SchemaStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]schema.Schema
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store, optionally seeded with schemas.
func NewStore(seed map[string]schema.Schema) *Store {
	data := make(map[string]schema.Schema, len(seed))
	for name, s := range seed {
		data[name] = s.Clone()
	}
	return &Store{data: data}
}

// Save persists the schema in memory.
func (s *Store) Save(ctx context.Context, name string, sc schema.Schema) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}

	// Deep copy to ensure isolation, similar to serialization
	copied := sc.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = copied
	return nil
}

// Load retrieves the schema from memory.
func (s *Store) Load(ctx context.Context, name string) (schema.Schema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.data[name]
	if !ok {
		return schema.Schema{}, domain.ErrSchemaNotFound
	}

	// Copy on read so callers can't mutate the stored schema
	return sc.Clone(), nil
}

// Delete removes the schema.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored names in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
