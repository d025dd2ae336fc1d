package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/contour/pkg/domain"
	"github.com/aretw0/contour/pkg/schema"
)

// extensions recognised on load, in lookup order.
var extensions = []string{".yaml", ".yml", ".json"}

// Store implements ports.SchemaStore using the local filesystem.
// Each schema lives in its own YAML or JSON document named after the schema.
type Store struct {
	BasePath string
	format   schema.Format
}

// Option configures a Store.
type Option func(*Store)

// WithFormat sets the encoding used when saving schemas (YAML by default).
func WithFormat(format schema.Format) Option {
	return func(s *Store) {
		s.format = format
	}
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".contour/schemas".
func New(basePath string, opts ...Option) *Store {
	if basePath == "" {
		basePath = filepath.Join(".contour", "schemas")
	}
	s := &Store{BasePath: basePath, format: schema.FormatYAML}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) ext() string {
	if s.format == schema.FormatJSON {
		return ".json"
	}
	return ".yaml"
}

// Save persists the schema atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
// Documents of the same name in other formats are removed so Load stays unambiguous.
func (s *Store) Save(ctx context.Context, name string, sc schema.Schema) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure schema directory: %w", err)
	}

	data, err := schema.Encode(sc, s.format)
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}

	destPath := filepath.Join(s.BasePath, name+s.ext())

	// Same directory so the rename stays on one filesystem
	tmpFile, err := os.CreateTemp(s.BasePath, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing schema file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to schema: %w", err)
	}

	for _, ext := range extensions {
		if ext == s.ext() {
			continue
		}
		if err := os.Remove(filepath.Join(s.BasePath, name+ext)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove stale schema file: %w", err)
		}
	}

	return nil
}

// Load reads the schema document for name.
func (s *Store) Load(ctx context.Context, name string) (schema.Schema, error) {
	if err := domain.ValidateName(name); err != nil {
		return schema.Schema{}, err
	}

	for _, ext := range extensions {
		path := filepath.Join(s.BasePath, name+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return schema.Schema{}, fmt.Errorf("failed to read schema file: %w", err)
		}
		sc, err := schema.Parse(data, schema.FormatFromPath(path))
		if err != nil {
			return schema.Schema{}, fmt.Errorf("schema %s: %w", name, err)
		}
		return sc, nil
	}

	return schema.Schema{}, domain.ErrSchemaNotFound
}

// Delete removes every document stored for name.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}

	for _, ext := range extensions {
		err := os.Remove(filepath.Join(s.BasePath, name+ext))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to delete schema file: %w", err)
		}
	}
	return nil
}

// List returns the names of all schema documents in the base path.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}

	seen := make(map[string]bool)
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !isSchemaExt(ext) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func isSchemaExt(ext string) bool {
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}
