package ports

import (
	"context"

	"github.com/aretw0/contour/pkg/schema"
)

// SchemaStore defines the interface for persisting named schemas.
type SchemaStore interface {
	// Save persists the schema under name, replacing any previous version.
	Save(ctx context.Context, name string, s schema.Schema) error

	// Load retrieves the schema stored under name.
	// Returns domain.ErrSchemaNotFound if the name is unknown.
	Load(ctx context.Context, name string) (schema.Schema, error)

	// Delete removes the schema. Deleting an unknown name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored names in ascending order.
	List(ctx context.Context) ([]string, error)
}
