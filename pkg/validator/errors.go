package validator

import (
	"errors"
	"fmt"

	"github.com/aretw0/contour/pkg/schema"
)

// Definition errors. They are returned by Compile wrapped in a *DefinitionError.
var (
	// ErrUnsupportedSchemaType is returned when a schema node carries an unknown discriminant.
	ErrUnsupportedSchemaType = errors.New("unsupported type")
	// ErrDanglingRequiredKey is returned when requiredKeys names a field absent from properties.
	ErrDanglingRequiredKey = errors.New("required key is not declared in properties")
	// ErrMissingItems is returned when an array schema has no items schema.
	ErrMissingItems = errors.New("array schema has no items")
)

// DefinitionError reports a malformed schema found during compilation.
type DefinitionError struct {
	Path string      // Location of the offending node, e.g. "$.properties.tags.items"
	Type schema.Kind // Discriminant of the offending node
	Key  string      // Offending field name, for dangling requiredKeys
	Err  error
}

func (e *DefinitionError) Error() string {
	switch {
	case errors.Is(e.Err, ErrUnsupportedSchemaType):
		return fmt.Sprintf("schema %s: %s %q", e.Path, e.Err, e.Type)
	case e.Key != "":
		return fmt.Sprintf("schema %s: %s: %q", e.Path, e.Err, e.Key)
	default:
		return fmt.Sprintf("schema %s: %s", e.Path, e.Err)
	}
}

func (e *DefinitionError) Unwrap() error { return e.Err }

// IsDefinitionError reports whether err stems from a malformed schema.
func IsDefinitionError(err error) bool {
	var de *DefinitionError
	return errors.As(err, &de)
}

// ValidationError describes the first failure found by Check.
// Validate never produces one; it only reports the verdict.
type ValidationError struct {
	Path   string // Location in the candidate, e.g. "$.items[2]"
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation, nil when absent
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("value %s: %s", e.Path, e.Reason)
}

// within prefixes the failure path with a parent segment.
func (e *ValidationError) within(segment string) *ValidationError {
	e.Path = segment + e.Path
	return e
}
