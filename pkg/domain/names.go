package domain

import (
	"fmt"
	"strings"
)

// ValidateName checks that name can be used as a schema key across all stores.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSchemaName)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidSchemaName, name)
	}
	return nil
}
