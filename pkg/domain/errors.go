package domain

import "errors"

// ErrSchemaNotFound is returned when a named schema cannot be found in the store.
var ErrSchemaNotFound = errors.New("schema not found")

// ErrInvalidSchemaName is returned when a schema name is empty or cannot be used as a key.
var ErrInvalidSchemaName = errors.New("invalid schema name")
