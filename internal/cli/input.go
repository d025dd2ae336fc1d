package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/contour"
	"github.com/aretw0/contour/pkg/domain"
	"github.com/aretw0/contour/pkg/schema"
	"github.com/aretw0/contour/pkg/validator"
	"gopkg.in/yaml.v3"
)

// ReadValue reads a candidate document. "-" reads from stdin.
// YAML files (.yaml, .yml) are decoded as YAML; everything else as JSON.
func ReadValue(path string, stdin io.Reader) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return DecodeValue(data, isYAML(path))
}

// DecodeValue decodes a candidate document. JSON numbers are kept as json.Number.
// An empty document is the absent value.
func DecodeValue(data []byte, asYAML bool) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var v any
	if asYAML {
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to parse data yaml: %w", err)
		}
		return v, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to parse data json: %w", err)
	}
	return v, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// ResolveValidator turns a schema reference into a validator.
// A reference naming an existing file is loaded from disk; anything else is
// looked up in the checker's store.
func ResolveValidator(ctx context.Context, checker *contour.Checker, ref string) (*validator.Validator, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		s, err := schema.Load(ref)
		if err != nil {
			return nil, err
		}
		return validator.Compile(s)
	}

	v, err := checker.Validator(ctx, ref)
	if errors.Is(err, domain.ErrSchemaNotFound) || errors.Is(err, domain.ErrInvalidSchemaName) {
		return nil, fmt.Errorf("%q is neither a schema file nor a registered schema: %w", ref, err)
	}
	return v, err
}

// ResolveSchema is like ResolveValidator but returns the schema itself.
func ResolveSchema(ctx context.Context, checker *contour.Checker, ref string) (schema.Schema, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return schema.Load(ref)
	}
	s, err := checker.Lookup(ctx, ref)
	if errors.Is(err, domain.ErrSchemaNotFound) || errors.Is(err, domain.ErrInvalidSchemaName) {
		return schema.Schema{}, fmt.Errorf("%q is neither a schema file nor a registered schema: %w", ref, err)
	}
	return s, err
}
